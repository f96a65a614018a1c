package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"truckwash/services"
	"truckwash/templates"
)

// maxDocumentSize bounds fiscal document uploads.
const maxDocumentSize = 10 << 20

// customerFromForm reads the registration form into a draft. Blank fields
// stay blank here; normalisation happens on save.
func customerFromForm(r *http.Request) services.CustomerRecord {
	v := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }
	c := services.NewCustomerDraft()
	c.Name = services.CustomerName{
		FullName:         v("fullName"),
		Given:            v("name"),
		PaternalLastName: v("paternalLastName"),
		MaternalLastName: v("maternalLastName"),
	}
	c.Billing = services.BillingInfo{
		RFC:           strings.ToUpper(v("rfc")),
		TaxRegime:     v("taxRegime"),
		TaxPostalCode: v("taxPostalCode"),
	}
	c.Address.Street = v("street")
	c.Address.ExteriorNumber = v("exteriorNumber")
	c.Address.InteriorNumber = v("interiorNumber")
	c.Address.Neighborhood = v("neighborhood")
	c.Address.Municipality = v("municipality")
	c.Address.State = v("state")
	c.Address.PostalCode = v("postalCode")
	c.Contact = services.Contact{Email: v("email"), Phone: v("phone")}
	return c
}

// HandleCustomerRegisterPage renders the empty registration form.
// Route: GET /customers/new
func HandleCustomerRegisterPage(extractionEnabled bool) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data := templates.RegisterData{
			Draft:             services.NewCustomerDraft(),
			ExtractionEnabled: extractionEnabled,
		}
		return renderPage(e, "Registrar cliente", templates.RegisterContent(data))
	}
}

// HandleCustomerRegister validates and stores a new customer, then sends the
// operator to the new profile. Validation errors re-render the form.
// Route: POST /customers/new
func HandleCustomerRegister(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Datos de formulario inválidos")
		}
		draft := customerFromForm(e.Request)

		saved, err := services.RegisterCustomer(app, draft, time.Now())
		if err != nil {
			var ve validation.Errors
			if errors.As(err, &ve) {
				data := templates.RegisterData{Draft: draft, Errors: services.FieldErrors(err)}
				e.Response.WriteHeader(http.StatusUnprocessableEntity)
				return templates.RegisterForm(data).Render(e.Request.Context(), e.Response)
			}
			log.Printf("customer_register: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudo guardar el cliente. Intenta de nuevo.")
		}

		if warn := services.RegistrationWarnings(saved); len(warn) > 0 {
			SetToast(e, "info", "Cliente registrado. Revisa: "+firstMessage(warn))
		} else {
			SetToast(e, "success", "Cliente registrado")
		}
		return redirect(e, "/customers/"+saved.ID)
	}
}

// renderExtracted merges an extraction result into the posted draft and
// re-renders the form. Extraction failures are advisory: the form comes
// back unchanged with a notice.
func renderExtracted(e *core.RequestEvent, draft services.CustomerRecord, rec services.CustomerRecord, err error) error {
	data := templates.RegisterData{Draft: draft}
	if err != nil {
		log.Printf("customer_extract: %v", err)
		msg := services.AdvisoryMessage(err)
		data.Notice = msg
		SetToast(e, "error", msg)
	} else {
		data.Draft = services.MergeExtracted(draft, rec)
		SetToast(e, "success", "Datos extraídos. Revisa antes de guardar.")
	}
	return templates.RegisterForm(data).Render(e.Request.Context(), e.Response)
}

// HandleExtractDocument reads an uploaded Constancia de Situación Fiscal.
// Route: POST /customers/new/extract/document
func HandleExtractDocument(ext services.Extractor) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(maxDocumentSize); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Archivo demasiado grande o formulario inválido")
		}
		draft := customerFromForm(e.Request)

		file, header, err := e.Request.FormFile("document")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Selecciona un documento")
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxDocumentSize))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "No se pudo leer el archivo")
		}

		rec, err := ext.ExtractDocument(e.Request.Context(), data, header.Header.Get("Content-Type"))
		return renderExtracted(e, draft, rec, err)
	}
}

// HandleExtractURL reads the SAT page behind a fiscal QR code.
// Route: POST /customers/new/extract/url
func HandleExtractURL(ext services.Extractor) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Datos de formulario inválidos")
		}
		draft := customerFromForm(e.Request)

		rawURL := e.Request.FormValue("sat_url")
		if _, err := services.ValidateSATURL(rawURL); err != nil {
			return ErrorToast(e, http.StatusBadRequest, services.ErrInvalidSATURL.Error())
		}

		rec, err := ext.ExtractURL(e.Request.Context(), rawURL)
		return renderExtracted(e, draft, rec, err)
	}
}
