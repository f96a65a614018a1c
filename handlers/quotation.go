package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"truckwash/services"
	"truckwash/templates"
)

// HandleQuotationNew opens an empty builder for a customer.
// Route: GET /customers/{code}/quotations/new
func HandleQuotationNew(app *pocketbase.PocketBase, prices *services.PriceBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		code := e.Request.PathValue("code")
		c, err := services.FindCustomer(app, code)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return ErrorToast(e, http.StatusNotFound, "Cliente no encontrado")
			}
			log.Printf("quotation_new: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Error al cargar el cliente")
		}

		sel := services.NewSelection(services.CategoryNone)
		pl := prices.Current()
		data := templates.BuilderData{
			CustomerCode: c.ID,
			CustomerName: c.DisplayName(),
			Selection:    sel,
			Quote:        services.ComputeQuotation(sel, pl, sel.Category),
			Prices:       pl,
			IssueDate:    time.Now(),
		}
		return renderPage(e, "Nueva cotización", templates.QuotationContent(data))
	}
}

// HandleQuotationView opens a saved quotation in the builder. The stored
// line items are shown until the operator changes the selection.
// Route: GET /quotations/{id}
func HandleQuotationView(app *pocketbase.PocketBase, prices *services.PriceBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		q, err := services.FindQuotation(app, id)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return ErrorToast(e, http.StatusNotFound, "Cotización no encontrada")
			}
			log.Printf("quotation_view: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Error al cargar la cotización")
		}

		name := q.CustomerID
		if c, err := services.FindCustomer(app, q.CustomerID); err == nil {
			name = c.DisplayName()
		}
		data := templates.BuilderData{
			QuotationID:  q.ID,
			CustomerCode: q.CustomerID,
			CustomerName: name,
			Selection:    q.Selection,
			Quote:        services.Quote{LineItems: q.LineItems, Total: q.Total},
			Prices:       prices.Current(),
			IssueDate:    q.IssueDate,
		}
		if q.VehicleInfo != nil {
			data.Vehicle = *q.VehicleInfo
		}
		return renderPage(e, "Cotización "+q.ID, templates.QuotationContent(data))
	}
}

// builderFromForm prices the posted selection against the current list.
func builderFromForm(r *http.Request, prices *services.PriceBook) templates.BuilderData {
	sel := parseSelectionForm(r)
	pl := prices.Current()
	return templates.BuilderData{
		QuotationID:  r.FormValue("quotation_id"),
		CustomerCode: r.FormValue("customer_code"),
		Selection:    sel,
		Quote:        services.ComputeQuotation(sel, pl, sel.Category),
		Prices:       pl,
		Vehicle:      parseVehicleForm(r),
		IssueDate:    parseIssueDate(r.FormValue("issue_date")),
	}
}

// parseIssueDate reads the builder's date input as a UTC calendar date.
// Blank or malformed values give the zero time.
func parseIssueDate(s string) time.Time {
	t, err := time.Parse(templates.DateInputLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

// HandleQuotationPreview recomputes the quote for the posted selection and
// returns the refreshed builder. Nothing is stored.
// Route: POST /quotations/preview
func HandleQuotationPreview(prices *services.PriceBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Datos de formulario inválidos")
		}
		data := builderFromForm(e.Request, prices)
		return templates.QuoteBuilder(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleQuotationSave stores the posted selection as a quotation. Posting an
// existing quotation id of the same customer and category overwrites it.
// A category change replaces it with a quotation under a fresh id, since the
// id prefix names the category. The posted issue date wins over the stored
// one.
// Route: POST /quotations
func HandleQuotationSave(app *pocketbase.PocketBase, prices *services.PriceBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Datos de formulario inválidos")
		}
		data := builderFromForm(e.Request, prices)
		if data.Quick() {
			return ErrorToast(e, http.StatusBadRequest, "Selecciona un cliente para guardar la cotización")
		}
		if data.Selection.Category == services.CategoryNone {
			return ErrorToast(e, http.StatusBadRequest, "Selecciona una categoría")
		}
		if _, err := services.FindCustomer(app, data.CustomerCode); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Cliente no encontrado")
		}

		now := time.Now()
		q := services.NewQuotation(data.CustomerCode, data.Selection, data.Prices, &data.Vehicle, now)
		replaced := ""
		if data.QuotationID != "" {
			if prev, err := services.FindQuotation(app, data.QuotationID); err == nil && prev.CustomerID == data.CustomerCode {
				if services.CategoryFromQuotationID(prev.ID) == q.Category {
					q.ID = prev.ID
					q.IssueDate = prev.IssueDate
				} else {
					replaced = prev.ID
				}
			}
		}
		if !data.IssueDate.IsZero() {
			q.IssueDate = data.IssueDate
		}

		saved, err := services.SaveQuotation(app, q)
		if err != nil {
			log.Printf("quotation_save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudo guardar la cotización")
		}
		if replaced != "" {
			if err := services.DeleteQuotation(app, replaced); err != nil {
				log.Printf("quotation_save: remove replaced %s: %v", replaced, err)
			}
		}

		SetToast(e, "success", "Cotización guardada")
		return redirect(e, "/quotations/"+saved.ID)
	}
}

// HandleQuotationDelete removes a quotation and returns to its customer.
// Route: DELETE /quotations/{id}
func HandleQuotationDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		q, err := services.FindQuotation(app, id)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return ErrorToast(e, http.StatusNotFound, "Cotización no encontrada")
			}
			log.Printf("quotation_delete: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Error al eliminar la cotización")
		}
		if err := services.DeleteQuotation(app, id); err != nil {
			log.Printf("quotation_delete: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Error al eliminar la cotización")
		}

		SetToast(e, "success", "Cotización eliminada")
		return redirect(e, "/customers/"+q.CustomerID)
	}
}

// HandleQuickQuote opens the builder without a customer.
// Route: GET /quick-quote
func HandleQuickQuote(prices *services.PriceBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sel := services.NewSelection(services.CategoryNone)
		pl := prices.Current()
		data := templates.BuilderData{
			Selection: sel,
			Quote:     services.ComputeQuotation(sel, pl, sel.Category),
			Prices:    pl,
		}
		return renderPage(e, "Cotización rápida", templates.QuotationContent(data))
	}
}
