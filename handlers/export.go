package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"truckwash/config"
	"truckwash/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, `"`, "")
	return s
}

func sendFile(e *core.RequestEvent, contentType, filename string, data []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	e.Response.Write(data)
	return nil
}

// customerOrGeneral loads the document's customer, falling back to the
// walk-in record so a document can always be printed.
func customerOrGeneral(app *pocketbase.PocketBase, code string) services.CustomerRecord {
	c, err := services.FindCustomer(app, code)
	if err != nil {
		log.Printf("export: customer %s: %v", code, err)
		return services.GeneralCustomer()
	}
	return c
}

// HandleQuotationPDF downloads a quotation as a printable PDF.
// Route: GET /quotations/{id}/pdf
func HandleQuotationPDF(app *pocketbase.PocketBase, station config.Station) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q, err := services.FindQuotation(app, e.Request.PathValue("id"))
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return e.String(http.StatusNotFound, "Cotización no encontrada")
			}
			log.Printf("export_pdf: %v", err)
			return e.String(http.StatusInternalServerError, "Error al generar el PDF")
		}

		doc := services.NewQuotationDocument(q, customerOrGeneral(app, q.CustomerID), station)
		pdfBytes, err := services.GenerateServiceDocumentPDF(doc)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Error al generar el PDF")
		}
		return sendFile(e, "application/pdf", fmt.Sprintf("Cotizacion_%s.pdf", sanitizeFilename(q.ID)), pdfBytes)
	}
}

// HandleServiceOrderPDF downloads a service order as a printable PDF.
// Route: GET /service-orders/{id}/pdf
func HandleServiceOrderPDF(app *pocketbase.PocketBase, station config.Station) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		so, err := services.FindServiceOrder(app, e.Request.PathValue("id"))
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return e.String(http.StatusNotFound, "Orden de servicio no encontrada")
			}
			log.Printf("export_pdf: %v", err)
			return e.String(http.StatusInternalServerError, "Error al generar el PDF")
		}

		doc := services.NewServiceOrderDocument(so, customerOrGeneral(app, so.CustomerID), station)
		pdfBytes, err := services.GenerateServiceDocumentPDF(doc)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Error al generar el PDF")
		}
		return sendFile(e, "application/pdf", fmt.Sprintf("Orden_%s.pdf", sanitizeFilename(so.ID)), pdfBytes)
	}
}

// HandleChecklistPDF downloads the order's checklist with its current marks.
// Route: GET /service-orders/{id}/checklist.pdf
func HandleChecklistPDF(app *pocketbase.PocketBase, station config.Station) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		so, err := services.FindServiceOrder(app, e.Request.PathValue("id"))
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return e.String(http.StatusNotFound, "Orden de servicio no encontrada")
			}
			log.Printf("export_checklist: %v", err)
			return e.String(http.StatusInternalServerError, "Error al generar el PDF")
		}
		so.SyncChecklist()

		doc := services.NewChecklistDocument(so, customerOrGeneral(app, so.CustomerID), station)
		pdfBytes, err := services.GenerateChecklistPDF(doc)
		if err != nil {
			log.Printf("export_checklist: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Error al generar el PDF")
		}
		return sendFile(e, "application/pdf", fmt.Sprintf("Checklist_%s.pdf", sanitizeFilename(so.ID)), pdfBytes)
	}
}

// HandleCustomerQuotationsExcel downloads a customer's quotations.
// Route: GET /customers/{code}/quotations.xlsx
func HandleCustomerQuotationsExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		code := e.Request.PathValue("code")
		c, err := services.FindCustomer(app, code)
		if err != nil {
			return e.String(http.StatusNotFound, "Cliente no encontrado")
		}
		qs, err := services.ListQuotationsForCustomer(app, code)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return e.String(http.StatusInternalServerError, "Error al generar el archivo")
		}

		name := c.DisplayName()
		rows := services.QuotationSheetRows(qs, func(string) string { return name })
		xlsxBytes, err := services.GenerateQuotationsExcel("Cotizaciones de "+name, rows)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Error al generar el archivo")
		}
		filename := fmt.Sprintf("Cotizaciones_%s_%s.xlsx", sanitizeFilename(code), time.Now().Format("2006-01-02"))
		return sendFile(e, xlsxContentType, filename, xlsxBytes)
	}
}

// HandleSearchQuotationsExcel downloads the quotations matched by a search.
// Route: GET /search/quotations.xlsx?q=
func HandleSearchQuotationsExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := strings.TrimSpace(e.Request.URL.Query().Get("q"))
		qs, err := services.SearchQuotations(app, q)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return e.String(http.StatusInternalServerError, "Error al generar el archivo")
		}

		rows := services.QuotationSheetRows(qs, customerNames(app))
		xlsxBytes, err := services.GenerateQuotationsExcel("Búsqueda: "+q, rows)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Error al generar el archivo")
		}
		filename := fmt.Sprintf("Cotizaciones_%s.xlsx", time.Now().Format("2006-01-02"))
		return sendFile(e, xlsxContentType, filename, xlsxBytes)
	}
}
