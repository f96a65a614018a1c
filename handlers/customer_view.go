package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"truckwash/services"
	"truckwash/templates"
)

// HandleSearch lists customers and quotations matching q. HTMX requests get
// only the results partial.
// Route: GET /search?q=
func HandleSearch(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := strings.TrimSpace(e.Request.URL.Query().Get("q"))

		customers, err := services.SearchCustomers(app, q)
		if err != nil {
			log.Printf("search: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Error al buscar. Intenta de nuevo.")
		}
		quotations, err := services.SearchQuotations(app, q)
		if err != nil {
			log.Printf("search: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Error al buscar. Intenta de nuevo.")
		}

		data := templates.SearchData{
			Query:      q,
			Customers:  customerRows(customers),
			Quotations: quotationRows(quotations, customerNames(app)),
		}
		if isHTMX(e) {
			return templates.SearchResults(data).Render(e.Request.Context(), e.Response)
		}
		return renderPage(e, "Buscar", templates.SearchContent(data))
	}
}

// HandleGeneralCustomer opens the walk-in customer's profile.
// Route: GET /customers/general
func HandleGeneralCustomer() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.Redirect(http.StatusFound, "/customers/"+services.GeneralCustomerID)
	}
}

// HandleCustomerProfile renders a customer with its quotations and orders.
// Route: GET /customers/{code}
func HandleCustomerProfile(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		code := e.Request.PathValue("code")

		c, err := services.FindCustomer(app, code)
		if errors.Is(err, services.ErrNotFound) {
			return ErrorToast(e, http.StatusNotFound, "Cliente no encontrado")
		}
		if err != nil {
			log.Printf("customer_profile: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Error al cargar el cliente")
		}

		quotations, err := services.ListQuotationsForCustomer(app, code)
		if err != nil {
			log.Printf("customer_profile: %v", err)
			quotations = nil
		}
		orders, err := services.ListServiceOrdersForCustomer(app, code)
		if err != nil {
			log.Printf("customer_profile: %v", err)
			orders = nil
		}

		name := c.DisplayName()
		data := templates.ProfileData{
			Customer:      c,
			Deletable:     services.IsDeletable(code),
			Quotations:    quotationRows(quotations, func(string) string { return name }),
			ServiceOrders: serviceOrderRows(orders),
		}
		return renderPage(e, name, templates.ProfileContent(data))
	}
}

// HandleCustomerDelete removes a customer with its quotations and orders.
// Route: DELETE /customers/{code}
func HandleCustomerDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		code := e.Request.PathValue("code")

		err := services.DeleteCustomer(app, code)
		switch {
		case errors.Is(err, services.ErrGeneralCustomerProtected):
			return ErrorToast(e, http.StatusForbidden, "El Cliente General no se puede eliminar")
		case errors.Is(err, services.ErrNotFound):
			return ErrorToast(e, http.StatusNotFound, "Cliente no encontrado")
		case err != nil:
			log.Printf("customer_delete: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudo eliminar el cliente")
		}

		SetToast(e, "success", "Cliente eliminado")
		return redirect(e, "/search")
	}
}
