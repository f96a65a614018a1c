package handlers

import (
	"errors"
	"log"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"truckwash/config"
	"truckwash/services"
	"truckwash/templates"
)

func loadServiceOrder(e *core.RequestEvent, app *pocketbase.PocketBase) (services.ServiceOrder, bool, error) {
	so, err := services.FindServiceOrder(app, e.Request.PathValue("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return so, false, ErrorToast(e, http.StatusNotFound, "Orden de servicio no encontrada")
		}
		log.Printf("service_order: %v", err)
		return so, false, ErrorToast(e, http.StatusInternalServerError, "Error al cargar la orden de servicio")
	}
	return so, true, nil
}

// HandleServiceOrderCreate opens a service order, either from a saved
// quotation (its priced lines are carried over) or from the posted
// selection.
// Route: POST /service-orders
func HandleServiceOrderCreate(app *pocketbase.PocketBase, prices *services.PriceBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Datos de formulario inválidos")
		}
		now := time.Now()
		vehicle := parseVehicleForm(e.Request)

		var so services.ServiceOrder
		if id := e.Request.FormValue("quotation_id"); id != "" {
			q, err := services.FindQuotation(app, id)
			if err != nil {
				return ErrorToast(e, http.StatusNotFound, "Cotización no encontrada")
			}
			so = services.NewServiceOrder(q.CustomerID, q.Selection, prices.Current(), &q, now)
		} else {
			sel := parseSelectionForm(e.Request)
			if sel.Category == services.CategoryNone {
				return ErrorToast(e, http.StatusBadRequest, "Selecciona una categoría")
			}
			code := e.Request.FormValue("customer_code")
			if code == "" {
				code = services.GeneralCustomerID
			}
			if _, err := services.FindCustomer(app, code); err != nil {
				return ErrorToast(e, http.StatusNotFound, "Cliente no encontrado")
			}
			so = services.NewServiceOrder(code, sel, prices.Current(), nil, now)
		}
		if vehicle.HasIdentity() {
			so.Vehicle = vehicle
		}

		saved, err := services.SaveServiceOrder(app, so)
		if err != nil {
			log.Printf("service_order_create: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudo crear la orden de servicio")
		}
		return redirect(e, "/service-orders/"+saved.ID)
	}
}

// HandleServiceOrderView renders the printable order with its checklist.
// Route: GET /service-orders/{id}
func HandleServiceOrderView(app *pocketbase.PocketBase, station config.Station) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		so, ok, err := loadServiceOrder(e, app)
		if !ok {
			return err
		}
		if so.SyncChecklist() {
			if _, err := services.SaveServiceOrder(app, so); err != nil {
				log.Printf("service_order_view: persist reset checklist: %v", err)
			}
		}

		c, err := services.FindCustomer(app, so.CustomerID)
		if err != nil {
			log.Printf("service_order_view: %v", err)
			c = services.GeneralCustomer()
		}
		done, total := so.Checklist.Progress()
		data := templates.ServiceOrderData{
			Order:          so,
			Customer:       c,
			Station:        station,
			Sections:       so.Sections(),
			Done:           done,
			Total:          total,
			CanSaveVehicle: so.CustomerID != services.GeneralCustomerID,
		}
		return renderPage(e, "Orden de servicio "+so.ID, templates.ServiceOrderContent(data))
	}
}

// HandleServiceOrderUpdate stores the header data typed on the order:
// technician, vehicle, reception inventory and vehicle condition.
// Route: POST /service-orders/{id}
func HandleServiceOrderUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		so, ok, err := loadServiceOrder(e, app)
		if !ok {
			return err
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Datos de formulario inválidos")
		}
		r := e.Request

		so.Technician = services.Technician{
			Name:  strings.TrimSpace(r.FormValue("technician_name")),
			Area:  strings.TrimSpace(r.FormValue("technician_area")),
			Phone: strings.TrimSpace(r.FormValue("technician_phone")),
		}
		so.Vehicle = parseVehicleForm(r)
		so.Inventory = map[string]bool{}
		for _, item := range r.Form["inventory"] {
			so.Inventory[item] = true
		}
		so.VehicleCondition = strings.TrimSpace(r.FormValue("vehicle_condition"))

		if _, err := services.SaveServiceOrder(app, so); err != nil {
			log.Printf("service_order_update: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudieron guardar los datos")
		}
		SetToast(e, "success", "Datos guardados")
		return e.NoContent(http.StatusOK)
	}
}

// HandleChecklistToggle flips one Entrada/Salida check and returns the
// refreshed button.
// Route: POST /service-orders/{id}/checklist/{step}/{phase}
func HandleChecklistToggle(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		so, ok, err := loadServiceOrder(e, app)
		if !ok {
			return err
		}
		phase, ok := services.ParseCheckPhase(e.Request.PathValue("phase"))
		if !ok {
			return ErrorToast(e, http.StatusBadRequest, "Fase de checklist inválida")
		}
		stepID := e.Request.PathValue("step")

		so.SyncChecklist()
		on, err := so.Checklist.Toggle(stepID, phase)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Paso de checklist no encontrado")
		}
		if _, err := services.SaveServiceOrder(app, so); err != nil {
			log.Printf("checklist_toggle: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudo guardar el checklist")
		}
		return templates.ChecklistToggle(so.ID, stepID, phase, on).Render(e.Request.Context(), e.Response)
	}
}

// HandleServiceOrderSaveVehicle copies the order's vehicle into the
// customer's profile.
// Route: POST /service-orders/{id}/vehicle
func HandleServiceOrderSaveVehicle(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		so, ok, err := loadServiceOrder(e, app)
		if !ok {
			return err
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Datos de formulario inválidos")
		}
		v := parseVehicleForm(e.Request)
		if !v.HasIdentity() {
			v = so.Vehicle
		}

		saved, err := services.AddVehicleToCustomer(app, so.CustomerID, v, time.Now())
		if err != nil {
			var ve validation.Errors
			switch {
			case errors.Is(err, services.ErrGeneralCustomerProtected):
				return ErrorToast(e, http.StatusForbidden, "No se pueden guardar vehículos en el Cliente General")
			case errors.As(err, &ve):
				return ErrorToast(e, http.StatusUnprocessableEntity, firstMessage(services.FieldErrors(err)))
			case errors.Is(err, services.ErrNotFound):
				return ErrorToast(e, http.StatusNotFound, "Cliente no encontrado")
			}
			log.Printf("service_order_vehicle: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudo guardar el vehículo")
		}

		so.Vehicle = saved
		if _, err := services.SaveServiceOrder(app, so); err != nil {
			log.Printf("service_order_vehicle: %v", err)
		}
		SetToast(e, "success", "Vehículo guardado en el perfil del cliente")
		return e.NoContent(http.StatusOK)
	}
}

// firstMessage picks a stable message from field errors for a toast.
func firstMessage(errs map[string]string) string {
	keys := slices.Sorted(maps.Keys(errs))
	if len(keys) == 0 {
		return ""
	}
	return errs[keys[0]]
}

// HandleChecklistTemplates shows every checklist template for printing blank.
// Route: GET /checklists
func HandleChecklistTemplates() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return renderPage(e, "Plantillas de checklist", templates.ChecklistTemplatesContent(services.ChecklistTemplates()))
	}
}
