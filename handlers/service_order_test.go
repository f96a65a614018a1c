package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"

	"truckwash/config"
	"truckwash/services"
	"truckwash/testhelpers"
)

func articulatedSelection() services.Selection {
	sel := services.NewSelection(services.CategoryArticulated)
	sel.Tractor.Exterior = true
	sel.Trailers = []services.Trailer{{ID: 0, Type: services.TrailerCajaEstandar}}
	sel.NextTrailerID = 1
	return sel
}

func createTestOrder(t *testing.T, app *pocketbase.PocketBase, customer string) services.ServiceOrder {
	t.Helper()
	so := services.NewServiceOrder(customer, articulatedSelection(), services.DefaultPriceList(), nil, time.Now())
	saved, err := services.SaveServiceOrder(app, so)
	if err != nil {
		t.Fatalf("save service order: %v", err)
	}
	return saved
}

func orderRequest(method, target, id string, form url.Values) *http.Request {
	req := htmxFormRequest(method, target, form)
	req.SetPathValue("id", id)
	return req
}

func TestHandleServiceOrderCreate_FromSelection(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{
		"category":          {"articulated"},
		"rendered_category": {"articulated"},
		"tractor_exterior":  {"on"},
		"trailer_id":        {"0"},
		"trailer_type_0":    {"cajaEstandar"},
		"next_trailer_id":   {"1"},
		"trailer_count":     {"1"},
	}
	rec := httptest.NewRecorder()
	req := htmxFormRequest(http.MethodPost, "/service-orders", form)
	if err := HandleServiceOrderCreate(app, testPriceBook())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	target := rec.Header().Get("HX-Redirect")
	if !strings.HasPrefix(target, "/service-orders/OS-") {
		t.Fatalf("HX-Redirect = %q", target)
	}
	so, err := services.FindServiceOrder(app, strings.TrimPrefix(target, "/service-orders/"))
	if err != nil {
		t.Fatalf("order not stored: %v", err)
	}
	if so.CustomerID != services.GeneralCustomerID {
		t.Errorf("customer = %q, want walk-in", so.CustomerID)
	}
	if so.Total != 650+950 {
		t.Errorf("total = %v, want 1600", so.Total)
	}
	if len(so.Checklist.Steps) == 0 {
		t.Error("checklist state should be initialised")
	}
}

func TestHandleServiceOrderCreate_FromQuotation(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	c := testhelpers.CreateTestCustomer(t, app, "CUST-800", "Fletes Rapidos", "FRA010101AA1")
	testhelpers.CreateTestQuotation(t, app, c, "truck-quote-80", "rigid-truck", 1234)

	rec := httptest.NewRecorder()
	req := htmxFormRequest(http.MethodPost, "/service-orders", url.Values{"quotation_id": {"truck-quote-80"}})
	if err := HandleServiceOrderCreate(app, testPriceBook())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	id := strings.TrimPrefix(rec.Header().Get("HX-Redirect"), "/service-orders/")
	so, err := services.FindServiceOrder(app, id)
	if err != nil {
		t.Fatalf("order not stored: %v", err)
	}
	if so.QuotationID != "truck-quote-80" || so.CustomerID != "CUST-800" || so.Total != 1234 {
		t.Errorf("order = %+v", so)
	}
}

func TestHandleServiceOrderCreate_NoCategory(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := httptest.NewRecorder()
	req := htmxFormRequest(http.MethodPost, "/service-orders", url.Values{})
	if err := HandleServiceOrderCreate(app, testPriceBook())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleServiceOrderView(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	so := createTestOrder(t, app, services.GeneralCustomerID)

	req := httptest.NewRequest(http.MethodGet, "/service-orders/"+so.ID, nil)
	req.SetPathValue("id", so.ID)
	rec := httptest.NewRecorder()
	if err := HandleServiceOrderView(app, config.DefaultStation())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body,
		config.DefaultStation().Name, so.ID, `name="technician_name"`,
		"Checklist para Remolque 1", "/service-orders/"+so.ID+"/checklist/seguridad-0/entrada",
		"/service-orders/"+so.ID+"/pdf")
	testhelpers.AssertHTMLNotContains(t, body, "/service-orders/"+so.ID+"/vehicle")
}

func TestHandleServiceOrderView_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/service-orders/OS-1", nil)
	req.SetPathValue("id", "OS-1")
	rec := httptest.NewRecorder()
	if err := HandleServiceOrderView(app, config.DefaultStation())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleChecklistToggle(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	so := createTestOrder(t, app, services.GeneralCustomerID)

	toggle := func(step, phase string) *httptest.ResponseRecorder {
		req := orderRequest(http.MethodPost, "/service-orders/"+so.ID+"/checklist/"+step+"/"+phase, so.ID, nil)
		req.SetPathValue("step", step)
		req.SetPathValue("phase", phase)
		rec := httptest.NewRecorder()
		if err := HandleChecklistToggle(app)(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		return rec
	}

	rec := toggle("seguridad-0", "entrada")
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `aria-pressed="true"`)
	stored, err := services.FindServiceOrder(app, so.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.Checklist.Checked("seguridad-0", services.PhaseIntake) {
		t.Error("intake check not persisted")
	}
	if stored.Checklist.Checked("seguridad-0", services.PhaseRelease) {
		t.Error("release check should be untouched")
	}

	rec = toggle("seguridad-0", "entrada")
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `aria-pressed="false"`)

	if rec := toggle("seguridad-0", "lavado"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad phase status = %d, want 400", rec.Code)
	}
	if rec := toggle("nope-9", "salida"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown step status = %d, want 404", rec.Code)
	}
}

func TestHandleServiceOrderUpdate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	so := createTestOrder(t, app, services.GeneralCustomerID)

	form := url.Values{
		"technician_name":   {"Luis"},
		"technician_area":   {"Lavado"},
		"vehicle_make":      {"Freightliner"},
		"vehicle_plates":    {"xyz-987"},
		"inventory":         {"Extinguidor", "Espejos Laterales"},
		"vehicle_condition": {"Rayón en puerta izquierda"},
	}
	rec := httptest.NewRecorder()
	req := orderRequest(http.MethodPost, "/service-orders/"+so.ID, so.ID, form)
	if err := HandleServiceOrderUpdate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	stored, err := services.FindServiceOrder(app, so.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Technician.Name != "Luis" || stored.Vehicle.Plates != "XYZ-987" {
		t.Errorf("stored header = %+v / %+v", stored.Technician, stored.Vehicle)
	}
	if !stored.Inventory["Extinguidor"] || !stored.Inventory["Espejos Laterales"] || stored.Inventory["Antena"] {
		t.Errorf("inventory = %v", stored.Inventory)
	}
	if stored.VehicleCondition != "Rayón en puerta izquierda" {
		t.Errorf("condition = %q", stored.VehicleCondition)
	}
}

func TestHandleServiceOrderSaveVehicle(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestCustomer(t, app, "CUST-810", "Carga Segura", "CSE010101AA1")
	so := createTestOrder(t, app, "CUST-810")
	general := createTestOrder(t, app, services.GeneralCustomerID)

	tests := []struct {
		name   string
		order  string
		form   url.Values
		status int
	}{
		{"walk-in customer", general.ID, url.Values{"vehicle_make": {"Volvo"}, "vehicle_plates": {"AAA-111"}}, http.StatusForbidden},
		{"missing plates", so.ID, url.Values{"vehicle_make": {"Volvo"}}, http.StatusUnprocessableEntity},
		{"saved", so.ID, url.Values{"vehicle_make": {"Volvo"}, "vehicle_plates": {"aaa-111"}}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := orderRequest(http.MethodPost, "/service-orders/"+tt.order+"/vehicle", tt.order, tt.form)
			if err := HandleServiceOrderSaveVehicle(app)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}

	c, err := services.FindCustomer(app, "CUST-810")
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Vehicles) != 1 || c.Vehicles[0].Plates != "AAA-111" {
		t.Errorf("vehicles = %+v", c.Vehicles)
	}
}

func TestFirstMessage(t *testing.T) {
	got := firstMessage(map[string]string{"plates": "Las placas son obligatorias.", "make": "La marca es obligatoria."})
	if got != "La marca es obligatoria." {
		t.Errorf("firstMessage = %q", got)
	}
	if firstMessage(nil) != "" {
		t.Error("empty map should give empty message")
	}
}

func TestHandleChecklistTemplates(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/checklists", nil)
	rec := httptest.NewRecorder()
	if err := HandleChecklistTemplates()(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	for _, tmpl := range services.ChecklistTemplates() {
		testhelpers.AssertHTMLContains(t, rec.Body.String(), tmpl.Title)
	}
}
