package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"truckwash/config"
	"truckwash/testhelpers"
)

func TestHandleHome(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	c := testhelpers.CreateTestCustomer(t, app, "CUST-1000", "Fletes Rapidos", "FRA010101AA1")
	testhelpers.CreateTestQuotation(t, app, c, "truck-quote-1000", "rigid-truck", 850)

	station := config.DefaultStation()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	if err := HandleHome(app, station)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"<!DOCTYPE html>", station.Slogan, "/customers/CUST-GENERAL",
		"/quotations/truck-quote-1000", "Fletes Rapidos", `id="toast-container"`)
}

func TestHandleHome_HTMXPartial(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleHome(app, config.DefaultStation())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLNotContains(t, rec.Body.String(), "<!DOCTYPE html>")
}
