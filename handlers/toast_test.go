package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pocketbase/pocketbase/core"
)

func bareEvent() (*core.RequestEvent, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec
	return e, rec
}

func triggerEvents(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var events map[string]json.RawMessage
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &events); err != nil {
		t.Fatalf("HX-Trigger %q is not a JSON object: %v", rec.Header().Get("HX-Trigger"), err)
	}
	return events
}

func triggerToast(t *testing.T, rec *httptest.ResponseRecorder) toastPayload {
	t.Helper()
	var toast toastPayload
	raw, ok := triggerEvents(t, rec)["showToast"]
	if !ok {
		t.Fatal("HX-Trigger has no showToast event")
	}
	if err := json.Unmarshal(raw, &toast); err != nil {
		t.Fatalf("showToast payload: %v", err)
	}
	return toast
}

func TestSetToast(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		kind     string
		message  string
		keep     string
	}{
		{"fresh header", "", "success", "Cotización guardada", ""},
		{"merges other events", `{"pricesChanged":{"count":2}}`, "success", "Precios guardados", "pricesChanged"},
		{"replaces earlier toast", `{"showToast":{"message":"viejo","type":"info"}}`, "error", "Error al guardar", ""},
		{"invalid header overwritten", "refresh", "info", "Datos extraídos", ""},
		{"markup and accents survive", "", "info", `Cliente "Fletes <Norte>" \ n° 5`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := bareEvent()
			if tt.existing != "" {
				rec.Header().Set("HX-Trigger", tt.existing)
			}

			SetToast(e, tt.kind, tt.message)

			toast := triggerToast(t, rec)
			if toast.Message != tt.message || toast.Type != tt.kind {
				t.Errorf("toast = %+v, want %s/%q", toast, tt.kind, tt.message)
			}
			if tt.keep != "" {
				if _, ok := triggerEvents(t, rec)[tt.keep]; !ok {
					t.Errorf("event %q dropped by merge", tt.keep)
				}
			}
		})
	}
}

func TestSetToast_FlashCookie(t *testing.T) {
	e, rec := bareEvent()
	SetToast(e, "success", "Cliente registrado")

	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookie {
			found = c
		}
	}
	if found == nil {
		t.Fatal("expected flash cookie")
	}
	if found.Path != "/" || found.MaxAge <= 0 || found.HttpOnly {
		t.Errorf("flash cookie = %+v, want readable short-lived root cookie", found)
	}
	raw, err := url.QueryUnescape(found.Value)
	if err != nil {
		t.Fatal(err)
	}
	var toast toastPayload
	if err := json.Unmarshal([]byte(raw), &toast); err != nil {
		t.Fatalf("flash cookie is not JSON: %v", err)
	}
	if toast.Message != "Cliente registrado" || toast.Type != "success" {
		t.Errorf("flash toast = %+v", toast)
	}
}

func TestErrorToast(t *testing.T) {
	tests := []struct {
		code int
		msg  string
	}{
		{http.StatusBadRequest, "Datos de formulario inválidos"},
		{http.StatusNotFound, "Cliente no encontrado"},
		{http.StatusUnprocessableEntity, "Las placas son obligatorias."},
		{http.StatusInternalServerError, "No se pudo guardar la cotización"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			e, rec := bareEvent()
			if err := ErrorToast(e, tt.code, tt.msg); err != nil {
				t.Fatalf("ErrorToast: %v", err)
			}
			if rec.Code != tt.code {
				t.Errorf("status = %d, want %d", rec.Code, tt.code)
			}
			if rec.Header().Get("HX-Reswap") != "none" {
				t.Errorf("HX-Reswap = %q, want none", rec.Header().Get("HX-Reswap"))
			}
			if rec.Body.String() != tt.msg {
				t.Errorf("body = %q", rec.Body.String())
			}
			if toast := triggerToast(t, rec); toast.Type != "error" || toast.Message != tt.msg {
				t.Errorf("toast = %+v", toast)
			}
		})
	}
}
