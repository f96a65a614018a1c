// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"truckwash/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app, runs collections.Setup to create all tables and
// seeds the walk-in customer. The temporary directory is cleaned up
// automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)
	if err := collections.Seed(app); err != nil {
		t.Fatalf("failed to seed test app: %v", err)
	}

	return app
}

// CreateTestCustomer creates a customer record with the given code and name
// and returns it. The data column holds a minimal customer document.
func CreateTestCustomer(t *testing.T, app *pocketbase.PocketBase, code, fullName, rfc string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		t.Fatalf("failed to find customers collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("code", code)
	record.Set("full_name", fullName)
	record.Set("rfc", rfc)
	record.Set("data", map[string]any{
		"id":           code,
		"customerName": map[string]any{"fullName": fullName},
		"billingInfo":  map[string]any{"rfc": rfc},
		"address":      map[string]any{"country": "México"},
		"contact":      map[string]any{"email": "N/A", "phone": "N/A"},
		"vehicles":     []any{},
	})

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test customer: %v", err)
	}

	return record
}

// CreateTestQuotation creates a quotation record for customer with a single
// line item priced at total and returns it.
func CreateTestQuotation(t *testing.T, app *pocketbase.PocketBase, customer *core.Record, quoteNumber, category string, total float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		t.Fatalf("failed to find quotations collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quote_number", quoteNumber)
	record.Set("customer_code", customer.GetString("code"))
	record.Set("customer", customer.Id)
	record.Set("category", category)
	record.Set("issue_date", time.Now().UTC())
	record.Set("total", total)
	record.Set("selection", map[string]any{"category": category, "trailers": []any{}})
	record.Set("line_items", []any{map[string]any{"description": "Prueba", "price": total}})

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quotation: %v", err)
	}

	return record
}

// FindCustomerRecord fetches a customer record by code or fails the test.
func FindCustomerRecord(t *testing.T, app *pocketbase.PocketBase, code string) *core.Record {
	t.Helper()

	rec, err := app.FindFirstRecordByData("customers", "code", code)
	if err != nil {
		t.Fatalf("customer %q not found: %v", code, err)
	}
	return rec
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHTMLNotContains checks that body contains none of the fragments.
func AssertHTMLNotContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if strings.Contains(body, frag) {
			t.Errorf("expected HTML not to contain %q\nbody (first 500 chars): %s", frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
