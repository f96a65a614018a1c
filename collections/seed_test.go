package collections_test

import (
	"testing"

	"truckwash/collections"
	"truckwash/testhelpers"
)

func TestSeed_CreatesGeneralCustomer(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Seed() already called once via NewTestApp

	rec, err := app.FindFirstRecordByData("customers", "code", collections.GeneralCustomerCode)
	if err != nil {
		t.Fatalf("general customer not found: %v", err)
	}
	if rec.GetString("full_name") != "Cliente General" {
		t.Errorf("full_name = %q", rec.GetString("full_name"))
	}
	if rec.GetString("rfc") != "XAXX010101000" {
		t.Errorf("rfc = %q", rec.GetString("rfc"))
	}
	if rec.GetString("data") == "" {
		t.Error("data column should hold the customer document")
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	col, _ := app.FindCollectionByNameOrId("customers")
	all, err := app.FindAllRecords(col)
	if err != nil {
		t.Fatalf("query customers error: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 customer after re-seed, got %d", len(all))
	}
}
