package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// GeneralCustomerCode is the reserved code of the walk-in customer.
const GeneralCustomerCode = "CUST-GENERAL"

// generalCustomerData mirrors the customer record layout stored in the data
// column. Blank fields are already "N/A".
func generalCustomerData() map[string]any {
	na := "N/A"
	return map[string]any{
		"id": GeneralCustomerCode,
		"customerName": map[string]any{
			"fullName": "Cliente General", "name": na, "paternalLastName": na, "maternalLastName": na,
		},
		"billingInfo": map[string]any{
			"rfc": "XAXX010101000", "taxRegime": na, "taxPostalCode": na,
		},
		"address": map[string]any{
			"street": na, "exteriorNumber": na, "interiorNumber": na, "neighborhood": na,
			"municipality": na, "state": na, "postalCode": na, "country": "México",
		},
		"contact":  map[string]any{"email": na, "phone": na},
		"vehicles": []any{},
	}
}

// Seed inserts the walk-in customer. It is safe to call on every startup
// because it returns early if the record already exists.
func Seed(app *pocketbase.PocketBase) error {
	customersCol, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		return fmt.Errorf("seed: could not find customers collection: %w", err)
	}

	existing, err := app.FindRecordsByFilter(
		customersCol,
		"code = {:code}",
		"",
		1,
		0,
		map[string]any{"code": GeneralCustomerCode},
	)
	if err != nil {
		return fmt.Errorf("seed: could not query customers: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: inserting general customer …")

	rec := core.NewRecord(customersCol)
	rec.Set("code", GeneralCustomerCode)
	rec.Set("full_name", "Cliente General")
	rec.Set("rfc", "XAXX010101000")
	rec.Set("data", generalCustomerData())
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("seed: could not save general customer: %w", err)
	}
	return nil
}
