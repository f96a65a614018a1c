package services

import (
	"errors"
	"reflect"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func TestNormalize_FillsBlankFields(t *testing.T) {
	in := NewCustomerDraft()
	in.ID = ""
	in.Name.FullName = "Transportes del Bajío SA de CV"
	in.Address.Street = "   "
	in.Vehicles = []Vehicle{{ID: "VEH-1", Make: "Kenworth", Plates: ""}}

	got := Normalize(in)

	if got.ID != "" {
		t.Errorf("ID should be untouched, got %q", got.ID)
	}
	if got.Name.FullName != in.Name.FullName {
		t.Errorf("non-empty field changed: %q", got.Name.FullName)
	}
	if got.Address.Street != NotAvailable {
		t.Errorf("whitespace street = %q, want N/A", got.Address.Street)
	}
	if got.Billing.RFC != NotAvailable || got.Contact.Email != NotAvailable || got.Name.MaternalLastName != NotAvailable {
		t.Errorf("blank fields not filled: %+v", got)
	}
	if got.Address.Country != DefaultCountry {
		t.Errorf("country = %q", got.Address.Country)
	}
	if got.Vehicles[0].Plates != "" {
		t.Error("vehicles must not be normalised")
	}
	if in.Address.Street != "   " {
		t.Error("Normalize must not modify its argument")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	records := []CustomerRecord{
		NewCustomerDraft(),
		GeneralCustomer(),
		{Name: CustomerName{FullName: "Juan"}, Contact: Contact{Phone: "4771234567"}},
	}
	for i, r := range records {
		once := Normalize(r)
		twice := Normalize(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("record %d: Normalize not idempotent:\n once=%+v\ntwice=%+v", i, once, twice)
		}
	}
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*CustomerRecord)
		wantField string
	}{
		{"name only", func(c *CustomerRecord) { c.Name.FullName = "Fletes López" }, ""},
		{"rfc only", func(c *CustomerRecord) { c.Billing.RFC = "LOFJ800101AB1" }, ""},
		{"neither", func(c *CustomerRecord) {}, "fullName"},
		{"blank strings", func(c *CustomerRecord) { c.Name.FullName = "  "; c.Billing.RFC = "N/A" }, "fullName"},
		{"name with hyphenated rfc", func(c *CustomerRecord) {
			c.Name.FullName = "Fletes del Norte"
			c.Billing.RFC = "FNO-920101-AB1"
		}, ""},
		{"short internal code as rfc", func(c *CustomerRecord) { c.Billing.RFC = "ABC123" }, ""},
		{"name with malformed email", func(c *CustomerRecord) {
			c.Name.FullName = "Juan"
			c.Contact.Email = "juan at mail"
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCustomerDraft()
			tt.mutate(&c)
			err := ValidateRegistration(c)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			fields := FieldErrors(err)
			if _, ok := fields[tt.wantField]; !ok {
				t.Errorf("expected error on %q, got %v", tt.wantField, fields)
			}
		})
	}
}

func TestRegistrationWarnings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CustomerRecord)
		want   []string
	}{
		{"clean", func(c *CustomerRecord) {
			c.Billing.RFC = "LOFJ800101AB1"
			c.Contact.Email = "ventas@fletes.mx"
		}, nil},
		{"lowercase rfc", func(c *CustomerRecord) { c.Billing.RFC = "tbn120101ab1" }, nil},
		{"generic public rfc", func(c *CustomerRecord) { c.Billing.RFC = GenericPublicRFC }, nil},
		{"na values skipped", func(c *CustomerRecord) { *c = Normalize(*c) }, nil},
		{"hyphenated rfc", func(c *CustomerRecord) { c.Billing.RFC = "FNO-920101-AB1" }, []string{"rfc"}},
		{"bad email", func(c *CustomerRecord) { c.Contact.Email = "juan at mail" }, []string{"email"}},
		{"both", func(c *CustomerRecord) {
			c.Billing.RFC = "123"
			c.Contact.Email = "no-es-correo"
		}, []string{"email", "rfc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCustomerDraft()
			c.Name.FullName = "Fletes López"
			tt.mutate(&c)
			got := RegistrationWarnings(c)
			if len(got) != len(tt.want) {
				t.Fatalf("warnings = %v, want fields %v", got, tt.want)
			}
			for _, f := range tt.want {
				if got[f] == "" {
					t.Errorf("missing warning on %q: %v", f, got)
				}
			}
		})
	}
}

func TestValidateRegistration_RequiredMessage(t *testing.T) {
	err := ValidateRegistration(NewCustomerDraft())
	var ve validation.Errors
	if !errors.As(err, &ve) {
		t.Fatalf("err = %T, want validation.Errors", err)
	}
	if !errors.Is(ve["fullName"], ErrNameOrRFCRequired) {
		t.Errorf("fullName err = %v, want ErrNameOrRFCRequired", ve["fullName"])
	}
	if ve["fullName"].Error() != "Se requiere Razón Social o RFC." {
		t.Errorf("message = %q", ve["fullName"].Error())
	}
}

func TestGeneralCustomer(t *testing.T) {
	g := GeneralCustomer()
	if g.ID != GeneralCustomerID || g.Billing.RFC != GenericPublicRFC || g.Name.FullName != "Cliente General" {
		t.Errorf("general customer = %+v", g)
	}
	if g.Address.Street != NotAvailable {
		t.Error("general customer should be normalised")
	}
	if IsDeletable(GeneralCustomerID) {
		t.Error("general customer must not be deletable")
	}
	if !IsDeletable("CUST-1") {
		t.Error("regular customers are deletable")
	}
}

func TestMergeExtracted(t *testing.T) {
	draft := NewCustomerDraft()
	draft.ID = "CUST-7"
	draft.Contact.Phone = "4770000000"

	extracted := CustomerRecord{
		ID:      "should-not-win",
		Name:    CustomerName{FullName: "Logística Norte SA", Given: "null"},
		Billing: BillingInfo{RFC: "LNO010101AA1", TaxRegime: "601 - General de Ley"},
		Address: Address{Street: "Av. Juárez", Country: "USA"},
		Contact: Contact{Phone: ""},
	}

	got := MergeExtracted(draft, extracted)

	if got.ID != "CUST-7" {
		t.Errorf("id overwritten: %q", got.ID)
	}
	if got.Address.Country != DefaultCountry {
		t.Errorf("country overwritten: %q", got.Address.Country)
	}
	if got.Name.FullName != "Logística Norte SA" || got.Billing.RFC != "LNO010101AA1" || got.Address.Street != "Av. Juárez" {
		t.Errorf("extracted fields not applied: %+v", got)
	}
	if got.Name.Given != "" {
		t.Errorf("literal null should be ignored, got %q", got.Name.Given)
	}
	if got.Contact.Phone != "4770000000" {
		t.Errorf("blank extracted field should keep draft value, got %q", got.Contact.Phone)
	}
}

func TestValidateVehicle(t *testing.T) {
	tests := []struct {
		name    string
		v       Vehicle
		wantErr []string
	}{
		{"complete", Vehicle{Make: "Freightliner", Plates: "AB-123-C"}, nil},
		{"missing plates", Vehicle{Make: "Freightliner"}, []string{"plates"}},
		{"missing both", Vehicle{}, []string{"make", "plates"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := FieldErrors(ValidateVehicle(tt.v))
			if len(fields) != len(tt.wantErr) {
				t.Fatalf("errors = %v, want fields %v", fields, tt.wantErr)
			}
			for _, f := range tt.wantErr {
				if _, ok := fields[f]; !ok {
					t.Errorf("missing error for %q in %v", f, fields)
				}
			}
		})
	}
}

func TestVehicleHasIdentity(t *testing.T) {
	if (Vehicle{}).HasIdentity() {
		t.Error("empty vehicle has no identity")
	}
	if !(Vehicle{Plates: "XYZ"}).HasIdentity() {
		t.Error("plates alone identify a vehicle")
	}
}
