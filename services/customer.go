package services

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// NotAvailable replaces blank customer fields at registration.
const NotAvailable = "N/A"

// DefaultCountry is fixed for every customer; extraction never overrides it.
const DefaultCountry = "México"

var (
	ErrNameOrRFCRequired        = errors.New("Se requiere Razón Social o RFC.")
	ErrGeneralCustomerProtected = errors.New("el cliente general no se puede eliminar")
)

type CustomerName struct {
	FullName         string `json:"fullName"`
	Given            string `json:"name"`
	PaternalLastName string `json:"paternalLastName"`
	MaternalLastName string `json:"maternalLastName"`
}

type BillingInfo struct {
	RFC           string `json:"rfc"`
	TaxRegime     string `json:"taxRegime"`
	TaxPostalCode string `json:"taxPostalCode"`
}

type Address struct {
	Street         string `json:"street"`
	ExteriorNumber string `json:"exteriorNumber"`
	InteriorNumber string `json:"interiorNumber"`
	Neighborhood   string `json:"neighborhood"`
	Municipality   string `json:"municipality"`
	State          string `json:"state"`
	PostalCode     string `json:"postalCode"`
	Country        string `json:"country"`
}

type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Vehicle struct {
	ID       string      `json:"id"`
	Type     VehicleKind `json:"type"`
	Make     string      `json:"make"`
	Model    string      `json:"model"`
	Plates   string      `json:"plates"`
	Color    string      `json:"color"`
	Odometer string      `json:"kms"`
}

// HasIdentity reports whether the vehicle carries enough data to keep on a
// quotation.
func (v Vehicle) HasIdentity() bool {
	return strings.TrimSpace(v.Make) != "" || strings.TrimSpace(v.Plates) != ""
}

type CustomerRecord struct {
	ID       string       `json:"id"`
	Name     CustomerName `json:"customerName"`
	Billing  BillingInfo  `json:"billingInfo"`
	Address  Address      `json:"address"`
	Contact  Contact      `json:"contact"`
	Vehicles []Vehicle    `json:"vehicles"`
}

// DisplayName prefers the full legal name and falls back to the RFC.
func (c CustomerRecord) DisplayName() string {
	if n := strings.TrimSpace(c.Name.FullName); n != "" && n != NotAvailable {
		return n
	}
	return c.Billing.RFC
}

// NewCustomerDraft returns an empty registration form.
func NewCustomerDraft() CustomerRecord {
	return CustomerRecord{
		Address:  Address{Country: DefaultCountry},
		Vehicles: []Vehicle{},
	}
}

// GeneralCustomer is the walk-in record used when a quotation has no
// registered customer.
func GeneralCustomer() CustomerRecord {
	c := CustomerRecord{
		ID:      GeneralCustomerID,
		Name:    CustomerName{FullName: "Cliente General"},
		Billing: BillingInfo{RFC: GenericPublicRFC},
		Address: Address{Country: DefaultCountry},
	}
	c = Normalize(c)
	c.Vehicles = []Vehicle{}
	return c
}

// IsDeletable is false only for the walk-in customer.
func IsDeletable(id string) bool {
	return id != GeneralCustomerID
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isBlankOrNA(s string) bool {
	return isBlank(s) || s == NotAvailable
}

// skipNormalize lists CustomerRecord fields left untouched by Normalize.
var skipNormalize = map[string]bool{"ID": true, "Vehicles": true}

// Normalize returns a copy of c with every blank string field, at any
// depth, set to NotAvailable. ID and Vehicles are not touched. Applying it
// twice gives the same result as applying it once.
func Normalize(c CustomerRecord) CustomerRecord {
	out := c
	v := reflect.ValueOf(&out).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if skipNormalize[t.Field(i).Name] {
			continue
		}
		fillBlank(v.Field(i))
	}
	return out
}

func fillBlank(v reflect.Value) {
	switch v.Kind() {
	case reflect.String:
		if isBlank(v.String()) {
			v.SetString(NotAvailable)
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				fillBlank(v.Field(i))
			}
		}
	case reflect.Pointer:
		if !v.IsNil() {
			fillBlank(v.Elem())
		}
	}
}

// MergeExtracted overlays the non-blank string fields of extracted onto
// draft. The country, id and vehicles of the draft always survive.
func MergeExtracted(draft, extracted CustomerRecord) CustomerRecord {
	out := draft
	dst := reflect.ValueOf(&out).Elem()
	src := reflect.ValueOf(extracted)
	t := dst.Type()
	for i := 0; i < dst.NumField(); i++ {
		if skipNormalize[t.Field(i).Name] {
			continue
		}
		overlay(dst.Field(i), src.Field(i))
	}
	out.Address.Country = DefaultCountry
	return out
}

func overlay(dst, src reflect.Value) {
	switch dst.Kind() {
	case reflect.String:
		if s := strings.TrimSpace(src.String()); s != "" && !strings.EqualFold(s, "null") {
			dst.SetString(s)
		}
	case reflect.Struct:
		for i := 0; i < dst.NumField(); i++ {
			overlay(dst.Field(i), src.Field(i))
		}
	}
}

// rfcPattern accepts the 12-character (legal entity) and 13-character
// (individual) forms.
var rfcPattern = regexp.MustCompile(`^[A-ZÑ&]{3,4}[0-9]{6}[A-Z0-9]{3}$`)

// ValidateRegistration checks a record before it is normalised and stored.
// A full name or an RFC is the only requirement.
func ValidateRegistration(c CustomerRecord) error {
	if isBlankOrNA(c.Name.FullName) && isBlankOrNA(c.Billing.RFC) {
		return validation.Errors{"fullName": ErrNameOrRFCRequired}
	}
	return nil
}

// RegistrationWarnings flags an email or RFC that looks mistyped. The
// result is field → message and never blocks saving.
func RegistrationWarnings(c CustomerRecord) map[string]string {
	email := strings.TrimSpace(c.Contact.Email)
	if email == NotAvailable {
		email = ""
	}
	rfc := strings.ToUpper(strings.TrimSpace(c.Billing.RFC))
	if rfc == NotAvailable || rfc == GenericPublicRFC {
		rfc = ""
	}
	err := validation.Errors{
		"email": validation.Validate(email, is.EmailFormat.Error("Correo electrónico inválido.")),
		"rfc":   validation.Validate(rfc, validation.Match(rfcPattern).Error("RFC con formato inválido.")),
	}.Filter()
	if err == nil {
		return nil
	}
	return FieldErrors(err)
}

// ValidateVehicle requires the make and plates before a vehicle is saved to
// a customer profile.
func ValidateVehicle(v Vehicle) error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.Make, validation.Required.Error("La marca es obligatoria.")),
		validation.Field(&v.Plates, validation.Required.Error("Las placas son obligatorias.")),
	)
}

// FieldErrors flattens an ozzo validation error into field → message for
// inline display. Other errors are returned under the "" key.
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	out := map[string]string{}
	var ve validation.Errors
	if errors.As(err, &ve) {
		for k, e := range ve {
			out[k] = e.Error()
		}
		return out
	}
	out[""] = err.Error()
	return out
}
