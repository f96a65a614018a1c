package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ErrNotFound is returned by the Find helpers when no record matches.
var ErrNotFound = errors.New("not found")

func notFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// decodeJSONField unmarshals a JSON column into dst. An empty or null column
// leaves dst untouched.
func decodeJSONField(rec *core.Record, key string, dst any) error {
	raw := rec.GetString(key)
	if raw == "" || raw == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}

// ── customers ───────────────────────────────────────────────────────────

func customerFromRecord(rec *core.Record) (CustomerRecord, error) {
	var c CustomerRecord
	if err := decodeJSONField(rec, "data", &c); err != nil {
		return CustomerRecord{}, fmt.Errorf("decode customer %s: %w", rec.GetString("code"), err)
	}
	c.ID = rec.GetString("code")
	if c.Vehicles == nil {
		c.Vehicles = []Vehicle{}
	}
	return c, nil
}

func findCustomerRecord(app *pocketbase.PocketBase, code string) (*core.Record, error) {
	rec, err := app.FindFirstRecordByData("customers", "code", code)
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("customer %s: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("find customer %s: %w", code, err)
	}
	return rec, nil
}

// SaveCustomer creates or replaces the customer with c.ID. An empty ID gets
// a fresh CUST- id.
func SaveCustomer(app *pocketbase.PocketBase, c CustomerRecord, now time.Time) (CustomerRecord, error) {
	if c.ID == "" {
		c.ID = CustomerID(now)
	}
	if c.Vehicles == nil {
		c.Vehicles = []Vehicle{}
	}

	rec, err := findCustomerRecord(app, c.ID)
	if errors.Is(err, ErrNotFound) {
		col, cerr := app.FindCollectionByNameOrId("customers")
		if cerr != nil {
			return CustomerRecord{}, fmt.Errorf("customers collection: %w", cerr)
		}
		rec = core.NewRecord(col)
		rec.Set("code", c.ID)
	} else if err != nil {
		return CustomerRecord{}, err
	}

	rec.Set("full_name", c.Name.FullName)
	rec.Set("rfc", c.Billing.RFC)
	rec.Set("data", c)
	if err := app.Save(rec); err != nil {
		return CustomerRecord{}, fmt.Errorf("save customer %s: %w", c.ID, err)
	}
	return c, nil
}

// RegisterCustomer validates, normalises and stores a new customer.
func RegisterCustomer(app *pocketbase.PocketBase, c CustomerRecord, now time.Time) (CustomerRecord, error) {
	if err := ValidateRegistration(c); err != nil {
		return CustomerRecord{}, err
	}
	c.Billing.RFC = strings.ToUpper(strings.TrimSpace(c.Billing.RFC))
	c = Normalize(c)
	id, err := freeCustomerID(app, now)
	if err != nil {
		return CustomerRecord{}, err
	}
	c.ID = id
	return SaveCustomer(app, c, now)
}

// freeCustomerID mints a code that is not taken yet, stepping past
// registrations made in the same millisecond.
func freeCustomerID(app *pocketbase.PocketBase, now time.Time) (string, error) {
	for range 1000 {
		id := CustomerID(now)
		_, err := findCustomerRecord(app, id)
		if errors.Is(err, ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
		now = now.Add(time.Millisecond)
	}
	return "", errors.New("register customer: no free customer code")
}

// FindCustomer returns the customer with code. The walk-in customer is
// always available even if its record is missing.
func FindCustomer(app *pocketbase.PocketBase, code string) (CustomerRecord, error) {
	rec, err := findCustomerRecord(app, code)
	if err != nil {
		if code == GeneralCustomerID && errors.Is(err, ErrNotFound) {
			return GeneralCustomer(), nil
		}
		return CustomerRecord{}, err
	}
	return customerFromRecord(rec)
}

// SearchCustomers matches q against the name and RFC of registered
// customers. The walk-in customer is never listed. An empty q lists every
// registered customer, newest first.
func SearchCustomers(app *pocketbase.PocketBase, q string) ([]CustomerRecord, error) {
	q = strings.TrimSpace(q)
	filter := "code != {:general}"
	params := map[string]any{"general": GeneralCustomerID}
	if q != "" {
		filter += " && (full_name ~ {:q} || rfc ~ {:q})"
		params["q"] = q
	}
	recs, err := app.FindRecordsByFilter("customers", filter, "-created", 0, 0, params)
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	out := make([]CustomerRecord, 0, len(recs))
	for _, rec := range recs {
		c, err := customerFromRecord(rec)
		if err != nil {
			log.Printf("store: skipping customer: %v", err)
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// DeleteCustomer removes a customer together with its quotations and
// service orders. The walk-in customer cannot be deleted.
func DeleteCustomer(app *pocketbase.PocketBase, code string) error {
	if !IsDeletable(code) {
		return ErrGeneralCustomerProtected
	}
	rec, err := findCustomerRecord(app, code)
	if err != nil {
		return err
	}

	return app.RunInTransaction(func(txApp core.App) error {
		orders, err := txApp.FindRecordsByFilter("service_orders", "customer_code = {:code}", "", 0, 0, map[string]any{"code": code})
		if err != nil {
			return fmt.Errorf("find service orders for %s: %w", code, err)
		}
		for _, o := range orders {
			if err := txApp.Delete(o); err != nil {
				return fmt.Errorf("delete service order %s: %w", o.GetString("order_number"), err)
			}
		}
		// quotations go with the customer through the cascading relation
		if err := txApp.Delete(rec); err != nil {
			return fmt.Errorf("delete customer %s: %w", code, err)
		}
		return nil
	})
}

// AddVehicleToCustomer appends v to the customer's vehicles after checking
// make and plates. Vehicles cannot be stored on the walk-in customer.
func AddVehicleToCustomer(app *pocketbase.PocketBase, code string, v Vehicle, now time.Time) (Vehicle, error) {
	if code == GeneralCustomerID {
		return Vehicle{}, ErrGeneralCustomerProtected
	}
	if err := ValidateVehicle(v); err != nil {
		return Vehicle{}, err
	}
	c, err := FindCustomer(app, code)
	if err != nil {
		return Vehicle{}, err
	}
	v.ID = VehicleID(now)
	c.Vehicles = append(c.Vehicles, v)
	if _, err := SaveCustomer(app, c, now); err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

// ── quotations ──────────────────────────────────────────────────────────

// Quotation is a saved pricing of a selection for one customer.
type Quotation struct {
	ID          string     `json:"id"`
	CustomerID  string     `json:"customerId"`
	Category    Category   `json:"category"`
	IssueDate   time.Time  `json:"issueDate"`
	Selection   Selection  `json:"selection"`
	LineItems   []LineItem `json:"lineItems"`
	Total       float64    `json:"total"`
	VehicleInfo *Vehicle   `json:"vehicleInfo,omitempty"`
}

// NewQuotation prices sel with prices and stamps a fresh id.
func NewQuotation(customerID string, sel Selection, prices PriceList, vehicle *Vehicle, now time.Time) Quotation {
	q := ComputeQuotation(sel, prices, sel.Category)
	qt := Quotation{
		ID:         QuotationID(sel.Category, now),
		CustomerID: customerID,
		Category:   sel.Category,
		IssueDate:  now.UTC(),
		Selection:  sel.Clone(),
		LineItems:  q.LineItems,
		Total:      q.Total,
	}
	if vehicle != nil && vehicle.HasIdentity() {
		v := *vehicle
		qt.VehicleInfo = &v
	}
	return qt
}

// Reprice recomputes line items and total from the stored selection.
func (q *Quotation) Reprice(prices PriceList) {
	quote := ComputeQuotation(q.Selection, prices, q.Category)
	q.LineItems = quote.LineItems
	q.Total = quote.Total
}

func quotationFromRecord(rec *core.Record) (Quotation, error) {
	q := Quotation{
		ID:         rec.GetString("quote_number"),
		CustomerID: rec.GetString("customer_code"),
		Category:   Category(rec.GetString("category")),
		IssueDate:  rec.GetDateTime("issue_date").Time(),
		Total:      rec.GetFloat("total"),
	}
	if err := decodeJSONField(rec, "selection", &q.Selection); err != nil {
		return Quotation{}, fmt.Errorf("decode quotation %s selection: %w", q.ID, err)
	}
	if err := decodeJSONField(rec, "line_items", &q.LineItems); err != nil {
		return Quotation{}, fmt.Errorf("decode quotation %s lines: %w", q.ID, err)
	}
	var v Vehicle
	if err := decodeJSONField(rec, "vehicle_info", &v); err == nil && v.HasIdentity() {
		q.VehicleInfo = &v
	}
	if q.LineItems == nil {
		q.LineItems = []LineItem{}
	}
	if q.Selection.Trailers == nil {
		q.Selection.Trailers = []Trailer{}
	}
	return q, nil
}

// SaveQuotation stores q. Saving an existing id replaces it wholesale.
func SaveQuotation(app *pocketbase.PocketBase, q Quotation) (Quotation, error) {
	if q.ID == "" {
		return Quotation{}, errors.New("save quotation: missing id")
	}
	custRec, err := findCustomerRecord(app, q.CustomerID)
	if err != nil {
		return Quotation{}, fmt.Errorf("save quotation %s: %w", q.ID, err)
	}

	rec, err := app.FindFirstRecordByData("quotations", "quote_number", q.ID)
	if err != nil {
		if !notFound(err) {
			return Quotation{}, fmt.Errorf("find quotation %s: %w", q.ID, err)
		}
		col, cerr := app.FindCollectionByNameOrId("quotations")
		if cerr != nil {
			return Quotation{}, fmt.Errorf("quotations collection: %w", cerr)
		}
		rec = core.NewRecord(col)
		rec.Set("quote_number", q.ID)
	}

	if q.VehicleInfo != nil && !q.VehicleInfo.HasIdentity() {
		q.VehicleInfo = nil
	}
	if q.LineItems == nil {
		q.LineItems = []LineItem{}
	}

	rec.Set("customer_code", q.CustomerID)
	rec.Set("customer", custRec.Id)
	rec.Set("category", string(q.Category))
	rec.Set("issue_date", q.IssueDate)
	rec.Set("total", q.Total)
	rec.Set("selection", q.Selection)
	rec.Set("line_items", q.LineItems)
	if q.VehicleInfo != nil {
		rec.Set("vehicle_info", q.VehicleInfo)
	} else {
		rec.Set("vehicle_info", nil)
	}
	if err := app.Save(rec); err != nil {
		return Quotation{}, fmt.Errorf("save quotation %s: %w", q.ID, err)
	}
	return q, nil
}

func FindQuotation(app *pocketbase.PocketBase, id string) (Quotation, error) {
	rec, err := app.FindFirstRecordByData("quotations", "quote_number", id)
	if err != nil {
		if notFound(err) {
			return Quotation{}, fmt.Errorf("quotation %s: %w", id, ErrNotFound)
		}
		return Quotation{}, fmt.Errorf("find quotation %s: %w", id, err)
	}
	return quotationFromRecord(rec)
}

func quotationsByFilter(app *pocketbase.PocketBase, filter string, params map[string]any) ([]Quotation, error) {
	recs, err := app.FindRecordsByFilter("quotations", filter, "-issue_date", 0, 0, params)
	if err != nil {
		return nil, err
	}
	out := make([]Quotation, 0, len(recs))
	for _, rec := range recs {
		q, err := quotationFromRecord(rec)
		if err != nil {
			log.Printf("store: skipping quotation: %v", err)
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

// ListQuotationsForCustomer returns the customer's quotations, newest first.
func ListQuotationsForCustomer(app *pocketbase.PocketBase, code string) ([]Quotation, error) {
	out, err := quotationsByFilter(app, "customer_code = {:code}", map[string]any{"code": code})
	if err != nil {
		return nil, fmt.Errorf("list quotations for %s: %w", code, err)
	}
	return out, nil
}

// SearchQuotations matches q against the quotation id and the customer's
// name.
func SearchQuotations(app *pocketbase.PocketBase, q string) ([]Quotation, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []Quotation{}, nil
	}
	out, err := quotationsByFilter(app,
		"quote_number ~ {:q} || customer.full_name ~ {:q}",
		map[string]any{"q": q},
	)
	if err != nil {
		return nil, fmt.Errorf("search quotations: %w", err)
	}
	return out, nil
}

// RecentQuotations returns up to limit quotations, newest first.
func RecentQuotations(app *pocketbase.PocketBase, limit int) ([]Quotation, error) {
	recs, err := app.FindRecordsByFilter("quotations", "quote_number != ''", "-issue_date", limit, 0)
	if err != nil {
		return nil, fmt.Errorf("recent quotations: %w", err)
	}
	out := make([]Quotation, 0, len(recs))
	for _, rec := range recs {
		q, err := quotationFromRecord(rec)
		if err != nil {
			log.Printf("store: skipping quotation: %v", err)
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func DeleteQuotation(app *pocketbase.PocketBase, id string) error {
	rec, err := app.FindFirstRecordByData("quotations", "quote_number", id)
	if err != nil {
		if notFound(err) {
			return fmt.Errorf("quotation %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("find quotation %s: %w", id, err)
	}
	if err := app.Delete(rec); err != nil {
		return fmt.Errorf("delete quotation %s: %w", id, err)
	}
	return nil
}

// ── service orders ──────────────────────────────────────────────────────

type Technician struct {
	Name  string `json:"name"`
	Area  string `json:"area"`
	Phone string `json:"phone"`
}

// ServiceOrder is the printable work order handed to the wash bay.
type ServiceOrder struct {
	ID               string          `json:"id"`
	CustomerID       string          `json:"customerId"`
	QuotationID      string          `json:"quotationId,omitempty"`
	Category         Category        `json:"category"`
	Selection        Selection       `json:"selection"`
	LineItems        []LineItem      `json:"lineItems"`
	Total            float64         `json:"total"`
	Vehicle          Vehicle         `json:"vehicle"`
	Technician       Technician      `json:"technician"`
	Inventory        map[string]bool `json:"inventory"`
	VehicleCondition string          `json:"vehicleCondition"`
	Checklist        ChecklistState  `json:"checklist"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// NewServiceOrder opens an order for sel. When q is non-nil its line items,
// total and vehicle are carried over instead of repricing.
func NewServiceOrder(customerID string, sel Selection, prices PriceList, q *Quotation, now time.Time) ServiceOrder {
	so := ServiceOrder{
		ID:         ServiceOrderID(now),
		CustomerID: customerID,
		Category:   sel.Category,
		Selection:  sel.Clone(),
		Inventory:  map[string]bool{},
		CreatedAt:  now.UTC(),
	}
	if q != nil {
		so.QuotationID = q.ID
		so.LineItems = append([]LineItem(nil), q.LineItems...)
		so.Total = q.Total
		if q.VehicleInfo != nil {
			so.Vehicle = *q.VehicleInfo
		}
	} else {
		quote := ComputeQuotation(sel, prices, sel.Category)
		so.LineItems = quote.LineItems
		so.Total = quote.Total
	}
	if so.LineItems == nil {
		so.LineItems = []LineItem{}
	}
	so.SyncChecklist()
	return so
}

// Sections regenerates the checklist for the order's selection.
func (so ServiceOrder) Sections() []ChecklistSection {
	return GenerateChecklist(so.Selection)
}

// SyncChecklist resets the check state if the trailer composition changed.
func (so *ServiceOrder) SyncChecklist() bool {
	return so.Checklist.Reconcile(so.Sections(), so.Selection.TrailerComposition())
}

func serviceOrderFromRecord(rec *core.Record) (ServiceOrder, error) {
	so := ServiceOrder{
		ID:               rec.GetString("order_number"),
		CustomerID:       rec.GetString("customer_code"),
		QuotationID:      rec.GetString("quote_number"),
		Category:         Category(rec.GetString("category")),
		Total:            rec.GetFloat("total"),
		VehicleCondition: rec.GetString("vehicle_condition"),
		CreatedAt:        rec.GetDateTime("created").Time(),
	}
	fields := []struct {
		key string
		dst any
	}{
		{"selection", &so.Selection},
		{"line_items", &so.LineItems},
		{"vehicle", &so.Vehicle},
		{"technician", &so.Technician},
		{"inventory", &so.Inventory},
		{"checklist_state", &so.Checklist.Steps},
	}
	for _, f := range fields {
		if err := decodeJSONField(rec, f.key, f.dst); err != nil {
			return ServiceOrder{}, fmt.Errorf("decode service order %s %s: %w", so.ID, f.key, err)
		}
	}
	so.Checklist.Composition = rec.GetString("checklist_composition")
	if so.Inventory == nil {
		so.Inventory = map[string]bool{}
	}
	if so.LineItems == nil {
		so.LineItems = []LineItem{}
	}
	if so.Selection.Trailers == nil {
		so.Selection.Trailers = []Trailer{}
	}
	return so, nil
}

// SaveServiceOrder creates or replaces the order with so.ID.
func SaveServiceOrder(app *pocketbase.PocketBase, so ServiceOrder) (ServiceOrder, error) {
	if so.ID == "" {
		return ServiceOrder{}, errors.New("save service order: missing id")
	}
	rec, err := app.FindFirstRecordByData("service_orders", "order_number", so.ID)
	if err != nil {
		if !notFound(err) {
			return ServiceOrder{}, fmt.Errorf("find service order %s: %w", so.ID, err)
		}
		col, cerr := app.FindCollectionByNameOrId("service_orders")
		if cerr != nil {
			return ServiceOrder{}, fmt.Errorf("service_orders collection: %w", cerr)
		}
		rec = core.NewRecord(col)
		rec.Set("order_number", so.ID)
	}

	so.SyncChecklist()

	rec.Set("customer_code", so.CustomerID)
	rec.Set("quote_number", so.QuotationID)
	rec.Set("category", string(so.Category))
	rec.Set("selection", so.Selection)
	rec.Set("line_items", so.LineItems)
	rec.Set("total", so.Total)
	rec.Set("vehicle", so.Vehicle)
	rec.Set("technician", so.Technician)
	rec.Set("inventory", so.Inventory)
	rec.Set("vehicle_condition", so.VehicleCondition)
	rec.Set("checklist_state", so.Checklist.Steps)
	rec.Set("checklist_composition", so.Checklist.Composition)
	if err := app.Save(rec); err != nil {
		return ServiceOrder{}, fmt.Errorf("save service order %s: %w", so.ID, err)
	}
	return so, nil
}

func FindServiceOrder(app *pocketbase.PocketBase, id string) (ServiceOrder, error) {
	rec, err := app.FindFirstRecordByData("service_orders", "order_number", id)
	if err != nil {
		if notFound(err) {
			return ServiceOrder{}, fmt.Errorf("service order %s: %w", id, ErrNotFound)
		}
		return ServiceOrder{}, fmt.Errorf("find service order %s: %w", id, err)
	}
	return serviceOrderFromRecord(rec)
}

// ListServiceOrdersForCustomer returns the customer's orders, newest first.
func ListServiceOrdersForCustomer(app *pocketbase.PocketBase, code string) ([]ServiceOrder, error) {
	recs, err := app.FindRecordsByFilter("service_orders", "customer_code = {:code}", "-created", 0, 0, map[string]any{"code": code})
	if err != nil {
		return nil, fmt.Errorf("list service orders for %s: %w", code, err)
	}
	out := make([]ServiceOrder, 0, len(recs))
	for _, rec := range recs {
		so, err := serviceOrderFromRecord(rec)
		if err != nil {
			log.Printf("store: skipping service order: %v", err)
			continue
		}
		out = append(out, so)
	}
	return out, nil
}

func DeleteServiceOrder(app *pocketbase.PocketBase, id string) error {
	rec, err := app.FindFirstRecordByData("service_orders", "order_number", id)
	if err != nil {
		if notFound(err) {
			return fmt.Errorf("service order %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("find service order %s: %w", id, err)
	}
	if err := app.Delete(rec); err != nil {
		return fmt.Errorf("delete service order %s: %w", id, err)
	}
	return nil
}
