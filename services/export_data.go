package services

import (
	"time"

	"truckwash/config"
)

// minServiceRows is the number of service lines always printed; shorter
// lists are padded with blank rows for handwritten additions.
const minServiceRows = 5

// ServiceLine is one printed row of the requested-services table. Blank
// rows carry no description and print an empty amount.
type ServiceLine struct {
	Description string
	Amount      string
	Blank       bool
}

// InventoryMark is one line of the vehicle reception inventory.
type InventoryMark struct {
	Item    string
	Present bool
}

// ServiceDocument holds everything printed on a quotation or service order.
type ServiceDocument struct {
	Title            string
	Number           string
	Date             string
	Station          config.Station
	Customer         CustomerRecord
	Technician       Technician
	Vehicle          Vehicle
	Inventory        []InventoryMark
	VehicleCondition string
	Lines            []LineItem
	Total            float64
}

// ChecklistDocument is the printable intake/release checklist.
type ChecklistDocument struct {
	Number      string
	Date        string
	Station     config.Station
	Customer    string
	Composition string
	Sections    []ChecklistSection
	State       ChecklistState
}

// FormatDocDate prints dates the way the station writes them: dd/mm/yyyy.
func FormatDocDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func inventoryMarks(items []string, checked map[string]bool) []InventoryMark {
	out := make([]InventoryMark, len(items))
	for i, item := range items {
		out[i] = InventoryMark{Item: item, Present: checked[item]}
	}
	return out
}

func NewQuotationDocument(q Quotation, c CustomerRecord, st config.Station) ServiceDocument {
	d := ServiceDocument{
		Title:     "COTIZACIÓN",
		Number:    q.ID,
		Date:      FormatDocDate(q.IssueDate),
		Station:   st,
		Customer:  c,
		Inventory: inventoryMarks(st.InventoryItems, nil),
		Lines:     q.LineItems,
		Total:     q.Total,
	}
	if q.VehicleInfo != nil {
		d.Vehicle = *q.VehicleInfo
	}
	return d
}

func NewServiceOrderDocument(so ServiceOrder, c CustomerRecord, st config.Station) ServiceDocument {
	return ServiceDocument{
		Title:            "ORDEN DE SERVICIO",
		Number:           so.ID,
		Date:             FormatDocDate(so.CreatedAt),
		Station:          st,
		Customer:         c,
		Technician:       so.Technician,
		Vehicle:          so.Vehicle,
		Inventory:        inventoryMarks(st.InventoryItems, so.Inventory),
		VehicleCondition: so.VehicleCondition,
		Lines:            so.LineItems,
		Total:            so.Total,
	}
}

func NewChecklistDocument(so ServiceOrder, c CustomerRecord, st config.Station) ChecklistDocument {
	return ChecklistDocument{
		Number:      so.ID,
		Date:        FormatDocDate(so.CreatedAt),
		Station:     st,
		Customer:    c.DisplayName(),
		Composition: so.Selection.TrailerComposition(),
		Sections:    so.Sections(),
		State:       so.Checklist,
	}
}

// ServiceRows returns the priced lines padded to minServiceRows.
func (d ServiceDocument) ServiceRows() []ServiceLine {
	rows := make([]ServiceLine, 0, max(len(d.Lines), minServiceRows))
	for _, li := range d.Lines {
		rows = append(rows, ServiceLine{Description: li.Description, Amount: FormatMXN(li.Price)})
	}
	for len(rows) < minServiceRows {
		rows = append(rows, ServiceLine{Amount: "$", Blank: true})
	}
	return rows
}

// CustomerName falls back to the walk-in label for unnamed customers.
func (d ServiceDocument) CustomerName() string {
	if n := d.Customer.DisplayName(); n != "" && n != NotAvailable {
		return n
	}
	return "Cliente General"
}

func orNA(s string) string {
	if isBlank(s) {
		return NotAvailable
	}
	return s
}
