package handlers

import (
	"github.com/pocketbase/pocketbase"

	"truckwash/services"
	"truckwash/templates"
)

// customerNames resolves customer codes to display names, caching lookups
// for the lifetime of one request.
func customerNames(app *pocketbase.PocketBase) func(string) string {
	cache := map[string]string{}
	return func(code string) string {
		if n, ok := cache[code]; ok {
			return n
		}
		n := code
		if c, err := services.FindCustomer(app, code); err == nil {
			n = c.DisplayName()
		}
		cache[code] = n
		return n
	}
}

func quotationRows(qs []services.Quotation, nameOf func(string) string) []templates.QuotationRow {
	rows := make([]templates.QuotationRow, 0, len(qs))
	for _, r := range services.QuotationSheetRows(qs, nameOf) {
		rows = append(rows, templates.QuotationRow{
			ID:           r.ID,
			Date:         r.Date,
			Category:     r.Category,
			CustomerCode: r.CustomerCode,
			CustomerName: r.Customer,
			Total:        services.FormatMXN(r.Total),
		})
	}
	return rows
}

func customerRows(cs []services.CustomerRecord) []templates.CustomerRow {
	rows := make([]templates.CustomerRow, 0, len(cs))
	for _, c := range cs {
		rows = append(rows, templates.CustomerRow{Code: c.ID, Name: c.DisplayName(), RFC: c.Billing.RFC})
	}
	return rows
}

func serviceOrderRows(orders []services.ServiceOrder) []templates.ServiceOrderRow {
	rows := make([]templates.ServiceOrderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, templates.ServiceOrderRow{
			ID:          o.ID,
			Date:        services.FormatDocDate(o.CreatedAt),
			QuotationID: o.QuotationID,
			Total:       services.FormatMXN(o.Total),
		})
	}
	return rows
}
