package templates

import (
	"context"
	"net/url"

	"github.com/a-h/templ"

	"truckwash/services"
)

// CustomerRow is one line in customer listings.
type CustomerRow struct {
	Code string
	Name string
	RFC  string
}

// QuotationRow is one line in quotation listings.
type QuotationRow struct {
	ID           string
	Date         string
	Category     string
	CustomerCode string
	CustomerName string
	Total        string
}

// ServiceOrderRow is one line in the profile's service order list.
type ServiceOrderRow struct {
	ID          string
	Date        string
	QuotationID string
	Total       string
}

// RegisterData feeds the registration form.
type RegisterData struct {
	Draft             services.CustomerRecord
	Errors            map[string]string
	ExtractionEnabled bool
	// Notice is an advisory message shown above the form.
	Notice string
}

type formField struct {
	Name  string
	Label string
	Value string
	Type  string
}

func registerFields(c services.CustomerRecord) [][]formField {
	return [][]formField{
		{
			{"fullName", "Nombre o razón social", c.Name.FullName, "text"},
			{"name", "Nombre(s)", c.Name.Given, "text"},
			{"paternalLastName", "Apellido paterno", c.Name.PaternalLastName, "text"},
			{"maternalLastName", "Apellido materno", c.Name.MaternalLastName, "text"},
		},
		{
			{"rfc", "RFC", c.Billing.RFC, "text"},
			{"taxRegime", "Régimen fiscal", c.Billing.TaxRegime, "text"},
			{"taxPostalCode", "C.P. fiscal", c.Billing.TaxPostalCode, "text"},
		},
		{
			{"street", "Calle", c.Address.Street, "text"},
			{"exteriorNumber", "No. exterior", c.Address.ExteriorNumber, "text"},
			{"interiorNumber", "No. interior", c.Address.InteriorNumber, "text"},
			{"neighborhood", "Colonia", c.Address.Neighborhood, "text"},
			{"municipality", "Municipio", c.Address.Municipality, "text"},
			{"state", "Estado", c.Address.State, "text"},
			{"postalCode", "Código postal", c.Address.PostalCode, "text"},
		},
		{
			{"email", "Correo electrónico", c.Contact.Email, "email"},
			{"phone", "Teléfono", c.Contact.Phone, "tel"},
		},
	}
}

var registerLegends = []string{"Nombre", "Datos fiscales", "Domicilio", "Contacto"}

// RegisterForm is the swappable form; extraction responses replace it in place.
func RegisterForm(data RegisterData) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<form id="register-form" method="post" action="/customers/new" hx-post="/customers/new" hx-target="#register-form" hx-swap="outerHTML" class="space-y-6">`)
		if data.Notice != "" {
			h.f(`<div class="rounded border border-amber-300 bg-amber-50 p-3 text-sm" role="status">%s</div>`, data.Notice)
		}
		fieldError(h, data.Errors, "")
		for i, group := range registerFields(data.Draft) {
			h.f(`<fieldset class="rounded border bg-white p-4"><legend class="px-1 font-semibold">%s</legend><div class="grid gap-3 md:grid-cols-3">`, registerLegends[i])
			for _, fld := range group {
				h.f(`<label class="block text-sm">%s<input type="%s" name="%s" value="%s" class="mt-1 w-full rounded border px-2 py-1"></label>`,
					fld.Label, fld.Type, fld.Name, fld.Value)
				fieldError(h, data.Errors, fld.Name)
			}
			h.raw(`</div></fieldset>`)
		}
		h.f(`<p class="text-sm text-gray-500">País: %s</p>`, services.DefaultCountry)
		h.raw(`<button type="submit" class="rounded bg-teal-700 px-4 py-2 text-white">Guardar cliente</button>`)
		h.raw(`</form>`)
	})
}

func RegisterContent(data RegisterData) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1 class="mb-4 text-2xl font-bold">Registrar cliente</h1>`)
		if data.ExtractionEnabled {
			h.raw(`<section class="mb-6 grid gap-4 rounded border bg-white p-4 md:grid-cols-2">`)
			h.raw(`<form hx-post="/customers/new/extract/document" hx-encoding="multipart/form-data" hx-target="#register-form" hx-swap="outerHTML" hx-include="#register-form">`)
			h.raw(`<label class="block text-sm font-semibold">Constancia de Situación Fiscal (PDF o imagen)<input type="file" name="document" accept=".pdf,image/*" class="mt-1 block"></label>`)
			h.raw(`<button type="submit" class="mt-2 rounded border px-3 py-1 text-sm">Leer documento</button></form>`)
			h.raw(`<form hx-post="/customers/new/extract/url" hx-target="#register-form" hx-swap="outerHTML" hx-include="#register-form">`)
			h.raw(`<label class="block text-sm font-semibold">URL del código QR del SAT<input type="url" name="sat_url" placeholder="https://siat.sat.gob.mx/..." class="mt-1 w-full rounded border px-2 py-1"></label>`)
			h.raw(`<button type="submit" class="mt-2 rounded border px-3 py-1 text-sm">Consultar URL</button></form>`)
			h.raw(`</section>`)
		}
		h.component(ctx, RegisterForm(data))
	})
}

// SearchData feeds the search page.
type SearchData struct {
	Query      string
	Customers  []CustomerRow
	Quotations []QuotationRow
}

// SearchResults is the partial refreshed as the operator types.
func SearchResults(data SearchData) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div id="search-results" class="space-y-6">`)
		h.raw(`<section><h2 class="mb-2 font-semibold">Clientes</h2>`)
		if len(data.Customers) == 0 {
			h.raw(`<p class="text-sm text-gray-500">Sin clientes.</p>`)
		} else {
			h.raw(`<table class="w-full bg-white text-sm"><thead><tr><th class="text-left">Nombre</th><th class="text-left">RFC</th><th></th></tr></thead><tbody>`)
			for _, c := range data.Customers {
				h.f(`<tr><td><a href="/customers/%s" class="text-teal-700">%s</a></td><td>%s</td><td class="text-right text-xs text-gray-400">%s</td></tr>`,
					c.Code, c.Name, c.RFC, c.Code)
			}
			h.raw(`</tbody></table>`)
		}
		h.raw(`</section><section><h2 class="mb-2 font-semibold">Cotizaciones</h2>`)
		if len(data.Quotations) == 0 {
			h.raw(`<p class="text-sm text-gray-500">Sin cotizaciones.</p>`)
		} else {
			quotationTable(h, data.Quotations, true)
			h.f(`<a href="/search/quotations.xlsx?q=%s" class="mt-2 inline-block text-sm text-teal-700">Exportar a Excel</a>`, url.QueryEscape(data.Query))
		}
		h.raw(`</section></div>`)
	})
}

func SearchContent(data SearchData) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1 class="mb-4 text-2xl font-bold">Buscar</h1>`)
		h.f(`<form action="/search" method="get" class="mb-6"><input type="search" name="q" value="%s" placeholder="Nombre, RFC o folio"`+
			` hx-get="/search" hx-trigger="input changed delay:300ms, search" hx-target="#search-results" hx-select="#search-results" hx-swap="outerHTML"`+
			` class="w-full rounded border px-3 py-2"></form>`, data.Query)
		h.component(ctx, SearchResults(data))
	})
}

func quotationTable(h *htmlWriter, rows []QuotationRow, withCustomer bool) {
	h.raw(`<table class="w-full bg-white text-sm"><thead><tr><th class="text-left">Folio</th><th class="text-left">Fecha</th><th class="text-left">Categoría</th>`)
	if withCustomer {
		h.raw(`<th class="text-left">Cliente</th>`)
	}
	h.raw(`<th class="text-right">Total</th></tr></thead><tbody>`)
	for _, q := range rows {
		h.f(`<tr id="quotation-%s"><td><a href="/quotations/%s" class="text-teal-700">%s</a></td><td>%s</td><td>%s</td>`, q.ID, q.ID, q.ID, q.Date, q.Category)
		if withCustomer {
			h.f(`<td><a href="/customers/%s">%s</a></td>`, q.CustomerCode, q.CustomerName)
		}
		h.f(`<td class="text-right">%s</td></tr>`, q.Total)
	}
	h.raw(`</tbody></table>`)
}

// ProfileData feeds the customer profile page.
type ProfileData struct {
	Customer      services.CustomerRecord
	Deletable     bool
	Quotations    []QuotationRow
	ServiceOrders []ServiceOrderRow
}

func ProfileContent(data ProfileData) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		c := data.Customer
		h.raw(`<div class="mb-4 flex items-center gap-3">`)
		h.f(`<h1 class="text-2xl font-bold">%s</h1><span class="text-xs text-gray-400">%s</span>`, c.DisplayName(), c.ID)
		h.f(`<a href="/customers/%s/quotations/new" class="ml-auto rounded bg-teal-700 px-3 py-1 text-sm text-white">Nueva cotización</a>`, c.ID)
		if data.Deletable {
			h.f(`<button hx-delete="/customers/%s" hx-confirm="¿Eliminar al cliente y todas sus cotizaciones?" class="rounded border border-red-300 px-3 py-1 text-sm text-red-700">Eliminar</button>`, c.ID)
		}
		h.raw(`</div>`)

		h.raw(`<dl class="mb-6 grid gap-2 rounded border bg-white p-4 text-sm md:grid-cols-3">`)
		dd := func(label, value string) {
			h.f(`<div><dt class="text-gray-500">%s</dt><dd>%s</dd></div>`, label, value)
		}
		dd("RFC", c.Billing.RFC)
		dd("Régimen fiscal", c.Billing.TaxRegime)
		dd("C.P. fiscal", c.Billing.TaxPostalCode)
		dd("Domicilio", c.Address.Street+" "+c.Address.ExteriorNumber+", "+c.Address.Neighborhood)
		dd("Municipio / Estado", c.Address.Municipality+", "+c.Address.State)
		dd("País", c.Address.Country)
		dd("Correo", c.Contact.Email)
		dd("Teléfono", c.Contact.Phone)
		h.raw(`</dl>`)

		if len(c.Vehicles) > 0 {
			h.raw(`<h2 class="mb-2 font-semibold">Vehículos</h2><ul class="mb-6 text-sm">`)
			for _, v := range c.Vehicles {
				h.f(`<li>%s %s %s · Placas %s</li>`, string(v.Type), v.Make, v.Model, v.Plates)
			}
			h.raw(`</ul>`)
		}

		h.raw(`<div class="mb-2 flex items-center"><h2 class="font-semibold">Cotizaciones</h2>`)
		if len(data.Quotations) > 0 {
			h.f(`<a href="/customers/%s/quotations.xlsx" class="ml-auto text-sm text-teal-700">Exportar a Excel</a>`, c.ID)
		}
		h.raw(`</div>`)
		if len(data.Quotations) == 0 {
			h.raw(`<p class="text-sm text-gray-500">Este cliente no tiene cotizaciones.</p>`)
		} else {
			quotationTable(h, data.Quotations, false)
		}

		if len(data.ServiceOrders) > 0 {
			h.raw(`<h2 class="mb-2 mt-6 font-semibold">Órdenes de servicio</h2><ul class="text-sm">`)
			for _, o := range data.ServiceOrders {
				h.f(`<li><a href="/service-orders/%s" class="text-teal-700">%s</a> · %s · %s</li>`, o.ID, o.ID, o.Date, o.Total)
			}
			h.raw(`</ul>`)
		}
	})
}
