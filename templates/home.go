package templates

import (
	"context"

	"github.com/a-h/templ"
)

// HomeData feeds the landing page.
type HomeData struct {
	StationName       string
	Slogan            string
	GeneralCustomerID string
	RecentQuotations  []QuotationRow
}

func HomeContent(data HomeData) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<section class="mb-8 text-center">`)
		h.f(`<h1 class="text-3xl font-bold">%s</h1>`, data.StationName)
		if data.Slogan != "" {
			h.f(`<p class="text-gray-500">%s</p>`, data.Slogan)
		}
		h.raw(`</section>`)

		h.raw(`<div class="grid gap-4 md:grid-cols-4">`)
		card := func(href, title, desc string) {
			h.f(`<a href="%s" class="block rounded-lg border bg-white p-5 shadow-sm hover:border-teal-600">`+
				`<h2 class="font-semibold">%s</h2><p class="text-sm text-gray-500">%s</p></a>`, href, title, desc)
		}
		card("/customers/new", "Registrar cliente", "Alta con datos fiscales o desde la Constancia del SAT")
		card("/search", "Buscar", "Clientes y cotizaciones guardadas")
		card("/customers/"+data.GeneralCustomerID, "Cliente General", "Cotizar para público en general")
		card("/quick-quote", "Cotización rápida", "Calcular un precio sin cliente")
		h.raw(`</div>`)

		if len(data.RecentQuotations) > 0 {
			h.raw(`<h2 class="mb-2 mt-8 font-semibold">Cotizaciones recientes</h2>`)
			quotationTable(h, data.RecentQuotations, true)
		}
	})
}

func HomePage(meta PageMeta, data HomeData) templ.Component {
	return Page(meta, HomeContent(data))
}
