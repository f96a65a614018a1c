package templates

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"truckwash/services"
)

// MaxTrailers bounds the trailer count input.
const MaxTrailers = 4

// BuilderData feeds the quotation builder. CustomerCode is empty for a
// quick quote, which can be priced but not saved.
type BuilderData struct {
	QuotationID  string
	CustomerCode string
	CustomerName string
	Selection    services.Selection
	Quote        services.Quote
	Prices       services.PriceList
	Vehicle      services.Vehicle
	// IssueDate is the date printed on the quotation.
	IssueDate time.Time
	Errors    map[string]string
}

// DateInputLayout is the value format of <input type="date">.
const DateInputLayout = "2006-01-02"

func (d BuilderData) Quick() bool { return d.CustomerCode == "" }

func price(v float64) string { return services.FormatMXN(v) }

// QuoteBuilder is the whole builder form. Every change posts the form to the
// preview endpoint, which answers with a fresh QuoteBuilder.
func QuoteBuilder(data BuilderData) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		sel := data.Selection
		h.raw(`<form id="quote-builder" method="post" action="/quotations" hx-post="/quotations/preview" hx-trigger="change" hx-target="this" hx-swap="outerHTML" class="grid gap-6 md:grid-cols-3">`)
		h.f(`<input type="hidden" name="customer_code" value="%s">`, data.CustomerCode)
		h.f(`<input type="hidden" name="quotation_id" value="%s">`, data.QuotationID)
		// carries the blocks of inactive categories
		state, _ := json.Marshal(sel)
		h.f(`<input type="hidden" name="selection" value="%s">`, string(state))
		h.f(`<input type="hidden" name="rendered_category" value="%s">`, string(sel.Category))

		h.raw(`<div class="space-y-4 md:col-span-2">`)
		h.raw(`<fieldset class="rounded border bg-white p-4"><legend class="px-1 font-semibold">Categoría</legend><div class="flex gap-4">`)
		for _, c := range services.Categories {
			h.f(`<label class="text-sm"><input type="radio" name="category" value="%s"%s> %s</label>`,
				string(c), checkedAttr(sel.Category == c), c.Label())
		}
		h.raw(`</div></fieldset>`)

		switch sel.Category {
		case services.CategoryArticulated:
			articulatedControls(h, sel, data.Prices)
		case services.CategoryRigidTruck:
			rigidTruckControls(h, sel, data.Prices)
		case services.CategoryLightVehicle:
			lightVehicleControls(h, sel, data.Prices)
		default:
			h.raw(`<p class="text-sm text-gray-500">Selecciona una categoría para comenzar.</p>`)
		}
		if !data.Quick() {
			vehicleControls(h, data.Vehicle, data.Errors)
		}
		h.raw(`</div>`)

		h.raw(`<aside class="space-y-3">`)
		if !data.Quick() {
			date := ""
			if !data.IssueDate.IsZero() {
				date = data.IssueDate.Format(DateInputLayout)
			}
			h.f(`<label class="block text-sm">Fecha de cotización <input type="date" name="issue_date" value="%s" class="mt-1 w-full rounded border px-2 py-1"></label>`, date)
		}
		h.component(ctx, QuoteSummary(data.Quote))
		if !data.Quick() {
			h.raw(`<button type="submit" hx-post="/quotations" hx-target="#quote-builder" hx-swap="outerHTML" class="w-full rounded bg-teal-700 px-4 py-2 text-white">Guardar cotización</button>`)
			h.raw(`<button type="button" hx-post="/service-orders" class="w-full rounded border px-4 py-2">Generar orden de servicio</button>`)
			if data.QuotationID != "" {
				h.f(`<a href="/quotations/%s/pdf" class="block text-center text-sm text-teal-700">Descargar PDF</a>`, data.QuotationID)
				h.f(`<button type="button" hx-delete="/quotations/%s" hx-confirm="¿Eliminar la cotización?" class="w-full text-sm text-red-700">Eliminar cotización</button>`, data.QuotationID)
			}
		}
		h.raw(`</aside></form>`)
	})
}

// QuoteSummary lists the priced lines and the total.
func QuoteSummary(q services.Quote) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div id="quote-summary" class="rounded border bg-white p-4"><h2 class="mb-2 font-semibold">Resumen</h2>`)
		if len(q.LineItems) == 0 {
			h.raw(`<p class="text-sm text-gray-500">Sin servicios seleccionados.</p>`)
		} else {
			h.raw(`<ul class="space-y-1 text-sm">`)
			for _, li := range q.LineItems {
				h.f(`<li class="flex justify-between gap-2"><span>%s</span><span>%s</span></li>`, li.Description, price(li.Price))
			}
			h.raw(`</ul>`)
		}
		h.f(`<p class="mt-3 flex justify-between border-t pt-2 font-bold"><span>Total</span><span data-total>%s</span></p>`, price(q.Total))
		h.raw(`</div>`)
	})
}

func checkbox(h *htmlWriter, name, label string, on bool, amount string) {
	h.f(`<label class="flex items-center gap-2 text-sm"><input type="checkbox" name="%s" value="on"%s> %s <span class="ml-auto text-gray-500">%s</span></label>`,
		name, checkedAttr(on), label, amount)
}

func articulatedControls(h *htmlWriter, sel services.Selection, p services.PriceList) {
	au := p.ArticulatedUnit
	h.raw(`<fieldset class="space-y-2 rounded border bg-white p-4"><legend class="px-1 font-semibold">Tractor</legend>`)
	checkbox(h, "tractor_exterior", "Lavado Exterior de Tractor", sel.Tractor.Exterior, price(au.TractorExterior))
	checkbox(h, "tractor_interior", "Limpieza Interior de Cabina", sel.Tractor.Interior, price(au.TractorInterior))
	checkbox(h, "vehicle_package", "Paquete Vehículo Completo", sel.VehiclePackage, "-"+price(au.VehicleCompleteDiscount))
	h.raw(`</fieldset>`)

	h.raw(`<fieldset class="space-y-2 rounded border bg-white p-4"><legend class="px-1 font-semibold">Remolques</legend>`)
	h.f(`<input type="hidden" name="next_trailer_id" value="%s">`, strconv.Itoa(sel.NextTrailerID))
	h.raw(`<label class="text-sm">Cantidad <select name="trailer_count">`)
	for n := 0; n <= MaxTrailers; n++ {
		h.f(`<option value="%s"%s>%s</option>`, strconv.Itoa(n), selectedAttr(len(sel.Trailers) == n), strconv.Itoa(n))
	}
	h.raw(`</select></label>`)
	for i, t := range sel.Trailers {
		id := strconv.Itoa(t.ID)
		h.f(`<input type="hidden" name="trailer_id" value="%s">`, id)
		h.f(`<label class="block text-sm">Remolque %s <select name="trailer_type_%s"><option value="">Selecciona tipo</option>`, strconv.Itoa(i+1), id)
		for _, tt := range services.TrailerTypes {
			amount, _ := p.TrailerPrice(tt)
			h.f(`<option value="%s"%s>%s (%s)</option>`, string(tt), selectedAttr(t.Type == tt), tt.Label(), price(amount))
		}
		h.raw(`</select></label>`)
	}
	h.raw(`</fieldset>`)

	h.raw(`<fieldset class="space-y-2 rounded border bg-white p-4"><legend class="px-1 font-semibold">Adicionales</legend>`)
	for _, a := range services.Addons {
		amount, _ := p.AddonPrice(a)
		checkbox(h, "addon_"+string(a), a.Label(), sel.AddonRequested(a), price(amount))
	}
	h.raw(`</fieldset>`)
}

func rigidTruckControls(h *htmlWriter, sel services.Selection, p services.PriceList) {
	rt := sel.RigidTruck
	h.raw(`<fieldset class="space-y-2 rounded border bg-white p-4"><legend class="px-1 font-semibold">Camión Unitario</legend>`)
	h.raw(`<label class="block text-sm">Tipo de camión <select name="truck_class"><option value="">Selecciona tipo</option>`)
	for _, c := range services.TruckClasses {
		h.f(`<option value="%s"%s>%s</option>`, string(c), selectedAttr(rt.Class == c), c.Label())
	}
	h.raw(`</select></label>`)
	prices, _ := p.RigidTruckServicePrices(rt.Class)
	for _, svc := range services.TruckServices {
		checkbox(h, "truck_"+string(svc), svc.Label(), rt.Requested(svc), price(prices.Price(svc)))
	}
	h.raw(`</fieldset>`)
}

func lightVehicleControls(h *htmlWriter, sel services.Selection, p services.PriceList) {
	lv := sel.LightVehicle
	h.raw(`<fieldset class="space-y-2 rounded border bg-white p-4"><legend class="px-1 font-semibold">Vehículo</legend><div class="flex gap-4">`)
	h.raw(`<label class="text-sm">Tipo <select name="lv_body"><option value="">Selecciona</option>`)
	for _, b := range services.BodyTypes {
		h.f(`<option value="%s"%s>%s</option>`, string(b), selectedAttr(lv.BodyType == b), b.Label())
	}
	h.raw(`</select></label><label class="text-sm">Tamaño <select name="lv_size"><option value="">Selecciona</option>`)
	for _, s := range services.VehicleSizes {
		h.f(`<option value="%s"%s>%s</option>`, string(s), selectedAttr(lv.Size == s), s.Label())
	}
	h.raw(`</select></label></div>`)

	h.raw(`<div class="space-y-1 pt-2">`)
	h.f(`<label class="block text-sm"><input type="radio" name="lv_package" value="%s"%s> Sin paquete</label>`,
		string(services.TierNone), checkedAttr(lv.Package == services.TierNone || lv.Package == ""))
	for _, t := range services.PackageTiers {
		amount, _ := p.LightVehiclePackagePrice(lv.BodyType, lv.Size, t)
		h.f(`<label class="flex text-sm"><span><input type="radio" name="lv_package" value="%s"%s> Paquete %s</span><span class="ml-auto text-gray-500">%s</span></label>`,
			string(t), checkedAttr(lv.Package == t), t.Label(), price(amount))
	}
	h.raw(`</div></fieldset>`)

	h.raw(`<fieldset class="space-y-2 rounded border bg-white p-4"><legend class="px-1 font-semibold">A la Carta</legend>`)
	for _, item := range services.ALaCarteItems {
		amount, _ := p.ALaCartePrice(item)
		checkbox(h, "alacarta_"+string(item), item.Label(), lv.ALaCarte.Requested(item), price(amount))
	}
	h.raw(`</fieldset>`)
}

func vehicleControls(h *htmlWriter, v services.Vehicle, errs map[string]string) {
	h.raw(`<fieldset class="rounded border bg-white p-4"><legend class="px-1 font-semibold">Datos del vehículo</legend><div class="grid gap-3 md:grid-cols-3">`)
	h.raw(`<label class="text-sm">Tipo <select name="vehicle_type"><option value=""></option>`)
	for _, k := range services.VehicleKinds {
		h.f(`<option value="%s"%s>%s</option>`, string(k), selectedAttr(v.Type == k), string(k))
	}
	h.raw(`</select></label>`)
	for _, fld := range []formField{
		{"vehicle_make", "Marca", v.Make, "text"},
		{"vehicle_model", "Modelo", v.Model, "text"},
		{"vehicle_plates", "Placas", v.Plates, "text"},
		{"vehicle_color", "Color", v.Color, "text"},
		{"vehicle_kms", "Kilometraje", v.Odometer, "text"},
	} {
		h.f(`<label class="text-sm">%s<input type="%s" name="%s" value="%s" class="mt-1 w-full rounded border px-2 py-1"></label>`,
			fld.Label, fld.Type, fld.Name, fld.Value)
		fieldError(h, errs, fld.Name)
	}
	h.raw(`</div></fieldset>`)
}

// QuotationContent is the builder page body with its heading.
func QuotationContent(data BuilderData) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		switch {
		case data.Quick():
			h.raw(`<h1 class="mb-4 text-2xl font-bold">Cotización rápida</h1>`)
		case data.QuotationID != "":
			h.f(`<h1 class="mb-4 text-2xl font-bold">Cotización %s</h1>`, data.QuotationID)
		default:
			h.raw(`<h1 class="mb-4 text-2xl font-bold">Nueva cotización</h1>`)
		}
		if !data.Quick() {
			h.f(`<p class="mb-4 text-sm">Cliente: <a href="/customers/%s" class="text-teal-700">%s</a></p>`, data.CustomerCode, data.CustomerName)
		}
		h.component(ctx, QuoteBuilder(data))
	})
}
