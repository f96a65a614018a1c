package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"truckwash/config"
	"truckwash/services"
)

// ServiceOrderData feeds the printable service order.
type ServiceOrderData struct {
	Order          services.ServiceOrder
	Customer       services.CustomerRecord
	Station        config.Station
	Sections       []services.ChecklistSection
	Done           int
	Total          int
	CanSaveVehicle bool
	Errors         map[string]string
}

var phaseLabels = map[services.CheckPhase]string{
	services.PhaseIntake:  "Entrada",
	services.PhaseRelease: "Salida",
}

// ChecklistToggle is one Entrada/Salida check button; toggling swaps it.
func ChecklistToggle(orderID, stepID string, phase services.CheckPhase, on bool) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		mark, cls := "☐", "border-gray-300"
		if on {
			mark, cls = "☑", "border-teal-600 bg-teal-50"
		}
		h.f(`<button type="button" id="chk-%s-%s" hx-post="/service-orders/%s/checklist/%s/%s" hx-swap="outerHTML" aria-pressed="%s" class="rounded border px-2 text-sm %s">%s %s</button>`,
			stepID, string(phase), orderID, stepID, string(phase), strconv.FormatBool(on), cls, mark, phaseLabels[phase])
	})
}

func ServiceOrderContent(data ServiceOrderData) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		so := data.Order
		h.raw(`<article class="space-y-6 bg-white p-6">`)
		h.raw(`<header class="flex items-start justify-between border-b pb-4"><div>`)
		h.f(`<h1 class="text-2xl font-bold">%s</h1><p class="italic text-gray-500">%s</p>`, data.Station.Name, data.Station.Slogan)
		h.raw(`</div><div class="text-right">`)
		h.f(`<p class="font-semibold">ORDEN DE SERVICIO</p><p>No. %s</p><p>Fecha: %s</p>`, so.ID, services.FormatDocDate(so.CreatedAt))
		if so.QuotationID != "" {
			h.f(`<p class="text-sm">Cotización: <a href="/quotations/%s" class="text-teal-700">%s</a></p>`, so.QuotationID, so.QuotationID)
		}
		h.raw(`</div></header>`)

		h.f(`<p><span class="font-semibold">Cliente:</span> <a href="/customers/%s">%s</a> · RFC %s</p>`,
			data.Customer.ID, data.Customer.DisplayName(), data.Customer.Billing.RFC)

		h.f(`<form hx-post="/service-orders/%s" hx-swap="none" class="no-print space-y-4">`, so.ID)
		h.raw(`<fieldset class="grid gap-3 md:grid-cols-3"><legend class="font-semibold">Técnico</legend>`)
		for _, fld := range []formField{
			{"technician_name", "Nombre", so.Technician.Name, "text"},
			{"technician_area", "Área", so.Technician.Area, "text"},
			{"technician_phone", "Teléfono", so.Technician.Phone, "tel"},
		} {
			h.f(`<label class="text-sm">%s<input type="%s" name="%s" value="%s" class="mt-1 w-full rounded border px-2 py-1"></label>`,
				fld.Label, fld.Type, fld.Name, fld.Value)
		}
		h.raw(`</fieldset>`)
		vehicleControls(h, so.Vehicle, data.Errors)

		h.raw(`<fieldset><legend class="font-semibold">Inventario de recepción</legend><div class="grid grid-cols-2 gap-1 md:grid-cols-4">`)
		for _, item := range data.Station.InventoryItems {
			h.f(`<label class="text-sm"><input type="checkbox" name="inventory" value="%s"%s> %s</label>`, item, checkedAttr(so.Inventory[item]), item)
		}
		h.raw(`</div></fieldset>`)
		h.f(`<label class="block text-sm font-semibold">Condiciones del vehículo<textarea name="vehicle_condition" rows="3" class="mt-1 w-full rounded border px-2 py-1">%s</textarea></label>`, so.VehicleCondition)
		h.raw(`<div class="flex gap-3"><button type="submit" class="rounded bg-teal-700 px-4 py-2 text-white">Guardar datos</button>`)
		if data.CanSaveVehicle {
			h.f(`<button type="button" hx-post="/service-orders/%s/vehicle" hx-include="closest form" hx-swap="none" class="rounded border px-4 py-2">Guardar vehículo en perfil</button>`, so.ID)
		}
		h.raw(`</div></form>`)

		h.raw(`<section><h2 class="mb-2 font-semibold">Servicios solicitados</h2><table class="w-full text-sm"><tbody>`)
		for _, li := range so.LineItems {
			h.f(`<tr><td>%s</td><td class="text-right">%s</td></tr>`, li.Description, price(li.Price))
		}
		h.f(`</tbody><tfoot><tr class="font-bold"><td>Presupuesto total</td><td class="text-right">%s</td></tr></tfoot></table>`, price(so.Total))
		h.f(`<p class="mt-1 text-xs text-gray-500">%s</p></section>`, services.AmountToWordsMXN(so.Total))

		h.raw(`<section id="checklist">`)
		h.f(`<div class="mb-2 flex items-center"><h2 class="font-semibold">Checklist de servicio</h2><span class="ml-3 text-sm text-gray-500">%s / %s</span>`,
			strconv.Itoa(data.Done), strconv.Itoa(data.Total))
		h.f(`<a href="/service-orders/%s/checklist.pdf" class="no-print ml-auto text-sm text-teal-700">Checklist PDF</a></div>`, so.ID)
		if len(data.Sections) == 0 {
			h.raw(`<p class="text-sm text-gray-500">Esta orden no genera checklist.</p>`)
		}
		for _, sec := range data.Sections {
			if sec.Group == services.GroupDivider {
				h.f(`<h3 class="mt-4 border-b font-bold uppercase">%s</h3>`, sec.Title)
				continue
			}
			h.f(`<div class="mt-3" data-section="%s"><h4 class="font-semibold">%s</h4><ul class="space-y-1">`, sec.Key, sec.Title)
			for _, step := range sec.Steps {
				h.f(`<li class="flex items-center gap-2 text-sm"><span class="flex-1">%s</span>`, step.Label)
				for _, ph := range []services.CheckPhase{services.PhaseIntake, services.PhaseRelease} {
					h.component(ctx, ChecklistToggle(so.ID, step.ID, ph, so.Checklist.Checked(step.ID, ph)))
				}
				h.raw(`</li>`)
			}
			h.raw(`</ul></div>`)
		}
		h.raw(`</section>`)

		h.f(`<footer class="no-print flex gap-4 border-t pt-4"><a href="/service-orders/%s/pdf" class="text-teal-700">Descargar PDF</a>`, so.ID)
		h.raw(`<button type="button" onclick="window.print()" class="text-teal-700">Imprimir</button></footer>`)
		h.raw(`</article>`)
	})
}
