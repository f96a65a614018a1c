package templates

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/a-h/templ"

	"truckwash/services"
)

// PriceGroup is one fieldset of the price settings form.
type PriceGroup struct {
	Name   string
	Leaves []services.PriceLeaf
}

// GroupLeaves splits leaves into groups, keeping first-seen order.
func GroupLeaves(leaves []services.PriceLeaf) []PriceGroup {
	var groups []PriceGroup
	idx := map[string]int{}
	for _, l := range leaves {
		i, ok := idx[l.Group]
		if !ok {
			i = len(groups)
			idx[l.Group] = i
			groups = append(groups, PriceGroup{Name: l.Group})
		}
		groups[i].Leaves = append(groups[i].Leaves, l)
	}
	return groups
}

// PriceSettingsData feeds the price settings page.
type PriceSettingsData struct {
	Groups []PriceGroup
	// Errors maps a leaf path to its message.
	Errors   map[string]string
	Warnings []string
}

// PriceSettingsForm is the editable price list; saving swaps it in place.
func PriceSettingsForm(data PriceSettingsData) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<form id="price-form" method="post" action="/settings/prices" hx-post="/settings/prices" hx-target="this" hx-swap="outerHTML" class="space-y-6">`)
		for _, w := range data.Warnings {
			h.f(`<p class="rounded bg-amber-50 p-2 text-sm text-amber-800">%s</p>`, w)
		}
		for _, g := range data.Groups {
			h.f(`<fieldset class="rounded border bg-white p-4"><legend class="px-1 font-semibold">%s</legend><div class="grid gap-2 md:grid-cols-2">`, g.Name)
			for _, l := range g.Leaves {
				h.f(`<label class="flex items-center gap-2 text-sm"><span class="flex-1">%s</span>`+
					`<input type="number" step="0.01" min="0" name="%s" value="%s" class="w-32 rounded border px-2 py-1 text-right"></label>`,
					l.Label, l.Path, strconv.FormatFloat(l.Value, 'f', -1, 64))
				fieldError(h, data.Errors, l.Path)
			}
			h.raw(`</div></fieldset>`)
		}
		h.raw(`<div class="flex gap-3"><button type="submit" class="rounded bg-teal-700 px-4 py-2 text-white">Guardar precios</button>`)
		h.raw(`<button type="button" hx-post="/settings/prices/reset" hx-target="#price-form" hx-swap="outerHTML" hx-confirm="¿Restaurar los precios de fábrica?" class="rounded border px-4 py-2">Restaurar valores predeterminados</button></div>`)
		h.raw(`</form>`)
	})
}

func PriceSettingsContent(data PriceSettingsData) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1 class="mb-4 text-2xl font-bold">Lista de precios</h1>`)
		h.raw(`<section class="mb-6 flex flex-wrap items-end gap-4 rounded border bg-white p-4">`)
		h.raw(`<a href="/settings/prices/export.xlsx" class="text-sm text-teal-700">Descargar hoja de precios</a>`)
		h.raw(`<form hx-post="/settings/prices/import" hx-encoding="multipart/form-data" hx-target="#import-results" hx-swap="innerHTML" class="flex items-end gap-2">`)
		h.raw(`<label class="text-sm">Importar hoja (.xlsx o .csv)<input type="file" name="file" accept=".xlsx,.csv" class="mt-1 block"></label>`)
		h.raw(`<button type="submit" class="rounded border px-3 py-1 text-sm">Importar</button></form>`)
		h.raw(`</section><div id="import-results" class="mb-6"></div>`)
		h.component(ctx, PriceSettingsForm(data))
	})
}

// ImportResults reports a price sheet upload. On failure it offers the
// error report download.
func ImportResults(res *services.ImportResult) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		if res.OK() {
			h.f(`<p class="rounded bg-green-50 p-3 text-sm text-green-800">Se actualizaron %s precios de %s.</p>`,
				strconv.Itoa(res.Applied), res.FileName)
			return
		}
		h.f(`<div class="rounded border border-red-200 bg-red-50 p-3 text-sm"><p class="font-semibold">%s errores en %s filas. No se aplicó ningún cambio.</p>`,
			strconv.Itoa(len(res.Errors)), strconv.Itoa(res.TotalRows))
		h.raw(`<table class="mt-2 w-full"><thead><tr><th class="text-left">Fila</th><th class="text-left">Campo</th><th class="text-left">Error</th></tr></thead><tbody>`)
		for _, e := range res.Errors {
			h.f(`<tr><td>%s</td><td>%s</td><td>%s</td></tr>`, strconv.Itoa(e.Row), e.Field, e.Message)
		}
		h.raw(`</tbody></table>`)
		payload, _ := json.Marshal(res.Errors)
		h.raw(`<form method="post" action="/settings/prices/import/errors" class="mt-2">`)
		h.f(`<input type="hidden" name="errors" value="%s">`, string(payload))
		h.raw(`<button type="submit" class="text-teal-700">Descargar reporte de errores</button></form></div>`)
	})
}

// ChecklistTemplatesContent lists every checklist template for printing blank.
func ChecklistTemplatesContent(tmpls []services.ChecklistTemplate) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1 class="mb-4 text-2xl font-bold">Plantillas de checklist</h1>`)
		for _, t := range tmpls {
			h.f(`<section class="mb-6 bg-white p-4" data-template="%s"><h2 class="font-bold">%s</h2>`, string(t.Key), t.Title)
			if len(t.Trailers) > 0 {
				h.raw(`<p class="text-sm text-gray-500">Remolques: `)
				for i, tr := range t.Trailers {
					if i > 0 {
						h.raw(", ")
					}
					h.text(tr.Label())
				}
				h.raw(`</p>`)
			}
			for _, sec := range t.Sections {
				h.f(`<h3 class="mt-2 font-semibold">%s</h3><ol class="list-decimal pl-6 text-sm">`, sec.Title)
				for _, st := range sec.Steps {
					h.f(`<li>%s <span class="text-gray-400">☐ Entrada ☐ Salida</span></li>`, st.Label)
				}
				h.raw(`</ol>`)
			}
			h.raw(`</section>`)
		}
	})
}
