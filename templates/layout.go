package templates

import (
	"context"

	"github.com/a-h/templ"
)

// PageMeta is the chrome shared by every full page.
type PageMeta struct {
	Title       string
	StationName string
	ActivePath  string
	// BackPath is where "Regresar" leads; empty hides the link.
	BackPath string
}

type navLink struct {
	Path  string
	Label string
}

var navLinks = []navLink{
	{"/", "Inicio"},
	{"/customers/new", "Registrar cliente"},
	{"/search", "Buscar"},
	{"/quick-quote", "Cotización rápida"},
	{"/settings/prices", "Precios"},
}

// Page wraps content in the full HTML document.
func Page(meta PageMeta, content templ.Component) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		title := meta.Title
		if meta.StationName != "" {
			title += " | " + meta.StationName
		}
		h.raw(`<!DOCTYPE html><html lang="es"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.f(`<title>%s</title>`, title)
		h.raw(`<script src="https://cdn.tailwindcss.com"></script>`)
		h.raw(`<link rel="stylesheet" href="/static/css/app.css">`)
		h.raw(`<script src="https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js" defer></script>`)
		h.raw(`<script src="/static/js/toast.js" defer></script>`)
		h.raw(`</head><body class="bg-gray-50 text-gray-900">`)

		h.raw(`<header class="no-print border-b bg-white"><nav class="mx-auto flex max-w-6xl items-center gap-4 px-4 py-3">`)
		h.f(`<a href="/" class="font-bold">%s</a>`, meta.StationName)
		for _, l := range navLinks {
			cls := "text-sm text-gray-600 hover:text-gray-900"
			if l.Path == meta.ActivePath {
				cls = "text-sm font-semibold text-teal-700"
			}
			h.f(`<a href="%s" class="%s">%s</a>`, l.Path, cls, l.Label)
		}
		if meta.BackPath != "" {
			h.raw(`<a href="/back" class="ml-auto text-sm text-gray-600" id="back-link">&larr; Regresar</a>`)
		}
		h.raw(`</nav></header>`)

		h.raw(`<div id="toast-container" class="fixed right-4 top-4 z-50"></div>`)
		h.raw(`<main id="main-content" class="mx-auto max-w-6xl px-4 py-6">`)
		h.component(ctx, content)
		h.raw(`</main></body></html>`)
	})
}
