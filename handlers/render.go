package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"

	"truckwash/templates"
)

func isHTMX(e *core.RequestEvent) bool {
	return e.Request.Header.Get("HX-Request") == "true"
}

// renderPage renders content alone for HTMX requests and wrapped in the
// full layout otherwise.
func renderPage(e *core.RequestEvent, title string, content templ.Component) error {
	var component templ.Component
	if isHTMX(e) {
		component = content
	} else {
		meta := GetPageMeta(e.Request)
		meta.Title = title
		component = templates.Page(meta, content)
	}
	return component.Render(e.Request.Context(), e.Response)
}

// redirect sends HTMX clients an HX-Redirect and everyone else a 302.
func redirect(e *core.RequestEvent, path string) error {
	if isHTMX(e) {
		e.Response.Header().Set("HX-Redirect", path)
		return e.NoContent(http.StatusOK)
	}
	return e.Redirect(http.StatusFound, path)
}
