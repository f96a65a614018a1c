// Package templates holds the server-rendered views. Every view is a
// templ.Component so handlers render pages and HTMX partials the same way.
package templates

import (
	"context"
	"fmt"
	"io"
	"reflect"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so view code can stay linear.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes s HTML-escaped. Safe for element content and quoted attributes.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// f formats into raw HTML. Arguments of any string kind and Stringers are
// escaped, so only the format itself may carry markup.
func (h *htmlWriter) f(format string, args ...any) {
	for i, a := range args {
		switch v := a.(type) {
		case string:
			args[i] = templ.EscapeString(v)
		case fmt.Stringer:
			args[i] = templ.EscapeString(v.String())
		default:
			if rv := reflect.ValueOf(a); rv.Kind() == reflect.String {
				args[i] = templ.EscapeString(rv.String())
			}
		}
	}
	h.raw(fmt.Sprintf(format, args...))
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func view(fn func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(ctx, h)
		return h.err
	})
}

func checkedAttr(on bool) string {
	if on {
		return " checked"
	}
	return ""
}

func selectedAttr(on bool) string {
	if on {
		return " selected"
	}
	return ""
}

// fieldError renders the inline message for a form field, if any.
func fieldError(h *htmlWriter, errs map[string]string, field string) {
	if msg, ok := errs[field]; ok && msg != "" {
		h.f(`<p class="mt-1 text-sm text-red-600" data-error-for="%s">%s</p>`, field, msg)
	}
}
