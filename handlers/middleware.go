package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"truckwash/config"
	"truckwash/services"
	"truckwash/templates"
)

type contextKey string

const NavStackKey contextKey = "navStack"
const PageMetaKey contextKey = "pageMeta"

// navCookie holds the encoded "Regresar" history.
const navCookie = "nav_stack"

// GetNavStack extracts the navigation stack from the request context.
func GetNavStack(r *http.Request) *services.NavStack {
	if val, ok := r.Context().Value(NavStackKey).(*services.NavStack); ok {
		return val
	}
	return services.NewNavStack()
}

// GetPageMeta extracts the pre-built page chrome from the request context.
func GetPageMeta(r *http.Request) templates.PageMeta {
	if val, ok := r.Context().Value(PageMetaKey).(templates.PageMeta); ok {
		return val
	}
	return templates.PageMeta{ActivePath: r.URL.Path}
}

// viewForPath maps a page route to its navigation view. Downloads, partials
// and unknown paths are not recorded.
func viewForPath(path string) services.View {
	if strings.HasSuffix(path, ".pdf") || strings.HasSuffix(path, ".xlsx") {
		return ""
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case path == "/":
		return services.ViewHome
	case path == "/customers/new":
		return services.ViewRegister
	case path == "/search":
		return services.ViewSearch
	case path == "/quick-quote":
		return services.ViewQuickQuote
	case path == "/settings/prices":
		return services.ViewSettings
	case len(parts) == 2 && parts[0] == "customers":
		return services.ViewProfile
	case len(parts) == 4 && parts[0] == "customers" && parts[2] == "quotations" && parts[3] == "new",
		len(parts) == 2 && parts[0] == "quotations":
		return services.ViewQuotation
	case len(parts) == 2 && parts[0] == "service-orders":
		return services.ViewServiceOrder
	}
	return ""
}

func readNavStack(r *http.Request) *services.NavStack {
	c, err := r.Cookie(navCookie)
	if err != nil || c.Value == "" {
		return services.NewNavStack()
	}
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return services.NewNavStack()
	}
	return services.DecodeNavStack(raw)
}

func writeNavStack(w http.ResponseWriter, n *services.NavStack) {
	http.SetCookie(w, &http.Cookie{
		Name:     navCookie,
		Value:    url.QueryEscape(n.Encode()),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// NavigationMiddleware reads the navigation cookie, records full-page GET
// visits, and stores the stack and page chrome in the request context.
func NavigationMiddleware(station config.Station) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		nav := readNavStack(e.Request)

		isPage := e.Request.Method == http.MethodGet && e.Request.Header.Get("HX-Request") != "true"
		if isPage {
			if v := viewForPath(e.Request.URL.Path); v != "" {
				path := e.Request.URL.RequestURI()
				if strings.Contains(path, "|") {
					path = e.Request.URL.Path
				}
				nav.Push(services.NavEntry{View: v, Path: path})
				writeNavStack(e.Response, nav)
			}
		}

		meta := templates.PageMeta{
			StationName: station.Name,
			ActivePath:  e.Request.URL.Path,
		}
		if nav.Len() > 1 {
			meta.BackPath = nav.Previous().Path
		}

		ctx := context.WithValue(e.Request.Context(), NavStackKey, nav)
		ctx = context.WithValue(ctx, PageMetaKey, meta)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}
