package handlers

import (
	"github.com/pocketbase/pocketbase/core"
)

// HandleBack pops the navigation stack and sends the browser to the view
// now on top. Home is never popped.
// Route: GET /back
func HandleBack() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		nav := readNavStack(e.Request)
		prev := nav.Pop()
		writeNavStack(e.Response, nav)
		return redirect(e, prev.Path)
	}
}
