package services

import "strings"

// View names one screen of the station tool.
type View string

const (
	ViewHome         View = "home"
	ViewRegister     View = "register"
	ViewSearch       View = "search"
	ViewProfile      View = "profile"
	ViewQuotation    View = "quotation"
	ViewQuickQuote   View = "quick-quote"
	ViewServiceOrder View = "service-order"
	ViewSettings     View = "settings"
)

// maxNavDepth bounds the stack so a cookie never grows without limit.
const maxNavDepth = 20

// NavEntry is one visited view together with the path that renders it.
type NavEntry struct {
	View View
	Path string
}

// NavStack is the "Regresar" history. The bottom entry is always home and is
// never popped.
type NavStack struct {
	entries []NavEntry
}

var homeEntry = NavEntry{View: ViewHome, Path: "/"}

func NewNavStack() *NavStack {
	return &NavStack{entries: []NavEntry{homeEntry}}
}

// Push records a visit. Re-visiting the current view replaces its path
// instead of stacking a duplicate; visiting home resets the stack.
func (n *NavStack) Push(e NavEntry) {
	if e.View == ViewHome {
		n.Reset()
		return
	}
	if cur := n.Current(); cur.View == e.View {
		n.entries[len(n.entries)-1] = e
		return
	}
	n.entries = append(n.entries, e)
	if len(n.entries) > maxNavDepth {
		// keep home at the bottom
		n.entries = append([]NavEntry{homeEntry}, n.entries[len(n.entries)-maxNavDepth+1:]...)
	}
}

// Pop discards the current view and returns the one now on top.
func (n *NavStack) Pop() NavEntry {
	if len(n.entries) > 1 {
		n.entries = n.entries[:len(n.entries)-1]
	}
	return n.Current()
}

func (n *NavStack) Current() NavEntry {
	if len(n.entries) == 0 {
		n.entries = []NavEntry{homeEntry}
	}
	return n.entries[len(n.entries)-1]
}

// Previous returns the entry below the current one without popping.
func (n *NavStack) Previous() NavEntry {
	if len(n.entries) < 2 {
		return homeEntry
	}
	return n.entries[len(n.entries)-2]
}

// Reset replaces the history with home followed by entries.
func (n *NavStack) Reset(entries ...NavEntry) {
	n.entries = []NavEntry{homeEntry}
	for _, e := range entries {
		if e.View != ViewHome {
			n.entries = append(n.entries, e)
		}
	}
}

func (n *NavStack) Len() int {
	return len(n.entries)
}

// Encode serialises the stack as view=path pairs separated by "|". Paths are
// site-relative and never contain "|".
func (n *NavStack) Encode() string {
	parts := make([]string, 0, len(n.entries))
	for _, e := range n.entries[1:] {
		parts = append(parts, string(e.View)+"="+e.Path)
	}
	return strings.Join(parts, "|")
}

// DecodeNavStack parses Encode output. Malformed entries are skipped.
func DecodeNavStack(s string) *NavStack {
	n := NewNavStack()
	if s == "" {
		return n
	}
	for _, part := range strings.Split(s, "|") {
		view, path, ok := strings.Cut(part, "=")
		if !ok || view == "" || !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
			continue
		}
		n.Push(NavEntry{View: View(view), Path: path})
	}
	return n
}
