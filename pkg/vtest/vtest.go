package vtest

import (
	"sort"
	"strings"
	"testing"

	"github.com/vango-dev/statesync/pkg/render"
	"github.com/vango-dev/statesync/pkg/vdom"
)

// Component is anything that renders to a VNode tree.
type Component interface {
	Render() *vdom.VNode
}

// RenderToString renders a VNode tree to HTML, returning an empty string
// on error.
func RenderToString(node *vdom.VNode) string {
	html, err := render.NewRenderer().RenderToString(node)
	if err != nil {
		return ""
	}
	return html
}

// Harness holds a mounted component and its last render.
type Harness struct {
	t        testing.TB
	comp     Component
	renderer *render.Renderer
	html     string
	handlers map[string]func()
}

// Mount renders comp and returns a Harness over it.
func Mount(t testing.TB, comp Component) *Harness {
	t.Helper()
	h := &Harness{
		t:        t,
		comp:     comp,
		renderer: render.NewRenderer(),
	}
	h.Render()
	return h
}

// Render re-renders the component and returns the HTML.
func (h *Harness) Render() string {
	h.t.Helper()
	h.renderer.Reset()
	html, err := h.renderer.RenderToString(h.comp.Render())
	if err != nil {
		h.t.Fatalf("render failed: %v", err)
	}
	h.html = html
	h.handlers = h.renderer.Handlers()
	return html
}

// HTML returns the last rendered HTML.
func (h *Harness) HTML() string {
	return h.html
}

// Fire runs the handler registered for event on the element with the given
// handler ID, then re-renders. It fails the test if no such handler exists.
func (h *Harness) Fire(hid, event string) {
	h.t.Helper()
	fn, ok := h.handlers[hid+"_"+event]
	if !ok {
		h.t.Fatalf("no handler %s_%s; registered: %v", hid, event, h.Handlers())
	}
	fn()
	h.Render()
}

// Handlers returns the registered handler keys in sorted order.
func (h *Harness) Handlers() []string {
	keys := make([]string, 0, len(h.handlers))
	for k := range h.handlers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ExpectContains asserts that the last render contains substring.
func (h *Harness) ExpectContains(expected string) {
	h.t.Helper()
	if !strings.Contains(h.html, expected) {
		h.t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(h.html, 500))
	}
}

// ExpectNotContains asserts that the last render does not contain substring.
func (h *Harness) ExpectNotContains(unexpected string) {
	h.t.Helper()
	if strings.Contains(h.html, unexpected) {
		h.t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(h.html, 500))
	}
}

// ExpectElement asserts that the last render contains a tag.
func (h *Harness) ExpectElement(tag string) {
	h.t.Helper()
	if !strings.Contains(h.html, "<"+tag) {
		h.t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(h.html, 500))
	}
}

// ExpectAttribute asserts that the last render contains attr="value".
func (h *Harness) ExpectAttribute(attr, value string) {
	h.t.Helper()
	pattern := attr + `="` + value + `"`
	if !strings.Contains(h.html, pattern) {
		h.t.Errorf("expected rendered output to contain %s, got:\n%s", pattern, truncate(h.html, 500))
	}
}

// truncate shortens a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
