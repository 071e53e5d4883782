// Package render provides server-side rendering of vdom trees to HTML.
//
// The renderer handles escaping, void elements, boolean attributes and
// hydration IDs. Elements with event handlers get a data-hid attribute and
// a data-on-<event> marker; their handlers are collected into a registry
// keyed "<hid>_on<event>" so that a live session can dispatch client events.
//
//	r := render.NewRenderer()
//	html, err := r.RenderToString(node)
//	handlers := r.Handlers() // e.g. handlers["h1_onclick"]
//
// WritePage wraps rendered HTML in a document with a small client that keeps
// the mount point in sync over a WebSocket.
package render
