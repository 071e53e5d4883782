// Package vdom provides the virtual node tree that StateSync content
// builders return.
//
// Elements are created using variadic factory functions:
//
//	Label(Class("toggle"),
//	    Input(Type("checkbox"), Checked(on), OnChange(flip)),
//	    Text("Developer mode"),
//	)
//
// Arguments may be attributes (Attr), child nodes (*VNode), strings (text
// children), event handlers (EventHandler) or nil, which is skipped so
// conditional attributes read naturally.
//
// Event handlers are plain func() values stored in Props under their event
// name ("onclick"). The render package assigns hydration IDs to elements that
// carry handlers and collects the handlers into a registry.
package vdom
