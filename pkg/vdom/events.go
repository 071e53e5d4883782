package vdom

// OnClick binds fn to the click event.
func OnClick(fn func()) EventHandler {
	return EventHandler{Event: "onclick", Handler: fn}
}

// OnChange binds fn to the change event.
func OnChange(fn func()) EventHandler {
	return EventHandler{Event: "onchange", Handler: fn}
}

// Handlers returns the event handlers of v keyed by event prop.
func (v *VNode) Handlers() map[string]func() {
	out := make(map[string]func())
	if v == nil {
		return out
	}
	for key, value := range v.Props {
		if fn, ok := value.(func()); ok {
			out[key] = fn
		}
	}
	return out
}
