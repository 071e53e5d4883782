package vdom

// Class sets the class attribute. Repeated Class attributes are joined.
func Class(classes ...string) Attr {
	out := ""
	for _, c := range classes {
		if c == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += c
	}
	return Attr{Key: "class", Value: out}
}

// ClassIf adds class when cond is true.
func ClassIf(cond bool, class string) Attr {
	if !cond {
		return Attr{}
	}
	return Class(class)
}

func ID(id string) Attr       { return Attr{Key: "id", Value: id} }
func Type(t string) Attr      { return Attr{Key: "type", Value: t} }
func Role(r string) Attr      { return Attr{Key: "role", Value: r} }
func Checked(b bool) Attr     { return Attr{Key: "checked", Value: b} }
func Disabled(b bool) Attr    { return Attr{Key: "disabled", Value: b} }
func Open(b bool) Attr        { return Attr{Key: "open", Value: b} }
func Key(k string) Attr       { return Attr{Key: "key", Value: k} }
func AriaBusy(b bool) Attr    { return Attr{Key: "aria-busy", Value: b} }
func AriaLabel(s string) Attr { return Attr{Key: "aria-label", Value: s} }

// Data sets a data-* attribute.
func Data(name, value string) Attr {
	return Attr{Key: "data-" + name, Value: value}
}

// AttrOf sets an arbitrary attribute.
func AttrOf(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}
