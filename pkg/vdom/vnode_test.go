package vdom

import "testing"

func TestCreateElement(t *testing.T) {
	clicked := false
	node := Button(
		Class("btn"),
		ClassIf(true, "primary"),
		ClassIf(false, "hidden"),
		ID("confirm"),
		Key("k1"),
		nil,
		"Confirm",
		OnClick(func() { clicked = true }),
	)

	if node.Kind != KindElement || node.Tag != "button" {
		t.Fatalf("unexpected node %v %q", node.Kind, node.Tag)
	}
	if got := node.Props["class"]; got != "btn primary" {
		t.Errorf("class = %v, want %q", got, "btn primary")
	}
	if node.Key != "k1" {
		t.Errorf("key = %q", node.Key)
	}
	if _, ok := node.Props["key"]; ok {
		t.Errorf("key must not be stored as a prop")
	}
	if node.TextContent() != "Confirm" {
		t.Errorf("TextContent = %q", node.TextContent())
	}
	if !node.IsInteractive() {
		t.Fatalf("button with onclick should be interactive")
	}

	node.Handlers()["onclick"]()
	if !clicked {
		t.Errorf("handler not stored")
	}
}

func TestChildrenAndFragments(t *testing.T) {
	node := Div(
		[]*VNode{Span("a"), nil, Span("b")},
		Fragment(Text("c"), nil, Textf("%d", 4)),
		If(false, Span("hidden")),
		If(true, Span("shown")),
	)

	if len(node.Children) != 4 {
		t.Fatalf("expected 4 children, got %d", len(node.Children))
	}
	if got := node.TextContent(); got != "abc4shown" {
		t.Errorf("TextContent = %q", got)
	}
	if node.IsInteractive() {
		t.Errorf("div without handlers is not interactive")
	}
}

func TestAttributeHelpers(t *testing.T) {
	node := Input(
		[]Attr{Type("checkbox"), Checked(true)},
		Disabled(false),
		Role("switch"),
		AriaBusy(true),
		AriaLabel("Developer mode"),
		Data("state", "pending"),
		AttrOf("name", "dev"),
		Attr{},
	)

	want := map[string]any{
		"type":       "checkbox",
		"checked":    true,
		"disabled":   false,
		"role":       "switch",
		"aria-busy":  true,
		"aria-label": "Developer mode",
		"data-state": "pending",
		"name":       "dev",
	}
	for k, v := range want {
		if node.Props[k] != v {
			t.Errorf("prop %s = %v, want %v", k, node.Props[k], v)
		}
	}
	if len(node.Props) != len(want) {
		t.Errorf("unexpected props %v", node.Props)
	}
}

func TestKindString(t *testing.T) {
	tests := map[VKind]string{
		KindElement:  "Element",
		KindText:     "Text",
		KindFragment: "Fragment",
		KindRaw:      "Raw",
		VKind(99):    "Unknown",
	}
	for k, want := range tests {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), want)
		}
	}
}

func TestVoidElements(t *testing.T) {
	if !IsVoidElement("input") || IsVoidElement("div") {
		t.Errorf("unexpected void element classification")
	}
}

func TestNilNodeHelpers(t *testing.T) {
	var n *VNode
	if n.IsInteractive() {
		t.Errorf("nil node is not interactive")
	}
	if len(n.Handlers()) != 0 {
		t.Errorf("nil node has no handlers")
	}
	if n.TextContent() != "" {
		t.Errorf("nil node has no text")
	}
}
