package render

import (
	"fmt"
	"io"
)

// PageData contains the data needed to render a complete HTML page around a
// live component.
type PageData struct {
	// Title is the page title.
	Title string

	// Body is the already rendered component HTML placed in the mount point.
	Body string

	// LivePath is the WebSocket endpoint the client connects to.
	// Defaults to "/live".
	LivePath string

	// Lang is the language attribute for the html element.
	// Defaults to "en".
	Lang string
}

// liveClient replaces the mount point's HTML on every server push and
// forwards clicks and changes on elements marked data-on-* as events.
const liveClient = `(function () {
  var root = document.getElementById("app");
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + root.dataset.live);
  ws.onmessage = function (m) {
    var msg = JSON.parse(m.data);
    if (msg.html !== undefined) { root.innerHTML = msg.html; }
    if (msg.error) { console.warn("statesync:", msg.error); }
  };
  function forward(type) {
    root.addEventListener(type, function (e) {
      var el = e.target.closest("[data-on-" + type + "]");
      if (!el) { return; }
      if (type === "click" && el.tagName === "INPUT") { e.preventDefault(); }
      ws.send(JSON.stringify({ hid: el.dataset.hid, event: "on" + type }));
    });
  }
  forward("click");
  forward("change");
})();`

// WritePage writes a complete HTML document.
func WritePage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	live := page.LivePath
	if live == "" {
		live = "/live"
	}

	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="%s">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
<div id="app" data-live="%s">%s</div>
<script>%s</script>
</body>
</html>
`, escapeAttr(lang), escapeHTML(page.Title), escapeAttr(live), page.Body, liveClient)
	return err
}
