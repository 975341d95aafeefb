package headless

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// layout stacks the body's visible elements in document order. Every
// visible leaf element takes RowHeight; a container spans its children;
// hidden subtrees take no space and have no box.
func (w *Window) layout() {
	for _, el := range w.doc.elements {
		el.laidOut = false
		el.top, el.height = 0, 0
	}
	body := findAtom(w.doc.root, atom.Body)
	if body == nil {
		return
	}
	y := 0.0
	w.layoutNode(body, &y)
}

func (w *Window) layoutNode(n *html.Node, y *float64) (visible bool) {
	if n.Type != html.ElementNode {
		return false
	}
	if hiddenNode(n) {
		return false
	}
	start := *y
	hasChild := false
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if w.layoutNode(c, y) {
			hasChild = true
		}
	}
	if !hasChild && n.DataAtom != atom.Body {
		*y += w.opts.RowHeight
	}
	if el, ok := w.doc.elements[n]; ok {
		el.top = start
		el.height = *y - start
		el.laidOut = true
	}
	return true
}

func hiddenNode(n *html.Node) bool {
	if _, ok := lookupAttr(n, "hidden"); ok {
		return true
	}
	for _, d := range parseStyle(attr(n, "style")) {
		if d.Property == "display" && strings.EqualFold(d.Value, "none") {
			return true
		}
	}
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Template:
		return true
	}
	return false
}
