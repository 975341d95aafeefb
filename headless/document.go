package headless

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vcrobe/navdeck/console"
	"github.com/vcrobe/navdeck/dom"
)

// Compile-time assertion to ensure Document implements dom.Document.
var _ dom.Document = (*Document)(nil)

// Document is a parsed HTML document queried with CSS selectors.
type Document struct {
	win  *Window
	root *html.Node

	elements  map[*html.Node]*Element
	selectors map[string]cascadia.Selector
}

func newDocument(win *Window, root *html.Node) *Document {
	return &Document{
		win:       win,
		root:      root,
		elements:  make(map[*html.Node]*Element),
		selectors: make(map[string]cascadia.Selector),
	}
}

// wrap returns the stable handle for n.
func (d *Document) wrap(n *html.Node) *Element {
	if el, ok := d.elements[n]; ok {
		return el
	}
	d.win.nextKey++
	el := &Element{doc: d, node: n, key: d.win.nextKey}
	d.elements[n] = el
	return el
}

func (d *Document) compile(selector string) (cascadia.Selector, bool) {
	if sel, ok := d.selectors[selector]; ok {
		return sel, sel != nil
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		console.Warn("[headless.Document] invalid selector", selector, err.Error())
		d.selectors[selector] = nil
		return nil, false
	}
	d.selectors[selector] = sel
	return sel, true
}

func (d *Document) queryAll(scope *html.Node, selector string) []dom.Element {
	sel, ok := d.compile(selector)
	if !ok {
		return nil
	}
	var out []dom.Element
	for _, n := range sel.MatchAll(scope) {
		if n == scope {
			continue
		}
		out = append(out, d.wrap(n))
	}
	return out
}

// QueryAll returns every element matching selector in document order.
func (d *Document) QueryAll(selector string) []dom.Element {
	return d.queryAll(d.root, selector)
}

// Query returns the first element matching selector.
func (d *Document) Query(selector string) (*Element, bool) {
	all := d.QueryAll(selector)
	if len(all) == 0 {
		return nil, false
	}
	return all[0].(*Element), true
}

// ByID returns the element whose id attribute equals id.
func (d *Document) ByID(id string) (dom.Element, bool) {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil, false
	}
	return d.wrap(found), true
}

// Body returns the body element.
func (d *Document) Body() dom.Element {
	if n := findAtom(d.root, atom.Body); n != nil {
		return d.wrap(n)
	}
	return nil
}

// Title returns the text of the <title> element.
func (d *Document) Title() string {
	if n := findAtom(d.root, atom.Title); n != nil {
		return strings.TrimSpace(textOf(n))
	}
	return ""
}

// SetTitle replaces the <title> text, creating the element when missing.
func (d *Document) SetTitle(title string) {
	n := findAtom(d.root, atom.Title)
	if n == nil {
		head := findAtom(d.root, atom.Head)
		if head == nil {
			return
		}
		n = &html.Node{Type: html.ElementNode, Data: "title", DataAtom: atom.Title}
		head.AppendChild(n)
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: title})
}

// HTML serialises the current document.
func (d *Document) HTML() string {
	var sb strings.Builder
	if err := html.Render(&sb, d.root); err != nil {
		return ""
	}
	return sb.String()
}

// walk visits n and its descendants depth-first until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func findAtom(root *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return false
		}
		return true
	})
	return found
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}
