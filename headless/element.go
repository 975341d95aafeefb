package headless

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/vcrobe/navdeck/dom"
	"github.com/vcrobe/navdeck/vdom"
)

// Compile-time assertion to ensure Element implements dom.Element.
var _ dom.Element = (*Element)(nil)

// Element wraps one *html.Node. Handles are cached per node, so the same
// node always yields the same *Element.
type Element struct {
	doc  *Document
	node *html.Node
	key  uint64

	listeners map[string][]*listener
	onLoad    []func()

	// layout, assigned by Window.layout
	top, height float64
	laidOut     bool
}

type listener struct {
	fn func(*dom.Event)
}

// Node exposes the underlying html node.
func (e *Element) Node() *html.Node { return e.node }

func (e *Element) Key() uint64 { return e.key }

func (e *Element) TagName() string { return strings.ToLower(e.node.Data) }

func (e *Element) Attr(name string) (string, bool) {
	return lookupAttr(e.node, name)
}

func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

func (e *Element) RemoveAttr(name string) {
	attrs := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		attrs = append(attrs, a)
	}
	e.node.Attr = attrs
}

func (e *Element) classes() []string {
	return strings.Fields(attr(e.node, "class"))
}

func (e *Element) HasClass(name string) bool {
	for _, c := range e.classes() {
		if c == name {
			return true
		}
	}
	return false
}

func (e *Element) AddClass(name string) {
	if e.HasClass(name) {
		return
	}
	e.SetAttr("class", strings.TrimSpace(strings.Join(append(e.classes(), name), " ")))
}

func (e *Element) RemoveClass(name string) {
	var kept []string
	for _, c := range e.classes() {
		if c != name {
			kept = append(kept, c)
		}
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

func (e *Element) Style(property string) string {
	property = strings.ToLower(strings.TrimSpace(property))
	for _, d := range parseStyle(attr(e.node, "style")) {
		if d.Property == property {
			return d.Value
		}
	}
	return ""
}

// SetStyle sets one inline declaration; an empty value removes it.
func (e *Element) SetStyle(property, value string) {
	decls := setDeclaration(parseStyle(attr(e.node, "style")), property, value)
	if len(decls) == 0 {
		e.RemoveAttr("style")
		return
	}
	e.SetAttr("style", formatStyle(decls))
}

func (e *Element) Text() string { return textOf(e.node) }

func (e *Element) QueryAll(selector string) []dom.Element {
	return e.doc.queryAll(e.node, selector)
}

func (e *Element) Closest(selector string) (dom.Element, bool) {
	sel, ok := e.doc.compile(selector)
	if !ok {
		return nil, false
	}
	for n := e.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && sel.Match(n) {
			return e.doc.wrap(n), true
		}
	}
	return nil, false
}

// ReplaceChildren swaps the children for the rendered nodes. Click
// handlers carried by the nodes become click listeners.
func (e *Element) ReplaceChildren(nodes ...*vdom.VNode) {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
	for _, n := range nodes {
		hn := vdom.ToHTML(n)
		if hn == nil {
			continue
		}
		e.node.AppendChild(hn)
		e.doc.bindClicks(n, hn)
	}
}

// bindClicks walks a VNode and the html tree built from it in parallel.
func (d *Document) bindClicks(v *vdom.VNode, n *html.Node) {
	if v == nil || n == nil || v.IsText() {
		return
	}
	if v.OnClick != nil {
		onClick := v.OnClick
		d.wrap(n).Listen("click", func(*dom.Event) { onClick() })
	}
	c := n.FirstChild
	if v.Content != "" && v.Tag != "input" && v.Tag != "textarea" && c != nil {
		c = c.NextSibling
	}
	for _, child := range v.Children {
		if c == nil {
			return
		}
		d.bindClicks(child, c)
		c = c.NextSibling
	}
}

func (e *Element) Listen(event string, fn func(*dom.Event)) (release func()) {
	if e.listeners == nil {
		e.listeners = make(map[string][]*listener)
	}
	l := &listener{fn: fn}
	e.listeners[event] = append(e.listeners[event], l)
	return func() {
		ls := e.listeners[event]
		for i, x := range ls {
			if x == l {
				e.listeners[event] = append(ls[:i], ls[i+1:]...)
				return
			}
		}
	}
}

// dispatch delivers ev to this element's listeners and bubbles it up.
func (e *Element) dispatch(ev *dom.Event) {
	for n := e.node; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		el, ok := e.doc.elements[n]
		if !ok {
			continue
		}
		for _, l := range append([]*listener(nil), el.listeners[ev.Type]...) {
			l.fn(ev)
		}
	}
}

func (e *Element) OnLoad(fn func()) {
	e.onLoad = append(e.onLoad, fn)
}

// PendingLoad reports whether a load callback is waiting and a source is set.
func (e *Element) PendingLoad() bool {
	if len(e.onLoad) == 0 {
		return false
	}
	if _, ok := e.Attr("src"); ok {
		return true
	}
	_, ok := e.Attr("srcset")
	return ok
}

// CompleteLoad fires the pending load callbacks, as the browser does when
// the resource arrives.
func (e *Element) CompleteLoad() {
	callbacks := e.onLoad
	e.onLoad = nil
	for _, fn := range callbacks {
		fn()
	}
}

// Hidden reports whether the element or an ancestor is display:none or
// carries the hidden attribute.
func (e *Element) Hidden() bool {
	for n := e.node; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if _, ok := lookupAttr(n, "hidden"); ok {
			return true
		}
		for _, d := range parseStyle(attr(n, "style")) {
			if d.Property == "display" && strings.EqualFold(d.Value, "none") {
				return true
			}
		}
	}
	return false
}

// Rect returns the layout box assigned by the last layout pass.
func (e *Element) Rect() (top, height float64, ok bool) {
	return e.top, e.height, e.laidOut
}
