//go:build js || wasm
// +build js wasm

package browser

import (
	"fmt"
	"strings"
	"syscall/js"

	"github.com/vcrobe/navdeck/console"
	"github.com/vcrobe/navdeck/dom"
	"github.com/vcrobe/navdeck/vdom"
)

// keyProp is the expando property carrying an element's key.
const keyProp = "__navdeckKey"

// Document wraps window.document.
type Document struct {
	win     *Window
	v       js.Value
	nextKey uint64
}

func (d *Document) wrap(v js.Value) *Element {
	k := v.Get(keyProp)
	if k.Type() != js.TypeNumber {
		d.nextKey++
		v.Set(keyProp, float64(d.nextKey))
		k = v.Get(keyProp)
	}
	return &Element{doc: d, v: v, key: uint64(k.Float())}
}

// queryAll runs querySelectorAll on scope. An invalid selector throws in
// JS and matches nothing here.
func (d *Document) queryAll(scope js.Value, selector string) (out []dom.Element) {
	defer func() {
		if r := recover(); r != nil {
			console.Warn("[browser.Document] invalid selector", selector, fmt.Sprint(r))
			out = nil
		}
	}()
	list := scope.Call("querySelectorAll", selector)
	n := list.Length()
	for i := 0; i < n; i++ {
		out = append(out, d.wrap(list.Index(i)))
	}
	return out
}

func (d *Document) QueryAll(selector string) []dom.Element {
	return d.queryAll(d.v, selector)
}

func (d *Document) ByID(id string) (dom.Element, bool) {
	v := d.v.Call("getElementById", id)
	if !v.Truthy() {
		return nil, false
	}
	return d.wrap(v), true
}

func (d *Document) Body() dom.Element {
	v := d.v.Get("body")
	if !v.Truthy() {
		return nil
	}
	return d.wrap(v)
}

func (d *Document) Title() string { return d.v.Get("title").String() }

func (d *Document) SetTitle(title string) { d.v.Set("title", title) }

// Element wraps a DOM element.
type Element struct {
	doc *Document
	v   js.Value
	key uint64
}

var _ dom.Element = (*Element)(nil)

// Value exposes the underlying js.Value.
func (e *Element) Value() js.Value { return e.v }

func (e *Element) Key() uint64 { return e.key }

func (e *Element) TagName() string { return strings.ToLower(e.v.Get("tagName").String()) }

func (e *Element) Attr(name string) (string, bool) {
	v := e.v.Call("getAttribute", name)
	if v.IsNull() {
		return "", false
	}
	return v.String(), true
}

func (e *Element) SetAttr(name, value string) { e.v.Call("setAttribute", name, value) }

func (e *Element) RemoveAttr(name string) { e.v.Call("removeAttribute", name) }

func (e *Element) HasClass(name string) bool {
	return e.v.Get("classList").Call("contains", name).Bool()
}

func (e *Element) AddClass(name string) { e.v.Get("classList").Call("add", name) }

func (e *Element) RemoveClass(name string) { e.v.Get("classList").Call("remove", name) }

func (e *Element) Style(property string) string {
	return e.v.Get("style").Call("getPropertyValue", property).String()
}

func (e *Element) SetStyle(property, value string) {
	style := e.v.Get("style")
	if value == "" {
		style.Call("removeProperty", property)
		return
	}
	style.Call("setProperty", property, value)
}

func (e *Element) Text() string { return e.v.Get("textContent").String() }

func (e *Element) QueryAll(selector string) []dom.Element {
	return e.doc.queryAll(e.v, selector)
}

func (e *Element) Closest(selector string) (el dom.Element, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			console.Warn("[browser.Element.Closest] invalid selector", selector)
			el, ok = nil, false
		}
	}()
	v := e.v.Call("closest", selector)
	if !v.Truthy() {
		return nil, false
	}
	return e.doc.wrap(v), true
}

func (e *Element) ReplaceChildren(nodes ...*vdom.VNode) {
	args := make([]any, 0, len(nodes))
	for _, n := range nodes {
		if el := vdom.CreateElement(n); el.Truthy() {
			args = append(args, el)
		}
	}
	e.v.Call("replaceChildren", args...)
}

func (e *Element) Listen(event string, fn func(*dom.Event)) (release func()) {
	return e.doc.win.listen(e.v, event, func(ev js.Value) {
		value, checked := "", false
		if t := ev.Get("target"); t.Truthy() {
			if v := t.Get("value"); v.Type() == js.TypeString {
				value = v.String()
			}
			checked = t.Get("checked").Truthy()
		}
		e := dom.NewEvent(event, value, func() { ev.Call("preventDefault") })
		e.Checked = checked
		fn(e)
	})
}

// OnLoad runs fn after the next load event, then releases the listener.
func (e *Element) OnLoad(fn func()) {
	var cb js.Func
	cb = js.FuncOf(func(this js.Value, args []js.Value) any {
		e.v.Call("removeEventListener", "load", cb)
		cb.Release()
		fn()
		return nil
	})
	e.v.Call("addEventListener", "load", cb)
}
