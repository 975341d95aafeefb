//go:build js || wasm
// +build js wasm

package vdom

import (
	"syscall/js"

	"github.com/vcrobe/navdeck/console"
)

// RenderToSelector mounts the VNode under the first element matching the CSS selector.
func RenderToSelector(selector string, n *VNode) {
	if n == nil || selector == "" {
		return
	}
	doc := js.Global().Get("document")
	if !doc.Truthy() {
		return
	}
	mount := doc.Call("querySelector", selector)
	if !mount.Truthy() {
		console.Error("Mount element not found for selector:", selector)
		return
	}
	RenderTo(mount, n)
}

// RenderTo appends the rendered node to a specific mount element.
func RenderTo(mount js.Value, n *VNode) {
	if n == nil {
		return
	}
	el := CreateElement(n)
	if el.Truthy() {
		mount.Call("appendChild", el)
	}
}

// CreateElement builds the live DOM subtree for n.
// Click handlers stay registered for the lifetime of the element.
func CreateElement(n *VNode) js.Value {
	doc := js.Global().Get("document")
	if !doc.Truthy() || n == nil {
		return js.Undefined()
	}

	if n.IsText() {
		return doc.Call("createTextNode", n.Content)
	}

	el := doc.Call("createElement", n.Tag)
	for _, a := range n.SortedAttrs() {
		el.Call("setAttribute", a.Name, a.Value)
	}

	if n.Content != "" {
		if n.Tag == "input" || n.Tag == "textarea" {
			el.Set("value", n.Content)
		} else {
			el.Call("appendChild", doc.Call("createTextNode", n.Content))
		}
	}
	for _, child := range n.Children {
		childEl := CreateElement(child)
		if childEl.Truthy() {
			el.Call("appendChild", childEl)
		}
	}

	if n.OnClick != nil {
		onClick := n.OnClick
		cb := js.FuncOf(func(this js.Value, args []js.Value) any {
			onClick()
			return nil
		})
		el.Call("addEventListener", "click", cb)
	}
	return el
}
