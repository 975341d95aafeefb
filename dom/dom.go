// Package dom declares the host-neutral view of the page that the router,
// the lazy loader and the app orchestrator program against. The browser
// package implements it on top of syscall/js; the headless package
// implements it in memory for tests and native tooling.
package dom

import "github.com/vcrobe/navdeck/vdom"

// Element is a handle to one element of the page.
type Element interface {
	// Key is a stable identity for bookkeeping. Two handles to the same
	// element return the same key.
	Key() uint64
	// TagName returns the lower-case tag name.
	TagName() string

	Attr(name string) (string, bool)
	SetAttr(name, value string)
	RemoveAttr(name string)

	HasClass(name string) bool
	AddClass(name string)
	RemoveClass(name string)

	Style(property string) string
	SetStyle(property, value string)

	// Text returns the concatenated text content.
	Text() string

	// QueryAll returns descendants matching a CSS selector, in document order.
	QueryAll(selector string) []Element
	// Closest returns the nearest inclusive ancestor matching selector.
	Closest(selector string) (Element, bool)

	// ReplaceChildren renders nodes and swaps them in for the current children.
	ReplaceChildren(nodes ...*vdom.VNode)

	// Listen subscribes to a DOM event on this element.
	Listen(event string, fn func(*Event)) (release func())
	// OnLoad runs fn once when the element's resource has finished loading.
	OnLoad(fn func())
}

// Document is the page's document.
type Document interface {
	QueryAll(selector string) []Element
	ByID(id string) (Element, bool)
	Body() Element
	Title() string
	SetTitle(title string)
}

// Event is the payload passed to Listen callbacks.
type Event struct {
	Type string
	// Value is the target's current value for input events.
	Value string
	// Checked is the target's checked state for checkbox change events.
	Checked bool

	prevented bool
	prevent   func()
}

// NewEvent builds an Event. prevent, when non-nil, is called by PreventDefault.
func NewEvent(typ, value string, prevent func()) *Event {
	return &Event{Type: typ, Value: value, prevent: prevent}
}

// PreventDefault cancels the host's default action.
func (e *Event) PreventDefault() {
	if e.prevented {
		return
	}
	e.prevented = true
	if e.prevent != nil {
		e.prevent()
	}
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.prevented
}

// LinkClick describes an activation on an anchor element.
type LinkClick struct {
	Href    string
	HasHref bool
	Target  string
}
