//go:build js || wasm
// +build js wasm

// Package browser implements the dom, router and lazyload host interfaces
// on top of syscall/js.
package browser

import (
	"sync"
	"syscall/js"

	"github.com/vcrobe/navdeck/console"
	"github.com/vcrobe/navdeck/dom"
)

// Window is the browser window the app runs in.
type Window struct {
	global js.Value
	doc    *Document

	mu       sync.Mutex
	releases []func()
}

// New returns the current window.
func New() *Window {
	w := &Window{global: js.Global()}
	w.doc = &Document{win: w, v: w.global.Get("document")}
	return w
}

func (w *Window) Document() dom.Document { return w.doc }

func (w *Window) location() js.Value { return w.global.Get("location") }

func (w *Window) Pathname() string { return w.location().Get("pathname").String() }

func (w *Window) Hash() string { return w.location().Get("hash").String() }

// Href returns location.href.
func (w *Window) Href() string { return w.location().Get("href").String() }

// ResolveURL resolves ref against the current address.
func (w *Window) ResolveURL(ref string) string {
	return w.global.Get("URL").New(ref, w.Href()).Get("href").String()
}

func (w *Window) PushState(url string) {
	w.global.Get("history").Call("pushState", nil, "", url)
}

func (w *Window) ReplaceState(url string) {
	w.global.Get("history").Call("replaceState", nil, "", url)
}

func (w *Window) SetHash(hash string) {
	w.location().Set("hash", hash)
}

func (w *Window) OnPopState(fn func()) (release func()) {
	return w.listen(w.global, "popstate", func(js.Value) { fn() })
}

func (w *Window) OnHashChange(fn func()) (release func()) {
	return w.listen(w.global, "hashchange", func(js.Value) { fn() })
}

func (w *Window) OnResize(fn func()) (release func()) {
	return w.listen(w.global, "resize", func(js.Value) { fn() })
}

func (w *Window) OnScroll(fn func()) (release func()) {
	return w.listen(w.global, "scroll", func(js.Value) { fn() })
}

// ScrollY returns the document's vertical scroll offset.
func (w *Window) ScrollY() float64 { return w.global.Get("scrollY").Float() }

// ScrollTo scrolls smoothly to y.
func (w *Window) ScrollTo(y float64) {
	w.global.Call("scrollTo", map[string]any{"top": y, "behavior": "smooth"})
}

// OnLinkClick listens for clicks on anchors anywhere in the document.
// Clicks with a modifier key or a non-primary button are left to the browser.
func (w *Window) OnLinkClick(fn func(dom.LinkClick) bool) (release func()) {
	return w.listen(w.doc.v, "click", func(ev js.Value) {
		if ev.Get("defaultPrevented").Bool() || modified(ev) {
			return
		}
		target := ev.Get("target")
		if !target.Truthy() || target.Get("closest").Type() != js.TypeFunction {
			return
		}
		a := target.Call("closest", "a")
		if !a.Truthy() {
			return
		}
		href := a.Call("getAttribute", "href")
		click := dom.LinkClick{HasHref: !href.IsNull()}
		if click.HasHref {
			click.Href = href.String()
		}
		if t := a.Call("getAttribute", "target"); !t.IsNull() {
			click.Target = t.String()
		}
		if fn(click) {
			ev.Call("preventDefault")
		}
	})
}

func modified(ev js.Value) bool {
	if b := ev.Get("button"); b.Type() == js.TypeNumber && b.Int() != 0 {
		return true
	}
	for _, k := range []string{"ctrlKey", "metaKey", "shiftKey", "altKey"} {
		if ev.Get(k).Truthy() {
			return true
		}
	}
	return false
}

// listen registers a js.FuncOf listener and returns its release func.
func (w *Window) listen(target js.Value, event string, fn func(js.Value)) func() {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := js.Undefined()
		if len(args) > 0 {
			ev = args[0]
		}
		fn(ev)
		return nil
	})
	target.Call("addEventListener", event, cb)

	var once sync.Once
	release := func() {
		once.Do(func() {
			target.Call("removeEventListener", event, cb)
			cb.Release()
		})
	}
	w.mu.Lock()
	w.releases = append(w.releases, release)
	w.mu.Unlock()
	return release
}

// Close removes every listener registered through the window.
func (w *Window) Close() {
	w.mu.Lock()
	releases := w.releases
	w.releases = nil
	w.mu.Unlock()
	for _, release := range releases {
		release()
	}
	console.Log("[browser.Window] listeners released:", len(releases))
}
