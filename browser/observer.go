//go:build js || wasm
// +build js wasm

package browser

import (
	"syscall/js"

	"github.com/vcrobe/navdeck/dom"
)

// NewIntersectionObserver wraps the native IntersectionObserver. ok is
// false when the browser does not provide one.
func (w *Window) NewIntersectionObserver(callback func([]dom.IntersectionEntry), init dom.ObserverInit) (dom.IntersectionObserver, bool) {
	ctor := w.global.Get("IntersectionObserver")
	if ctor.Type() != js.TypeFunction {
		return nil, false
	}
	o := &observer{}
	o.fn = js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		list := args[0]
		entries := make([]dom.IntersectionEntry, 0, list.Length())
		for i := 0; i < list.Length(); i++ {
			e := list.Index(i)
			entries = append(entries, dom.IntersectionEntry{
				Target:         w.doc.wrap(e.Get("target")),
				IsIntersecting: e.Get("isIntersecting").Bool(),
				Ratio:          e.Get("intersectionRatio").Float(),
			})
		}
		callback(entries)
		return nil
	})
	opts := map[string]any{
		"rootMargin": init.RootMargin,
		"threshold":  init.Threshold,
	}
	o.v = ctor.New(o.fn, opts)
	return o, true
}

type observer struct {
	v  js.Value
	fn js.Func
}

func (o *observer) Observe(el dom.Element) {
	if e, ok := el.(*Element); ok {
		o.v.Call("observe", e.v)
	}
}

func (o *observer) Unobserve(el dom.Element) {
	if e, ok := el.(*Element); ok {
		o.v.Call("unobserve", e.v)
	}
}

// Disconnect stops observation and releases the callback.
func (o *observer) Disconnect() {
	o.v.Call("disconnect")
	o.fn.Release()
}
