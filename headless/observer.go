package headless

import (
	"fmt"
	"sort"

	"github.com/vcrobe/navdeck/dom"
	"github.com/vcrobe/navdeck/lazyload"
)

// NewIntersectionObserver creates a simulated observer. It reports ok=false
// when the window was built with NoIntersectionObserver.
func (w *Window) NewIntersectionObserver(callback func([]dom.IntersectionEntry), init dom.ObserverInit) (dom.IntersectionObserver, bool) {
	if w.opts.NoIntersectionObserver {
		return nil, false
	}
	margin, err := lazyload.ParseMargin(init.RootMargin)
	if err != nil {
		// The browser throws a SyntaxError here.
		panic(fmt.Sprintf("headless: rootMargin: %v", err))
	}
	o := &observer{
		win:       w,
		callback:  callback,
		threshold: init.Threshold,
		margin:    margin,
		targets:   make(map[uint64]*target),
	}
	w.observers = append(w.observers, o)
	return o, true
}

type target struct {
	el    *Element
	order int
	// previous threshold index and intersecting state; -1 forces the
	// initial report
	prevIndex        int
	prevIntersecting bool
}

type observer struct {
	win       *Window
	callback  func([]dom.IntersectionEntry)
	threshold float64
	margin    lazyload.Margin

	targets map[uint64]*target
	seq     int
}

func (o *observer) Observe(el dom.Element) {
	e, ok := el.(*Element)
	if !ok {
		return
	}
	if _, exists := o.targets[e.key]; exists {
		return
	}
	o.seq++
	o.targets[e.key] = &target{el: e, order: o.seq, prevIndex: -1}
}

func (o *observer) Unobserve(el dom.Element) {
	delete(o.targets, el.Key())
}

func (o *observer) Disconnect() {
	o.targets = make(map[uint64]*target)
}

// Observed reports how many targets are being watched.
func (o *observer) Observed() int { return len(o.targets) }

// update computes intersections and delivers one batch for the targets whose
// threshold index or intersecting state changed, in observation order.
func (o *observer) update() {
	if len(o.targets) == 0 {
		return
	}
	top, bottom := verticalMargins(o.margin, o.win.opts.ViewportHeight)
	rootTop := o.win.scrollY - top
	rootBottom := o.win.scrollY + o.win.opts.ViewportHeight + bottom

	ordered := make([]*target, 0, len(o.targets))
	for _, t := range o.targets {
		ordered = append(ordered, t)
	}
	sortTargets(ordered)

	var batch []dom.IntersectionEntry
	for _, t := range ordered {
		intersecting, ratio := o.intersect(t.el, rootTop, rootBottom)
		index := 0
		if intersecting && ratio >= o.threshold {
			index = 1
		}
		if index == t.prevIndex && intersecting == t.prevIntersecting {
			continue
		}
		t.prevIndex, t.prevIntersecting = index, intersecting
		batch = append(batch, dom.IntersectionEntry{Target: t.el, IsIntersecting: intersecting, Ratio: ratio})
	}
	if len(batch) > 0 {
		o.callback(batch)
	}
}

func (o *observer) intersect(el *Element, rootTop, rootBottom float64) (bool, float64) {
	top, height, ok := el.Rect()
	if !ok {
		return false, 0
	}
	bottom := top + height
	// edge-adjacent counts as intersecting
	if bottom < rootTop || top > rootBottom {
		return false, 0
	}
	if height == 0 {
		return true, 1
	}
	visible := minf(bottom, rootBottom) - maxf(top, rootTop)
	if visible < 0 {
		visible = 0
	}
	return true, visible / height
}

func sortTargets(ts []*target) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].order < ts[j].order })
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// verticalMargins resolves the top and bottom margin components.
// Percentages are of the viewport height and follow it on resize.
func verticalMargins(m lazyload.Margin, viewport float64) (top, bottom float64) {
	return resolveLength(m.Top, viewport), resolveLength(m.Bottom, viewport)
}

func resolveLength(l lazyload.Length, viewport float64) float64 {
	if l.Percent {
		return l.Value / 100 * viewport
	}
	return l.Value
}
