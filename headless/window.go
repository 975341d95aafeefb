// Package headless is an in-memory browser window: a parsed document,
// a location with a history stack, event dispatch, a simple stacked layout
// and an IntersectionObserver simulation. It satisfies the host interfaces
// of the router and lazyload packages so both run natively.
//
// Like the browser event loop, work queued by observers is only delivered
// when a task ends. Window methods that model user actions (Click, Toggle, ScrollTo,
// Resize, Back, Forward, Input) end with Tick; code driving the window
// directly calls Tick itself.
package headless

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/vcrobe/navdeck/console"
	"github.com/vcrobe/navdeck/dom"
)

// Options configures a Window.
type Options struct {
	// URL is the initial address. Defaults to http://localhost/.
	URL string
	// ViewportHeight in CSS pixels. Defaults to 800.
	ViewportHeight float64
	// RowHeight is the height given to every visible leaf element. Defaults to 100.
	RowHeight float64
	// NoIntersectionObserver makes the window report the capability as missing.
	NoIntersectionObserver bool
	// AutoCompleteLoads completes pending resource loads on every Tick.
	AutoCompleteLoads bool
}

func (o *Options) defaults() {
	if o.URL == "" {
		o.URL = "http://localhost/"
	}
	if o.ViewportHeight <= 0 {
		o.ViewportHeight = 800
	}
	if o.RowHeight <= 0 {
		o.RowHeight = 100
	}
}

// Window is one simulated browser tab.
type Window struct {
	opts Options
	doc  *Document

	history []*url.URL
	index   int

	scrollY   float64
	observers []*observer
	nextKey   uint64

	popState   listenerSet[func()]
	hashChange listenerSet[func()]
	resize     listenerSet[func()]
	scroll     listenerSet[func()]
	linkClick  listenerSet[func(dom.LinkClick) bool]

	// FullLoads records navigations the app did not intercept.
	FullLoads []string
	// Opened records links followed into a new browsing context.
	Opened []string
}

// New parses markup into a Window.
func New(markup string, opts Options) (*Window, error) {
	opts.defaults()
	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("headless: parse url: %w", err)
	}
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("headless: parse document: %w", err)
	}
	w := &Window{opts: opts, history: []*url.URL{u}}
	w.doc = newDocument(w, root)
	w.layout()
	return w, nil
}

// Document returns the window's document.
func (w *Window) Document() dom.Document { return w.doc }

// Doc returns the concrete document for inspection in tests and tools.
func (w *Window) Doc() *Document { return w.doc }

func (w *Window) location() *url.URL { return w.history[w.index] }

// URL returns the current address.
func (w *Window) URL() string { return w.location().String() }

// Pathname returns location.pathname.
func (w *Window) Pathname() string {
	p := w.location().Path
	if p == "" {
		return "/"
	}
	return p
}

// Hash returns location.hash.
func (w *Window) Hash() string {
	if f := w.location().Fragment; f != "" {
		return "#" + f
	}
	return ""
}

// HistoryLen returns the number of entries in the session history.
func (w *Window) HistoryLen() int { return len(w.history) }

func (w *Window) resolve(ref string) (*url.URL, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	return w.location().ResolveReference(r), nil
}

func (w *Window) push(u *url.URL) {
	w.history = append(w.history[:w.index+1], u)
	w.index = len(w.history) - 1
}

// PushState adds a history entry without firing popstate.
func (w *Window) PushState(ref string) {
	u, err := w.resolve(ref)
	if err != nil {
		console.Warn("[headless.Window.PushState] bad url", ref, err.Error())
		return
	}
	w.push(u)
}

// ReplaceState rewrites the current history entry.
func (w *Window) ReplaceState(ref string) {
	u, err := w.resolve(ref)
	if err != nil {
		console.Warn("[headless.Window.ReplaceState] bad url", ref, err.Error())
		return
	}
	w.history[w.index] = u
}

// SetHash assigns location.hash, pushing an entry and firing hashchange
// when the fragment changes.
func (w *Window) SetHash(hash string) {
	frag := strings.TrimPrefix(hash, "#")
	cur := w.location()
	if cur.Fragment == frag {
		return
	}
	next := *cur
	next.Fragment = frag
	next.RawFragment = ""
	w.push(&next)
	w.hashChange.each(func(fn func()) { fn() })
}

// Back moves one entry back in history, firing popstate (and hashchange
// when only the fragment differs).
func (w *Window) Back() {
	w.traverse(-1)
}

// Forward moves one entry forward in history.
func (w *Window) Forward() {
	w.traverse(1)
}

func (w *Window) traverse(delta int) {
	target := w.index + delta
	if target < 0 || target >= len(w.history) {
		return
	}
	from := w.location()
	w.index = target
	to := w.location()

	w.popState.each(func(fn func()) { fn() })
	if from.Fragment != to.Fragment {
		w.hashChange.each(func(fn func()) { fn() })
	}
	w.Tick()
}

func (w *Window) OnPopState(fn func()) (release func()) { return w.popState.add(fn) }

func (w *Window) OnHashChange(fn func()) (release func()) { return w.hashChange.add(fn) }

func (w *Window) OnResize(fn func()) (release func()) { return w.resize.add(fn) }

func (w *Window) OnScroll(fn func()) (release func()) { return w.scroll.add(fn) }

func (w *Window) OnLinkClick(fn func(dom.LinkClick) bool) (release func()) {
	return w.linkClick.add(fn)
}

// Click activates el: element listeners run first (bubbling), then link
// interception, then the default action when nothing prevented it.
func (w *Window) Click(el dom.Element) {
	e, ok := el.(*Element)
	if !ok {
		return
	}
	ev := dom.NewEvent("click", "", nil)
	e.dispatch(ev)

	anchorEl, isLink := e.Closest("a")
	if isLink {
		a := anchorEl.(*Element)
		href, hasHref := a.Attr("href")
		target, _ := a.Attr("target")
		click := dom.LinkClick{Href: href, HasHref: hasHref, Target: target}
		w.linkClick.each(func(fn func(dom.LinkClick) bool) {
			if fn(click) {
				ev.PreventDefault()
			}
		})
		if !ev.DefaultPrevented() && hasHref {
			w.follow(href, target)
		}
	}
	w.Tick()
}

// follow performs a link's default action.
func (w *Window) follow(href, target string) {
	href = strings.TrimSpace(href)
	switch {
	case strings.HasPrefix(strings.ToLower(href), "javascript:"):
		return
	case target != "" && target != "_self":
		w.Opened = append(w.Opened, href)
	case strings.HasPrefix(href, "#"):
		w.SetHash(href)
	default:
		u, err := w.resolve(href)
		if err != nil {
			return
		}
		w.FullLoads = append(w.FullLoads, u.String())
		w.push(u)
	}
}

// Input sets el's value and fires an input event.
func (w *Window) Input(el dom.Element, value string) {
	e, ok := el.(*Element)
	if !ok {
		return
	}
	e.SetAttr("value", value)
	e.dispatch(dom.NewEvent("input", value, nil))
	w.Tick()
}

// Toggle sets el's checked state and fires a change event.
func (w *Window) Toggle(el dom.Element, checked bool) {
	e, ok := el.(*Element)
	if !ok {
		return
	}
	if checked {
		e.SetAttr("checked", "")
	} else {
		e.RemoveAttr("checked")
	}
	ev := dom.NewEvent("change", attr(e.node, "value"), nil)
	ev.Checked = checked
	e.dispatch(ev)
	w.Tick()
}

// ScrollTo moves the viewport's top edge to y. A change fires scroll.
func (w *Window) ScrollTo(y float64) {
	if y < 0 {
		y = 0
	}
	if y != w.scrollY {
		w.scrollY = y
		w.scroll.each(func(fn func()) { fn() })
	}
	w.Tick()
}

// ScrollY returns the current scroll offset.
func (w *Window) ScrollY() float64 { return w.scrollY }

// Resize changes the viewport height and fires resize.
func (w *Window) Resize(height float64) {
	if height > 0 {
		w.opts.ViewportHeight = height
	}
	w.resize.each(func(fn func()) { fn() })
	w.Tick()
}

// ViewportHeight returns the current viewport height.
func (w *Window) ViewportHeight() float64 { return w.opts.ViewportHeight }

// Tick ends the current task: layout is recomputed, pending loads complete
// when AutoCompleteLoads is set, and intersection entries are delivered.
func (w *Window) Tick() {
	w.layout()
	if w.opts.AutoCompleteLoads {
		w.CompleteLoads()
	}
	for _, o := range append([]*observer(nil), w.observers...) {
		o.update()
	}
}

// CompleteLoads fires the load callbacks of every element with a pending source.
func (w *Window) CompleteLoads() int {
	var pending []*Element
	for _, el := range w.doc.elements {
		if el.PendingLoad() {
			pending = append(pending, el)
		}
	}
	for _, el := range pending {
		el.CompleteLoad()
	}
	return len(pending)
}

type listenerSet[F any] struct {
	next int
	ids  []int
	fns  []F
}

func (s *listenerSet[F]) add(fn F) func() {
	s.next++
	id := s.next
	s.ids = append(s.ids, id)
	s.fns = append(s.fns, fn)
	return func() {
		for i, x := range s.ids {
			if x == id {
				s.ids = append(s.ids[:i], s.ids[i+1:]...)
				s.fns = append(s.fns[:i], s.fns[i+1:]...)
				return
			}
		}
	}
}

func (s *listenerSet[F]) each(call func(F)) {
	for _, fn := range append([]F(nil), s.fns...) {
		call(fn)
	}
}

// Listeners reports how many popstate, hashchange, resize and link-click
// listeners are attached.
func (w *Window) Listeners() (popState, hashChange, resize, linkClick int) {
	return len(w.popState.fns), len(w.hashChange.fns), len(w.resize.fns), len(w.linkClick.fns)
}
