package lazyload

import (
	"strings"
	"sync"

	"go.uber.org/atomic"

	"github.com/vcrobe/navdeck/console"
	"github.com/vcrobe/navdeck/dom"
	"github.com/vcrobe/navdeck/events"
)

// Host is what the loader needs from the platform.
type Host interface {
	Document() dom.Document
	dom.ObserverFactory
	OnResize(fn func()) (release func())
}

// Loaded is published after an element has been promoted.
type Loaded struct {
	Element dom.Element
	Kind    TargetKind
}

type state int

const (
	watched state = iota + 1
	loading
)

// Loader defers loading of off-screen images until they approach the viewport.
//
// Each candidate moves unwatched → watched → loading → loaded exactly once.
// LoadedClass on the element is the durable signal; the loader's own
// bookkeeping covers the window between the intersection report and the
// resource's load event.
type Loader struct {
	opts Options
	host Host

	mu       sync.Mutex
	observer dom.IntersectionObserver
	tracked  map[uint64]state

	initialized   atomic.Bool
	eager         atomic.Bool
	destroyed     atomic.Bool
	releaseResize func()

	loaded *events.Bus[Loaded]
}

// New validates opts and returns an uninitialised Loader.
func New(opts Options, host Host) (*Loader, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Loader{
		opts:    opts,
		host:    host,
		tracked: make(map[uint64]state),
		loaded:  events.NewBus[Loaded](),
	}, nil
}

// Options returns the construction-time options.
func (l *Loader) Options() Options {
	return l.opts
}

// Subscribe registers fn to run after each promotion.
func (l *Loader) Subscribe(fn func(Loaded)) (unsubscribe func()) {
	return l.loaded.Subscribe(fn)
}

// Initialized reports whether Init has run and Destroy has not.
func (l *Loader) Initialized() bool {
	return l.initialized.Load()
}

// Init starts watching candidates. Without intersection observation every
// candidate is loaded immediately instead.
func (l *Loader) Init() {
	if l.destroyed.Load() {
		console.Warn("[Loader.Init] loader was destroyed; construct a new one")
		return
	}
	if l.initialized.Load() {
		console.Warn("[Loader.Init] already initialized")
		return
	}

	obs, ok := l.host.NewIntersectionObserver(l.onIntersection, dom.ObserverInit{
		RootMargin: l.opts.RootMargin,
		Threshold:  l.opts.Threshold,
	})
	if !ok {
		console.Log("[Loader.Init] IntersectionObserver unavailable, loading all candidates")
		l.eager.Store(true)
		l.initialized.Store(true)
		l.loadAll()
		return
	}

	l.mu.Lock()
	l.observer = obs
	l.mu.Unlock()

	l.Observe()
	l.initialized.Store(true)
	l.releaseResize = l.host.OnResize(l.handleResize)
	console.Log("[Loader.Init] watching", l.Pending(), "candidates")
}

// candidates returns the elements matching Selector that are not loaded yet.
func (l *Loader) candidates() []candidate {
	var out []candidate
	for _, el := range l.host.Document().QueryAll(l.opts.Selector) {
		if el.HasClass(l.opts.LoadedClass) {
			continue
		}
		out = append(out, candidate{el: el, kind: Classify(el)})
	}
	return out
}

// Observe scans for candidates and watches every one not already tracked.
// Calling it repeatedly never watches an element twice.
func (l *Loader) Observe() {
	if l.destroyed.Load() {
		return
	}
	l.mu.Lock()
	obs := l.observer
	l.mu.Unlock()
	if obs == nil {
		return
	}

	added := 0
	for _, c := range l.candidates() {
		key := c.el.Key()
		l.mu.Lock()
		_, known := l.tracked[key]
		if !known {
			l.tracked[key] = watched
		}
		l.mu.Unlock()
		if known {
			continue
		}
		obs.Observe(c.el)
		added++
	}
	if added > 0 {
		console.Debug("[Loader.Observe] now watching", added, "new candidates")
	}
}

// Refresh re-scans after new content became visible. It does nothing
// before Init or after Destroy. Without intersection observation the new
// candidates are loaded straight away.
func (l *Loader) Refresh() {
	if !l.initialized.Load() {
		return
	}
	if l.eager.Load() {
		l.loadAll()
		return
	}
	l.Observe()
}

func (l *Loader) handleResize() {
	if l.initialized.Load() {
		l.Observe()
	}
}

// onIntersection handles one batch in delivery order.
func (l *Loader) onIntersection(entries []dom.IntersectionEntry) {
	for _, entry := range entries {
		if !entry.IsIntersecting || entry.Ratio < l.opts.Threshold {
			continue
		}
		if !l.claim(entry.Target, true) {
			continue
		}
		l.promote(candidate{el: entry.Target, kind: Classify(entry.Target)}, false)
	}
}

// LoadImage promotes el: deferred sources become live and, once the
// resource has loaded, LoadedClass is added and the data attributes removed.
// An element without deferred sources is left untouched.
func (l *Loader) LoadImage(el dom.Element) {
	if !l.claim(el, false) {
		return
	}
	l.promote(candidate{el: el, kind: Classify(el)}, false)
}

func (l *Loader) loadAll() {
	for _, c := range l.candidates() {
		if l.claim(c.el, false) {
			l.promote(c, true)
		}
	}
}

// claim moves el to loading and stops watching it. It reports false when
// el is already loading, or, with watchedOnly set, when el is not watched.
func (l *Loader) claim(el dom.Element, watchedOnly bool) bool {
	key := el.Key()
	l.mu.Lock()
	st, known := l.tracked[key]
	if st == loading || (watchedOnly && st != watched) {
		l.mu.Unlock()
		return false
	}
	l.tracked[key] = loading
	obs := l.observer
	l.mu.Unlock()

	if known && obs != nil {
		obs.Unobserve(el)
	}
	return true
}

// promote applies a candidate's deferred sources. With immediate set the
// element is marked loaded without waiting for the load event.
func (l *Loader) promote(c candidate, immediate bool) {
	el := c.el
	if el.HasClass(l.opts.LoadedClass) {
		l.forget(el)
		return
	}
	src, srcset := deferredSources(el)
	if src == "" && srcset == "" {
		console.Debug("[Loader.LoadImage] candidate has no", AttrSrc, "; skipping")
		l.forget(el)
		return
	}

	var once sync.Once
	finish := func() {
		once.Do(func() { l.finish(c) })
	}

	switch c.kind {
	case ImageTarget:
		if !immediate {
			el.OnLoad(finish)
		}
		if src != "" {
			el.SetAttr("src", src)
		}
		if srcset != "" {
			el.SetAttr("srcset", srcset)
		}
		if immediate {
			finish()
		}
	case BackgroundTarget:
		if src == "" {
			src = firstCandidate(srcset)
		}
		el.SetStyle("background-image", cssURL(src))
		finish()
	}
}

func (l *Loader) finish(c candidate) {
	c.el.AddClass(l.opts.LoadedClass)
	c.el.RemoveAttr(AttrSrc)
	c.el.RemoveAttr(AttrSrcset)
	l.forget(c.el)
	l.loaded.Publish(Loaded{Element: c.el, Kind: c.kind})
}

func (l *Loader) forget(el dom.Element) {
	l.mu.Lock()
	delete(l.tracked, el.Key())
	l.mu.Unlock()
}

// Pending returns the number of candidates watched or loading.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tracked)
}

// Destroy stops observation and detaches the resize listener. A destroyed
// loader stays inert; build a new one to start again.
func (l *Loader) Destroy() {
	l.destroyed.Store(true)
	l.initialized.Store(false)

	l.mu.Lock()
	obs := l.observer
	l.observer = nil
	l.tracked = make(map[uint64]state)
	release := l.releaseResize
	l.releaseResize = nil
	l.mu.Unlock()

	if obs != nil {
		obs.Disconnect()
	}
	if release != nil {
		release()
	}
	console.Log("[Loader.Destroy] observation stopped")
}

// firstCandidate returns the URL of the first srcset entry. A URL runs up
// to the first whitespace, so commas inside it (data URIs) are kept; a
// trailing comma on a descriptor-less URL ends the candidate.
func firstCandidate(srcset string) string {
	fields := strings.Fields(srcset)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimRight(fields[0], ",")
}

func cssURL(u string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", "", "\r", "")
	return `url("` + r.Replace(u) + `")`
}
