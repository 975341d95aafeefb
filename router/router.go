package router

import (
	"net/url"
	"strings"
	"sync"

	"github.com/vcrobe/navdeck/console"
	"github.com/vcrobe/navdeck/dom"
	"github.com/vcrobe/navdeck/events"
)

// Router resolves the current location to a registered handler and
// announces every resolution on a typed bus.
//
// Handlers may navigate again from inside a handler; no lock is held while
// handlers or subscribers run.
type Router struct {
	mu       sync.Mutex
	cfg      Config
	host     Host
	routes   *routeTable
	notFound func()
	state    RouteState
	changes  *events.Bus[RouteChange]

	initialized bool
	releases    []func()
}

// New creates a Router. Routes are added with Add before Init.
func New(cfg Config, host Host) (*Router, error) {
	if cfg.Mode == "" {
		cfg.Mode = HistoryMode
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Router{
		cfg:     cfg,
		host:    host,
		routes:  newRouteTable(),
		changes: events.NewBus[RouteChange](),
	}, nil
}

// Config returns the construction-time configuration.
func (r *Router) Config() Config {
	return r.cfg
}

// Add registers handler under pattern and returns r for chaining.
// The pattern is matched literally first, then as an anchored regular
// expression. It is not validated here.
func (r *Router) Add(pattern string, handler func()) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes.set(pattern, handler)
	return r
}

// NotFound registers the handler invoked when no pattern matches.
func (r *Router) NotFound(handler func()) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notFound = handler
	return r
}

// Subscribe registers fn for navigation-change notifications.
func (r *Router) Subscribe(fn func(RouteChange)) (unsubscribe func()) {
	return r.changes.Subscribe(fn)
}

// Init wires the platform navigation listeners and resolves the current path once.
func (r *Router) Init() {
	r.mu.Lock()
	if r.initialized {
		r.mu.Unlock()
		console.Warn("[Router.Init] already initialized")
		return
	}
	r.initialized = true
	r.mu.Unlock()

	console.Log("[Router.Init] mode:", string(r.cfg.Mode), "base path:", r.cfg.BasePath)

	if r.cfg.Mode == HistoryMode {
		r.releases = append(r.releases,
			r.host.OnLinkClick(r.handleLinkClick),
			r.host.OnPopState(func() {
				console.Log("[Router] popstate event fired")
				r.HandleRouteChange()
			}),
		)
	} else {
		r.releases = append(r.releases, r.host.OnHashChange(func() {
			console.Log("[Router] hashchange event fired")
			r.HandleRouteChange()
		}))
	}

	r.HandleRouteChange()
}

func (r *Router) handleLinkClick(c dom.LinkClick) bool {
	if !ShouldIntercept(c) {
		return false
	}
	r.Navigate(r.resolveHref(c.Href))
	return true
}

// resolveHref turns a relative href into an app path against the current path.
func (r *Router) resolveHref(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "/") {
		return href
	}
	base, err := url.Parse(r.CurrentPath())
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).RequestURI()
}

// Navigate moves to path, adding a history entry in HistoryMode.
// It is a no-op when path is already the current path.
func (r *Router) Navigate(path string) {
	r.navigate(path, false)
}

// Replace moves to path, replacing the current history entry in HistoryMode.
func (r *Router) Replace(path string) {
	r.navigate(path, true)
}

func (r *Router) navigate(path string, replace bool) {
	if r.CurrentPath() == path {
		console.Debug("[Router.Navigate] already at", path)
		return
	}

	if r.cfg.Mode == HashMode {
		console.Log("[Router.Navigate] setting hash:", path)
		r.host.SetHash("#" + path)
		return
	}

	fullPath := r.cfg.BasePath + path
	if replace {
		console.Log("[Router.Navigate] replaceState:", fullPath)
		r.host.ReplaceState(fullPath)
	} else {
		console.Log("[Router.Navigate] pushState:", fullPath)
		r.host.PushState(fullPath)
	}
	r.HandleRouteChange()
}

// CurrentPath returns the app path the location currently points at.
func (r *Router) CurrentPath() string {
	if r.cfg.Mode == HashMode {
		hash := strings.TrimPrefix(r.host.Hash(), "#")
		if hash == "" {
			return "/"
		}
		return hash
	}

	p := r.host.Pathname()
	if base := r.cfg.BasePath; base != "" {
		if p == base {
			p = ""
		} else if strings.HasPrefix(p, base+"/") {
			p = strings.TrimPrefix(p, base)
		}
	}
	if p == "" {
		return "/"
	}
	return p
}

// State returns a snapshot of the resolved paths.
func (r *Router) State() RouteState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// MalformedPatterns lists patterns that failed to compile so far.
func (r *Router) MalformedPatterns() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.routes.malformed()
}

// HandleRouteChange resolves the current path: exact match first, then the
// registered patterns in order, then the not-found handler. A change
// notification is published afterwards whether or not anything matched.
func (r *Router) HandleRouteChange() {
	path := r.CurrentPath()

	r.mu.Lock()
	r.state = RouteState{
		Current:     path,
		Previous:    r.state.Current,
		HasCurrent:  true,
		HasPrevious: r.state.HasCurrent,
	}

	var handler func()
	name := path
	if rt, ok := r.routes.exact(path); ok {
		handler = rt.handler
	} else if rt, ok := r.routes.match(path, reportMalformed); ok {
		handler = rt.handler
		name = rt.pattern
	} else if r.notFound != nil {
		handler = r.notFound
		name = "<not found>"
	}
	r.mu.Unlock()

	if handler != nil {
		console.Debug("[Router.HandleRouteChange]", path, "->", name)
		invoke(handler, name)
	} else {
		console.Debug("[Router.HandleRouteChange] no handler for", path)
	}

	r.changes.Publish(RouteChange(r.State()))
}

// Close detaches the platform listeners registered by Init.
func (r *Router) Close() {
	r.mu.Lock()
	releases := r.releases
	r.releases = nil
	r.mu.Unlock()

	for _, release := range releases {
		if release != nil {
			release()
		}
	}
	console.Log("[Router] listeners released")
}
