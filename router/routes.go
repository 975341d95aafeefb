package router

import (
	"time"

	"github.com/dlclark/regexp2"
)

// patternTimeout bounds a single pattern match so a pathological
// expression cannot stall navigation.
const patternTimeout = 50 * time.Millisecond

type route struct {
	pattern string
	handler func()

	compiled bool
	re       *regexp2.Regexp
	err      error
}

// routeTable keeps handlers in registration order with O(1) exact lookup.
type routeTable struct {
	order []*route
	index map[string]*route
}

func newRouteTable() *routeTable {
	return &routeTable{index: make(map[string]*route)}
}

// set registers handler under pattern. Re-registering keeps the original position.
func (t *routeTable) set(pattern string, handler func()) {
	if r, ok := t.index[pattern]; ok {
		r.handler = handler
		return
	}
	r := &route{pattern: pattern, handler: handler}
	t.order = append(t.order, r)
	t.index[pattern] = r
}

func (t *routeTable) exact(path string) (*route, bool) {
	r, ok := t.index[path]
	return r, ok
}

// match returns the first route, in registration order, whose pattern
// matches path as an anchored ECMAScript regular expression. Malformed
// patterns are reported through onBad the first time they are compiled
// and never match.
func (t *routeTable) match(path string, onBad func(pattern string, err error)) (*route, bool) {
	for _, r := range t.order {
		if r.pattern == path {
			continue
		}
		if !r.compiled {
			r.compiled = true
			r.re, r.err = regexp2.Compile("^"+r.pattern+"$", regexp2.ECMAScript)
			if r.err != nil {
				onBad(r.pattern, r.err)
			} else {
				r.re.MatchTimeout = patternTimeout
			}
		}
		if r.re == nil {
			continue
		}
		ok, err := r.re.MatchString(path)
		if err != nil {
			// timeout; treat as no match
			continue
		}
		if ok {
			return r, true
		}
	}
	return nil, false
}

func (t *routeTable) malformed() []string {
	var out []string
	for _, r := range t.order {
		if r.compiled && r.err != nil {
			out = append(out, r.pattern)
		}
	}
	return out
}
