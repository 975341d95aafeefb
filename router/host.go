package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vcrobe/navdeck/dom"
)

// ErrInvalidConfig is returned by New for a configuration it cannot honour.
var ErrInvalidConfig = errors.New("router: invalid config")

// Mode selects how the current path is read from, and written to, the address bar.
type Mode string

const (
	// HistoryMode uses clean paths and the History API.
	HistoryMode Mode = "history"
	// HashMode keeps the path in the URL fragment, e.g. /#/ai-tools.
	HashMode Mode = "hash"
)

// ParseMode maps a config string to a Mode. The empty string selects HistoryMode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", HistoryMode:
		return HistoryMode, nil
	case HashMode:
		return HashMode, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
	}
}

// Config is fixed at construction.
type Config struct {
	Mode Mode
	// BasePath is stripped from the location path when resolving and
	// prepended when navigating in HistoryMode. Empty or "/prefix".
	BasePath string
}

// Validate reports whether c can be honoured.
func (c Config) Validate() error {
	switch c.Mode {
	case HistoryMode, HashMode:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	if c.BasePath == "" {
		return nil
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("%w: base path %q must start with /", ErrInvalidConfig, c.BasePath)
	}
	if strings.HasSuffix(c.BasePath, "/") {
		return fmt.Errorf("%w: base path %q must not end with /", ErrInvalidConfig, c.BasePath)
	}
	return nil
}

// Host is the navigation surface of the platform: location, history
// entries and the events that signal a navigation.
type Host interface {
	// Pathname returns location.pathname.
	Pathname() string
	// Hash returns location.hash, including the leading '#', or "".
	Hash() string

	PushState(url string)
	ReplaceState(url string)
	// SetHash assigns location.hash. Hosts fire hashchange when it changes.
	SetHash(hash string)

	OnPopState(fn func()) (release func())
	OnHashChange(fn func()) (release func())
	// OnLinkClick delivers anchor activations. Returning true cancels the
	// browser's default navigation.
	OnLinkClick(fn func(dom.LinkClick) bool) (release func())
}

// RouteState holds the two most recently resolved paths.
type RouteState struct {
	Current     string
	Previous    string
	HasCurrent  bool
	HasPrevious bool
}

// RouteChange is published after every resolution.
type RouteChange RouteState
