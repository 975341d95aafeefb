package router

import (
	"strings"

	"github.com/vcrobe/navdeck/dom"
)

// ShouldIntercept reports whether a link activation stays inside the app.
// Links without an href, absolute and protocol-relative links, pure
// fragment links, javascript: links and links opening another browsing
// context are left to the browser.
func ShouldIntercept(c dom.LinkClick) bool {
	href := strings.TrimSpace(c.Href)
	if !c.HasHref || href == "" {
		return false
	}
	if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "//") {
		return false
	}
	if hasScheme(href) {
		// also covers javascript:
		return false
	}
	switch strings.ToLower(strings.TrimSpace(c.Target)) {
	case "", "_self":
		return true
	default:
		return false
	}
}

// hasScheme reports whether href starts with an RFC 3986 scheme followed by ':'.
func hasScheme(href string) bool {
	for i, c := range href {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		case i > 0 && c == ':':
			return true
		default:
			return false
		}
	}
	return false
}
