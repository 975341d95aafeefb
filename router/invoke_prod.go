//go:build !dev
// +build !dev

package router

import (
	"fmt"

	"github.com/vcrobe/navdeck/console"
)

// invoke runs a route handler in production mode.
// Panics are recovered and logged so navigation keeps working.
func invoke(handler func(), name string) {
	defer func() {
		if rec := recover(); rec != nil {
			console.Error(fmt.Sprintf("[Router] handler for %s panicked: %v", name, rec))
		}
	}()
	handler()
}

// reportMalformed is silent in production builds; see MalformedPatterns.
func reportMalformed(pattern string, err error) {
	console.Debug("[Router] skipping malformed route pattern", pattern, err.Error())
}
