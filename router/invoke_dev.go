//go:build dev
// +build dev

package router

import "github.com/vcrobe/navdeck/console"

// invoke runs a route handler in development mode.
// In dev mode, panics propagate to aid debugging and fast failure.
func invoke(handler func(), name string) {
	handler()
}

// reportMalformed surfaces a route pattern that failed to compile.
// Dev builds warn so authoring mistakes are visible.
func reportMalformed(pattern string, err error) {
	console.Warn("[Router] route pattern", pattern, "is not a valid regular expression and will never match:", err.Error())
}
