//go:build !wasm && !dev
// +build !wasm,!dev

package router_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vcrobe/navdeck/router"
)

func TestRouter_HandlerPanicIsRecovered(t *testing.T) {
	win := newWindow(t, "http://localhost/")
	r := newRouter(t, win, router.Config{})
	rec := newRecorder(r)
	r.Add("/boom", func() { panic("handler failure") })
	r.Init()

	assert.NotPanics(t, func() { r.Navigate("/boom") })
	assert.Equal(t, "/boom", rec.last().Current, "the change is still announced")
}
