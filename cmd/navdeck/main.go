//go:build js || wasm
// +build js wasm

// Command navdeck is the WebAssembly entry point of the directory page.
package main

import (
	"context"
	"io"
	"net/http"

	"github.com/vcrobe/navdeck/browser"
	"github.com/vcrobe/navdeck/catalog"
	"github.com/vcrobe/navdeck/config"
	"github.com/vcrobe/navdeck/console"
	"github.com/vcrobe/navdeck/internal/app"
	"github.com/vcrobe/navdeck/vdom"
)

func main() {
	win := browser.New()
	ctx := context.Background()

	cfg := loadConfig(ctx, win)

	a, err := app.New(cfg, win)
	if err != nil {
		console.Error("[main] cannot start:", err.Error())
		vdom.RenderToSelector("body", vdom.Paragraph("Navdeck failed to start.", map[string]any{"class": "empty-message"}))
		return
	}
	a.Start(ctx, catalog.HTTPSource{URL: win.ResolveURL(cfg.Catalog.Source)})

	// Keep the Go program running
	select {}
}

// loadConfig uses navdeck.toml next to the page when the server provides
// one, and the embedded defaults otherwise.
func loadConfig(ctx context.Context, win *browser.Window) config.Config {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, win.ResolveURL("/navdeck.toml"), nil)
	if err != nil {
		return config.Default()
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		console.Debug("[main] no remote config:", err.Error())
		return config.Default()
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return config.Default()
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return config.Default()
	}
	cfg, err := config.Parse(string(data))
	if err != nil {
		console.Warn("[main] ignoring remote config:", err.Error())
		return config.Default()
	}
	return cfg
}
