// Package server serves the navdeck web root: static files, the wasm
// bundle and an index.html fallback so history-mode URLs survive a reload.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vcrobe/navdeck/config"
)

// Options configures the handler.
type Options struct {
	// Root is the web root holding index.html.
	Root string
	// ConfigPath optionally points at a navdeck.toml served to the client.
	ConfigPath string
	Logger     *zap.Logger
}

// New validates the web root and returns the HTTP handler.
func New(opts Options) (http.Handler, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	index := filepath.Join(opts.Root, "index.html")
	if _, err := os.Stat(index); err != nil {
		return nil, fmt.Errorf("server: web root: %w", err)
	}

	var configTOML []byte
	if opts.ConfigPath != "" {
		data, err := os.ReadFile(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("server: read config: %w", err)
		}
		if _, err := config.Parse(string(data)); err != nil {
			return nil, err
		}
		configTOML = data
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/navdeck.toml", func(w http.ResponseWriter, r *http.Request) {
		if configTOML == nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/toml; charset=utf-8")
		_, _ = w.Write(configTOML)
	})

	for _, dir := range []string{"data", "assets", "icons"} {
		prefix := "/" + dir + "/"
		r.Handle(prefix+"*", http.StripPrefix(prefix, noDirListing(http.FileServer(http.Dir(filepath.Join(opts.Root, dir))))))
	}

	r.NotFound(spaFallback(opts.Root, index))
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})
	return r, nil
}

// spaFallback serves files that exist under root and index.html for any
// other extension-less GET, so the client router can resolve the path.
func spaFallback(root, index string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		clean := path.Clean("/" + r.URL.Path)
		file := filepath.Join(root, filepath.FromSlash(clean))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			serveFile(w, r, file)
			return
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if path.Ext(clean) != "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, index)
	}
}

func serveFile(w http.ResponseWriter, r *http.Request, file string) {
	if strings.HasSuffix(file, ".wasm") {
		w.Header().Set("Content-Type", "application/wasm")
	}
	http.ServeFile(w, r, file)
}

// noDirListing hides directory indexes.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
