// Command navdeck-serve serves the navdeck web root for development and
// simple deployments.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vcrobe/navdeck/catalog"
	"github.com/vcrobe/navdeck/console"
	"github.com/vcrobe/navdeck/internal/server"
)

func main() {
	// Address resolution: NAVDECK_ADDR, then PORT, else :8080
	addr := os.Getenv("NAVDECK_ADDR")
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		}
	}
	if addr == "" {
		addr = ":8080"
	}
	var (
		root       string
		configPath string
	)
	flag.StringVar(&addr, "addr", addr, "HTTP listen address")
	flag.StringVar(&root, "root", "web", "web root holding index.html")
	flag.StringVar(&configPath, "config", "", "optional navdeck.toml served to the client")
	flag.Parse()

	logger, err := server.NewLogger(os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic("logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()
	console.SetLogger(logger.Named("console"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checkCatalog(ctx, logger, root)

	handler, err := server.New(server.Options{Root: root, ConfigPath: configPath, Logger: logger})
	if err != nil {
		logger.Fatal("build handler", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("navdeck-serve listening", zap.String("addr", addr), zap.String("root", root))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("listen", zap.Error(err))
	}
}

// checkCatalog loads the bundled data file so bad data shows up at startup.
func checkCatalog(ctx context.Context, logger *zap.Logger, root string) {
	file := filepath.Join(root, "data", "sites.json")
	sites, err := catalog.FileSource{Path: file}.Sites(ctx)
	if err != nil {
		logger.Warn("catalog check failed", zap.String("file", file), zap.Error(err))
		return
	}
	empty := 0
	for _, sec := range catalog.Group(sites, catalog.DefaultCategories) {
		if len(sec.Sites) == 0 {
			empty++
		}
	}
	logger.Info("catalog loaded", zap.Int("sites", len(sites)), zap.Int("empty_categories", empty))
}
