// Package config reads the navdeck TOML configuration. Files are decoded
// over the embedded defaults and unknown keys are rejected.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"

	"github.com/vcrobe/navdeck/lazyload"
	"github.com/vcrobe/navdeck/router"
)

//go:embed navdeck.toml
var defaultTOML []byte

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Router  Router  `toml:"router"`
	Lazy    Lazy    `toml:"lazy"`
	Catalog Catalog `toml:"catalog"`
	Site    Site    `toml:"site"`
}

type Router struct {
	Mode     string `toml:"mode"`
	BasePath string `toml:"base_path"`
}

type Lazy struct {
	Selector    string  `toml:"selector"`
	RootMargin  string  `toml:"root_margin"`
	Threshold   float64 `toml:"threshold"`
	LoadedClass string  `toml:"loaded_class"`
}

type Catalog struct {
	// Source is the URL or path of the sites data file.
	Source     string   `toml:"source"`
	Categories []string `toml:"categories"`
}

type Site struct {
	Locale string `toml:"locale"`
}

// Default returns the embedded configuration.
func Default() Config {
	var c Config
	if _, err := toml.Decode(string(defaultTOML), &c); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return c
}

// Parse decodes data over the defaults and validates the result.
func Parse(data string) (Config, error) {
	c := Default()
	md, err := toml.Decode(data, &c)
	if err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(string(data))
}

// Validate checks every section.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.RouterConfig(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LazyOptions(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.Catalog.Source) == "" {
		errs = append(errs, fmt.Errorf("%w: catalog.source is empty", ErrInvalid))
	}
	if len(c.Catalog.Categories) == 0 {
		errs = append(errs, fmt.Errorf("%w: catalog.categories is empty", ErrInvalid))
	}
	if _, err := c.Language(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// RouterConfig converts the router section.
func (c Config) RouterConfig() (router.Config, error) {
	mode, err := router.ParseMode(c.Router.Mode)
	if err != nil {
		return router.Config{}, err
	}
	rc := router.Config{Mode: mode, BasePath: c.Router.BasePath}
	if err := rc.Validate(); err != nil {
		return router.Config{}, err
	}
	return rc, nil
}

// LazyOptions converts the lazy section.
func (c Config) LazyOptions() (lazyload.Options, error) {
	opts := lazyload.Options{
		Selector:    c.Lazy.Selector,
		RootMargin:  c.Lazy.RootMargin,
		Threshold:   c.Lazy.Threshold,
		LoadedClass: c.Lazy.LoadedClass,
	}
	if err := opts.Validate(); err != nil {
		return lazyload.Options{}, err
	}
	return opts, nil
}

// Language parses site.locale.
func (c Config) Language() (language.Tag, error) {
	tag, err := language.Parse(c.Site.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("%w: site.locale %q: %v", ErrInvalid, c.Site.Locale, err)
	}
	return tag, nil
}
