// Package catalog holds the site directory: the site records, how they are
// loaded from JSON or YAML, grouped per category and rendered as cards.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for a data file that is neither JSON nor YAML.
var ErrUnknownFormat = errors.New("catalog: unknown format")

// Site is one entry in the directory.
type Site struct {
	Name          string   `json:"name" yaml:"name"`
	URL           string   `json:"url" yaml:"url"`
	Description   string   `json:"description" yaml:"description"`
	Icon          string   `json:"icon" yaml:"icon"`
	Category      string   `json:"category" yaml:"category"`
	SubCategories []string `json:"subCategories" yaml:"subCategories"`
	// Weight orders sites within a category, highest first.
	Weight int  `json:"weight" yaml:"weight"`
	IsNew  bool `json:"isNew" yaml:"isNew"`
	IsHot  bool `json:"isHot" yaml:"isHot"`
}

// Categories lists the primary category followed by the subcategories.
func (s Site) Categories() []string {
	out := make([]string, 0, 1+len(s.SubCategories))
	if s.Category != "" {
		out = append(out, s.Category)
	}
	return append(out, s.SubCategories...)
}

// Format is the encoding of a data file.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatFor picks the Format from a file name's extension.
func FormatFor(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Load decodes a list of sites and strips markup from every text field.
func Load(r io.Reader, f Format) ([]Site, error) {
	var sites []Site
	switch f {
	case JSON:
		if err := json.NewDecoder(r).Decode(&sites); err != nil {
			return nil, fmt.Errorf("catalog: decode json: %w", err)
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&sites); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("catalog: decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	for i := range sites {
		sites[i] = clean(sites[i])
	}
	return sites, nil
}

var strict = bluemonday.StrictPolicy()

// plain removes every tag and returns unescaped text; the renderer escapes.
func plain(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

func clean(s Site) Site {
	s.Name = plain(s.Name)
	s.Description = plain(s.Description)
	s.Category = strings.TrimSpace(s.Category)
	s.URL = safeURL(s.URL)
	s.Icon = safeURL(s.Icon)
	subs := s.SubCategories[:0:0]
	for _, c := range s.SubCategories {
		if c = strings.TrimSpace(c); c != "" {
			subs = append(subs, c)
		}
	}
	s.SubCategories = subs
	return s
}

// safeURL drops script URLs.
func safeURL(u string) string {
	u = strings.TrimSpace(u)
	lower := strings.ToLower(u)
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "vbscript:") ||
		strings.HasPrefix(lower, "data:text/html") {
		return ""
	}
	return u
}
