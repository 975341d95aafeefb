package catalog

import (
	"context"
	"fmt"
	"net/http"
	"os"
)

// Source yields the site list.
type Source interface {
	Sites(ctx context.Context) ([]Site, error)
}

// HTTPSource fetches a data file. Under js/wasm net/http goes through fetch.
type HTTPSource struct {
	Client *http.Client
	URL    string
}

func (s HTTPSource) Sites(ctx context.Context) ([]Site, error) {
	format, err := FormatFor(s.URL)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch %s: %w", s.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: fetch %s: status %d", s.URL, resp.StatusCode)
	}
	return Load(resp.Body, format)
}

// FileSource reads a local data file.
type FileSource struct {
	Path string
}

func (s FileSource) Sites(context.Context) ([]Site, error) {
	format, err := FormatFor(s.Path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open: %w", err)
	}
	defer f.Close()
	return Load(f, format)
}

// Static is a fixed list.
type Static []Site

func (s Static) Sites(context.Context) ([]Site, error) { return s, nil }
