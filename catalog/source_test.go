package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource(t *testing.T) {
	data, err := os.ReadFile("testdata/sites.json")
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/sites.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	sites, err := HTTPSource{URL: srv.URL + "/data/sites.json"}.Sites(context.Background())
	require.NoError(t, err)
	assert.Len(t, sites, 2)

	_, err = HTTPSource{Client: srv.Client(), URL: srv.URL + "/missing.json"}.Sites(context.Background())
	assert.ErrorContains(t, err, "status 404")
}

func TestFileSource(t *testing.T) {
	sites, err := FileSource{Path: "testdata/sites.yaml"}.Sites(context.Background())
	require.NoError(t, err)
	assert.Len(t, sites, 2)

	_, err = FileSource{Path: "testdata/nope.json"}.Sites(context.Background())
	assert.Error(t, err)
}
