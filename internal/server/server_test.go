package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func webRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"index.html":      `<!doctype html><html><body class="is-loading"></body></html>`,
		"main.wasm":       "\x00asm",
		"wasm_exec.js":    "// runtime",
		"data/sites.json": `[]`,
		"assets/app.css":  "body{}",
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func newServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	h, err := New(opts)
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, method, path string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServer_Routes(t *testing.T) {
	srv := newServer(t, Options{Root: webRoot(t)})

	cases := []struct {
		method, path string
		status       int
		contentType  string
		bodyContains string
	}{
		{"GET", "/healthz", 200, "text/plain", "ok"},
		{"GET", "/", 200, "text/html", "is-loading"},
		{"GET", "/ai-tools", 200, "text/html", "is-loading"},
		{"GET", "/app/data-analysis", 200, "text/html", "is-loading"},
		{"GET", "/data/sites.json", 200, "application/json", "[]"},
		{"GET", "/assets/app.css", 200, "text/css", "body"},
		{"GET", "/main.wasm", 200, "application/wasm", ""},
		{"GET", "/wasm_exec.js", 200, "javascript", "runtime"},
		{"GET", "/missing.js", 404, "", ""},
		{"GET", "/data/", 404, "", ""},
		{"GET", "/navdeck.toml", 404, "", ""},
		{"POST", "/ai-tools", 405, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp, body := get(t, srv, tc.method, tc.path)
			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.contentType != "" {
				assert.Contains(t, resp.Header.Get("Content-Type"), tc.contentType)
			}
			if tc.bodyContains != "" {
				assert.Contains(t, body, tc.bodyContains)
			}
		})
	}
}

func TestServer_ServesValidatedConfig(t *testing.T) {
	root := webRoot(t)
	cfgPath := filepath.Join(t.TempDir(), "navdeck.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[router]\nmode = \"hash\"\n"), 0o644))

	srv := newServer(t, Options{Root: root, ConfigPath: cfgPath})

	resp, body := get(t, srv, "GET", "/navdeck.toml")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `mode = "hash"`)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Options{Root: t.TempDir()})
	assert.Error(t, err, "no index.html")

	root := webRoot(t)
	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[router]\nroot = \"/\"\n"), 0o644))
	_, err = New(Options{Root: root, ConfigPath: bad})
	assert.Error(t, err)

	_, err = New(Options{Root: root, ConfigPath: filepath.Join(root, "nope.toml")})
	assert.Error(t, err)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	srv := newServer(t, Options{Root: webRoot(t), Logger: zap.New(core)})

	get(t, srv, "GET", "/healthz")
	get(t, srv, "GET", "/missing.png")

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.True(t, strings.HasSuffix(entries[1].ContextMap()["path"].(string), "missing.png"))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = NewLogger("nonsense")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
}
