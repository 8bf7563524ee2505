package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bip-connector/internal/bip"
	"bip-connector/internal/config"
	"bip-connector/internal/store"
)

type nopExecutor struct{}

func (nopExecutor) Execute(ctx context.Context, conn bip.Connection, sqlText string, rowLimit int) (*bip.QueryResult, error) {
	return &bip.QueryResult{}, nil
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.Default()
	cfg.BearerToken = "secret"

	srv, err := NewServer(cfg, ServerDeps{Store: st, Executor: nopExecutor{}})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestNewServerValidation(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()

	tests := []struct {
		name string
		cfg  config.Config
		deps ServerDeps
	}{
		{name: "missing listen addr", cfg: config.Config{BearerToken: "x"}, deps: ServerDeps{Store: st, Executor: nopExecutor{}}},
		{name: "bad listen addr", cfg: config.Config{APIListen: "nope", BearerToken: "x"}, deps: ServerDeps{Store: st, Executor: nopExecutor{}}},
		{name: "missing token", cfg: config.Config{APIListen: "127.0.0.1:8090"}, deps: ServerDeps{Store: st, Executor: nopExecutor{}}},
		{name: "missing store", cfg: config.Config{APIListen: "127.0.0.1:8090", BearerToken: "x"}, deps: ServerDeps{Executor: nopExecutor{}}},
		{name: "missing executor", cfg: config.Config{APIListen: "127.0.0.1:8090", BearerToken: "x"}, deps: ServerDeps{Store: st}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewServer(tt.cfg, tt.deps)
			require.Error(t, err)
		})
	}
}

func TestServerAuth(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/health", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServerUnknownRoute(t *testing.T) {
	ts := testServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/nope", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
