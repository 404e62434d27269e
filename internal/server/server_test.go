package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/nateso/toy-dash-application/internal/api/v1"
	"github.com/nateso/toy-dash-application/internal/config"
	"github.com/nateso/toy-dash-application/internal/logger"
	"github.com/nateso/toy-dash-application/internal/model"
	"github.com/nateso/toy-dash-application/internal/service/content"
	"github.com/nateso/toy-dash-application/internal/store"
)

func newTestServer(t *testing.T, mutate func(*config.AppConfig)) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ms, err := store.NewMemoryStore(&store.Dataset{
		CountryCode: "KHM",
		Projects:    []model.Project{{ID: "P1", Name: "School", Country: "KHM", Topic: "education"}},
	})
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.Server.DevMode = true
	cfg.Server.DevServer = ""
	if mutate != nil {
		mutate(cfg)
	}

	log := logger.Discard()
	h := v1.NewHandler(v1.Options{Store: ms, Content: content.DefaultConfig(), Log: log})
	return NewServer(cfg, h, log).Handler()
}

func serve(h http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	h := newTestServer(t, nil)

	w := serve(h, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set(RequestIDHeader, "client-id")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "client-id", w.Header().Get(RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	w := serve(newTestServer(t, nil), http.MethodOptions, "/api/interact", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, func(cfg *config.AppConfig) {
		cfg.Server.RateLimit = 0.001
		cfg.Server.RateBurst = 1
	})

	assert.Equal(t, http.StatusOK, serve(h, http.MethodPost, "/api/interact", "{}").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodPost, "/api/interact", "{}").Code)
	// 非交互接口不限流
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/status", "").Code)
}

func TestEmbeddedIndexFallback(t *testing.T) {
	h := newTestServer(t, nil)

	w := serve(h, http.MethodGet, "/some/page", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Toy Dash")

	w = serve(h, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestStaticDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>renderer</html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0644))

	h := newTestServer(t, func(cfg *config.AppConfig) { cfg.Server.StaticDir = dir })

	w := serve(h, http.MethodGet, "/assets/app.js", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	w = serve(h, http.MethodGet, "/projects/P1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<html>renderer</html>", w.Body.String())
}

func TestDevRedirect(t *testing.T) {
	h := newTestServer(t, func(cfg *config.AppConfig) { cfg.Server.DevServer = "http://localhost:5173" })

	w := serve(h, http.MethodGet, "/map", "")
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "http://localhost:5173/map", w.Header().Get("Location"))
}
