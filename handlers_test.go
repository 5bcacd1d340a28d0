package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/arianium/rws-data-ingester/pkg/config"
	"github.com/arianium/rws-data-ingester/pkg/locations"
	"github.com/arianium/rws-data-ingester/pkg/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, outputDir string) (http.Handler, *HandlerRepository) {
	t.Helper()

	registry, err := locations.NewRegistry("")
	require.NoError(t, err)

	hr := &HandlerRepository{
		registry: registry,
		config:   &config.Config{OutputDir: outputDir},
		monitor:  prometheus.NewMonitor(),
		logger:   logrus.New(),
	}

	return NewRouter(hr), hr
}

func TestHealthzHandler(t *testing.T) {
	router, _ := newTestRouter(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"is_ok": true}`, rec.Body.String())
}

func TestHomepageHandler(t *testing.T) {
	router, _ := newTestRouter(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<a href="/rijnhaven/">Rijnhaven Swimming Advice</a>`)
	assert.Contains(t, rec.Body.String(), `<a href="/rotterdam/">Rotterdam Swimming Advice</a>`)
}

func TestMetricsHandler(t *testing.T) {
	router, hr := newTestRouter(t, t.TempDir())
	hr.monitor.ReportsGenerated.WithLabelValues("rijnhaven").Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "advice_reports_generated_total")
}

func TestReportsHandler(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "rijnhaven"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rijnhaven", "index.html"), []byte("<html>advice</html>"), 0o644))

	router, _ := newTestRouter(t, dir)

	req := httptest.NewRequest(http.MethodGet, "/rijnhaven/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<html>advice</html>")
}
