package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/cityguide/internal/config"
	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/alexanderramin/cityguide/internal/intelligence"
	"github.com/alexanderramin/cityguide/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.DB.DSN = ":memory:"
	cfg.Behavior.Store = config.BehaviorMemory
	cfg.Content.Dir = t.TempDir()
	return cfg
}

func TestBuild_DisabledModelFallsBack(t *testing.T) {
	ctx := context.Background()
	a, err := Build(ctx, testConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(ctx) })

	res := a.Assistant.Run(ctx, service.AssistantRequest{Query: "hol parkolhatok"})

	assert.Equal(t, "parking", res.Intent)
	assert.Equal(t, intelligence.Fallback("").Text, res.Text)
	assert.False(t, a.LLM.Available(ctx))
}

func TestBuild_SeedThenSuggest(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	a, err := Build(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(ctx) })

	seed := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seed, []byte(`
events:
  - ref: koncert
    title: Esti koncert
    starts_at: "2026-05-02T17:30:00Z"
`), 0o644))
	sum, err := a.Importer.ImportFile(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Events)

	c := a.Triggers.Evaluate(ctx, "s1", domain.AmbientContext{
		Location: &domain.Location{Lat: 47.3895, Lng: 16.5410},
		Now:      time.Date(2026, 5, 2, 17, 0, 0, 0, time.UTC),
	})
	require.NotNil(t, c)
	assert.Equal(t, domain.TriggerEvent, c.Type)
}

func TestBuild_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.DB.Driver = "oracle"
	_, err := Build(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestHTTPServer_Health(t *testing.T) {
	ctx := context.Background()
	a, err := Build(ctx, testConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(ctx) })

	rec := httptest.NewRecorder()
	a.HTTPServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","llm":false}`, rec.Body.String())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(config.LogConfig{Level: "debug", Format: "json"}, &buf).Debug("hello", "k", 1)
	assert.True(t, strings.HasPrefix(buf.String(), "{"))

	buf.Reset()
	NewLogger(config.LogConfig{Level: "bogus"}, &buf).Debug("hidden")
	assert.Empty(t, buf.String(), "unknown level falls back to info")
}
