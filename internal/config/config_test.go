package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/cityguide/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "dir", cfg.Content.Source)
	assert.Equal(t, 55, cfg.Trigger.Threshold)
	assert.Equal(t, 30*time.Minute, cfg.Trigger.Cooldown)
	assert.Equal(t, BehaviorSQL, cfg.Behavior.Store)
	assert.False(t, cfg.LLM.Enabled)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, 1024, cfg.LLM.Tasks[llm.TaskRespond].MaxTokens)

	g := cfg.Geometry()
	assert.InDelta(t, 47.3895, g.Center.Lat, 1e-9)
	assert.Equal(t, 3.0, g.CityRadiusKm)
	assert.Equal(t, "Europe/Budapest", cfg.Location().String())
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db:
  driver: postgres
  dsn: postgres://localhost/cityguide
trigger:
  threshold: 70
  cooldown: 45m
behavior:
  store: redis
llm:
  enabled: true
  provider: ollama
  endpoint: http://localhost:11434
  model: llama3.2
`), 0o644))
	t.Setenv("CITYGUIDE_TRIGGER_THRESHOLD", "60")
	t.Setenv("CITYGUIDE_HTTP_ADDR", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 60, cfg.Trigger.Threshold, "environment beats file")
	assert.Equal(t, 45*time.Minute, cfg.Trigger.Cooldown)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, BehaviorRedis, cfg.Behavior.Store)
	assert.Equal(t, llm.ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, 60, cfg.TriggerEngine().Threshold)
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cityguide.yaml"), []byte("content:\n  dir: /srv/koszeg\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/koszeg", cfg.Content.Dir)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "elsewhere.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  rate_burst: 9\n"), 0o644))
	t.Setenv(ConfigPathEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.HTTP.RateBurst)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdirTemp(t)
	_, err := Load("/nonexistent/cityguide.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	chdirTemp(t)
	base, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.DB.Driver = "mysql" }},
		{"unknown content source", func(c *Config) { c.Content.Source = "ftp" }},
		{"unknown behavior store", func(c *Config) { c.Behavior.Store = "etcd" }},
		{"inverted radii", func(c *Config) { c.City.ApproachRadiusKm = 1 }},
		{"bad timezone", func(c *Config) { c.City.Timezone = "Mars/Olympus" }},
		{"ollama without endpoint", func(c *Config) {
			c.LLM.Enabled = true
			c.LLM.Provider = llm.ProviderOllama
			c.LLM.Endpoint = ""
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, base.Validate())
}
