package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/stepsolver/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, 20.0, cfg.Server.RateLimit)
	assert.Equal(t, 40, cfg.Server.Burst)
	assert.Equal(t, runtime.NumCPU(), cfg.Batch.Workers)
	assert.Equal(t, "auto", cfg.Render.Color)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stepsolver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
  format: json
server:
  http_addr: "127.0.0.1:9000"
  rate_limit: 5
  burst: 10
render:
  color: never
`), 0o600))
	t.Setenv("STEPSOLVER_BATCH_WORKERS", "3")

	cfg, err := config.Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.HTTPAddr)
	assert.Equal(t, 5.0, cfg.Server.RateLimit)
	assert.Equal(t, 10, cfg.Server.Burst)
	assert.Equal(t, 3, cfg.Batch.Workers)
	assert.Equal(t, "never", cfg.Render.Color)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := config.Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			Logging: config.LoggingConfig{Level: "info", Format: "console"},
			Server:  config.ServerConfig{RateLimit: 1, Burst: 1},
			Batch:   config.BatchConfig{Workers: 1},
			Render:  config.RenderConfig{Color: "auto"},
		}
	}
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"color", func(c *config.Config) { c.Render.Color = "rainbow" }},
		{"workers", func(c *config.Config) { c.Batch.Workers = 0 }},
		{"rate", func(c *config.Config) { c.Server.RateLimit = -1 }},
		{"burst", func(c *config.Config) { c.Server.Burst = 0 }},
	}
	base := valid()
	require.NoError(t, base.Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidConfig)
		})
	}
}
