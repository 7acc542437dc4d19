package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "https://inspirehep.net/api", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
	assert.Equal(t, 1.5, cfg.RequestsPerSecond)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 512, cfg.CacheMaxSize)
	assert.False(t, cfg.CachePersistent)
	assert.Equal(t, "inspirehep_cache.db", cfg.CacheDBPath)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadNoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("INSPIREHEP_REQUESTS_PER_SECOND", "3")
	t.Setenv("INSPIREHEP_CACHE_TTL", "1h")
	t.Setenv("INSPIREHEP_CACHE_MAX_SIZE", "64")
	t.Setenv("INSPIREHEP_CACHE_PERSISTENT", "true")
	t.Setenv("INSPIREHEP_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.RequestsPerSecond)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 64, cfg.CacheMaxSize)
	assert.True(t, cfg.CachePersistent)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadYAMLFile(t *testing.T) {
	content := `
api_base_url: "https://example.org/api"
api_timeout: 10s
cache_db_path: ${TEST_DB_PATH}
`
	t.Setenv("TEST_DB_PATH", "/tmp/test-cache.db")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/api", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, "/tmp/test-cache.db", cfg.CacheDBPath, "env var in yaml should expand")
	// Untouched fields keep defaults.
	assert.Equal(t, 512, cfg.CacheMaxSize)
}

func TestEnvWinsOverFile(t *testing.T) {
	content := "cache_max_size: 100\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("INSPIREHEP_CACHE_MAX_SIZE", "200")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.CacheMaxSize)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestValidation(t *testing.T) {
	t.Setenv("INSPIREHEP_REQUESTS_PER_SECOND", "0")
	_, err := Load("")
	assert.Error(t, err, "zero rate must be rejected")

	t.Setenv("INSPIREHEP_REQUESTS_PER_SECOND", "1")
	t.Setenv("INSPIREHEP_CACHE_MAX_SIZE", "-1")
	_, err = Load("")
	assert.Error(t, err, "negative cache size must be rejected")
}
