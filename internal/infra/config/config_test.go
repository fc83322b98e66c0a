package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())

	pc := cfg.PatternConfig()
	require.Equal(t, 0.002, pc.Threshold)
	require.Equal(t, 6, pc.TopN)
	require.Equal(t, 45, pc.GapMinutes)
	require.Len(t, pc.NameOverrides, 2)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
http:
  address: ":9090"
analysis:
  topN: 4
dataset:
  driver: sqlite
  sqlite:
    path: /tmp/signals.db
cache:
  ttl: 2m
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("ANALYSIS_GAP_MINUTES", "30")
	t.Setenv("CACHE_REDIS_ENABLED", "true")
	t.Setenv("CACHE_REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, 4, cfg.Analysis.TopN)
	require.Equal(t, 0.002, cfg.Analysis.Threshold)
	require.Equal(t, 30, cfg.Analysis.GapMinutes)
	require.Equal(t, "sqlite", cfg.Dataset.Driver)
	require.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	require.True(t, cfg.Cache.Redis.Enabled)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := defaultConfig()
	cfg.Dataset.Driver = "mongo"
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Dataset.Driver = "postgres"
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Analysis.Threshold = 0
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Cache.Redis.Enabled = true
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Routing.MaxPoints = 1
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Places.Enabled = true
	cfg.Places.Limit = 0
	require.Error(t, cfg.Validate())
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a, ,http://b "))
}
