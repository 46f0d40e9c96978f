package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
cache:
  backend: sqlite
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "key", cfg.Planner.TieBreak)
	assert.Equal(t, 0, cfg.Planner.DefaultNPartitions)
	assert.Equal(t, 3600, cfg.Cache.TTLSeconds)
	assert.True(t, cfg.Cache.Compression)
}

func TestLoad_CustomValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
planner:
  default_npartitions: 16
  tie_break: key
cache:
  backend: postgres
  dsn: "postgres://localhost/dagframe"
  ttl_seconds: 60
telemetry:
  enabled: true
  service_name: dagframe-planner
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Planner.DefaultNPartitions)
	assert.Equal(t, "postgres", cfg.Cache.Backend)
	assert.Equal(t, "postgres://localhost/dagframe", cfg.Cache.DSN)
	assert.Equal(t, 60, cfg.Cache.TTLSeconds)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "dagframe-planner", cfg.Telemetry.ServiceName)
}

func TestLoad_InvalidCacheBackend(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
cache:
  backend: clickhouse
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	_, err = Load(configFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported cache backend")
}

func TestValidate_UnsupportedTieBreak(t *testing.T) {
	cfg := &Config{
		Cache:   CacheConfig{Backend: "sqlite"},
		Planner: PlannerConfig{TieBreak: "random"},
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported tie_break comparator")
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestLoadFromReader(t *testing.T) {
	content := []byte(`
cache:
  backend: mysql
  dsn: "user:pass@tcp(mysql.local)/dagframe"
`)
	cfg, err := LoadFromReader("yaml", content)
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Cache.Backend)
	assert.Equal(t, "user:pass@tcp(mysql.local)/dagframe", cfg.Cache.DSN)
}
