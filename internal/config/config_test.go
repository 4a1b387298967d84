package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/ands/rifcs"
)

func TestDefaults(t *testing.T) {
	d := Defaults()

	require.Equal(t, rifcs.SchemaBase, d.Schema.Base)
	require.Equal(t, 30*time.Second, d.Schema.Timeout)
	require.Equal(t, "warn", d.Log.Level)
	require.False(t, d.Tracing.Enabled)
	require.NoError(t, d.Validate())
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rifcs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
schema:
  base: http://mirror.example.org/rifcs/
  timeout: 5s
log:
  level: debug
tracing:
  enabled: true
  exporter: stdout
`), 0o600))
	t.Setenv("RIFCS_CATALOG_PATH", "/var/lib/rifcs/catalog.db")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, "http://mirror.example.org/rifcs/", cfg.Schema.Base)
	require.Equal(t, 5*time.Second, cfg.Schema.Timeout)
	require.Equal(t, time.Hour, cfg.Schema.CacheTTL)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "/var/lib/rifcs/catalog.db", cfg.Catalog.Path)
	require.True(t, cfg.Tracing.Enabled)
	require.Equal(t, 1.0, cfg.Tracing.SampleRate)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rifcs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  format: xml\n"), 0o600))

	_, err := Load(viper.New(), path)
	require.ErrorContains(t, err, "log.format")
}

func TestWriteDefaultConfigRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# rifcs configuration")
	require.Contains(t, string(data), "timeout: 30s")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}
