// Package config loads rifcs command configuration from a YAML file, RIFCS_*
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ands/rifcs"
	"github.com/ands/rifcs/internal/tracing"
)

// EnvPrefix prefixes environment overrides, e.g. RIFCS_SCHEMA_BASE.
const EnvPrefix = "RIFCS"

// Config holds every configuration option of the rifcs command.
type Config struct {
	Schema  SchemaConfig   `mapstructure:"schema" yaml:"schema"`
	Log     LogConfig      `mapstructure:"log" yaml:"log"`
	Catalog CatalogConfig  `mapstructure:"catalog" yaml:"catalog"`
	Watch   WatchConfig    `mapstructure:"watch" yaml:"watch"`
	Tracing tracing.Config `mapstructure:"tracing" yaml:"tracing"`
}

// SchemaConfig selects where schema modules come from.
type SchemaConfig struct {
	// Base is the URL the module file names are resolved against.
	Base string `mapstructure:"base" yaml:"base"`
	// Dir, when set, is a local mirror of Base read instead of the network.
	Dir string `mapstructure:"dir" yaml:"dir"`
	// Timeout bounds fetching and validating one document.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// CacheTTL is how long fetched modules stay in memory.
	CacheTTL  time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	MaxErrors int           `mapstructure:"max_errors" yaml:"max_errors"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

// CatalogConfig locates the SQLite catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// WatchConfig configures validate --watch.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Schema: SchemaConfig{
			Base:     rifcs.SchemaBase,
			Timeout:  30 * time.Second,
			CacheTTL: time.Hour,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Catalog: CatalogConfig{
			Path: "rifcs.db",
		},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// SetDefaults registers Defaults on v so every key is known to Unmarshal and
// to environment lookups.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("schema.base", d.Schema.Base)
	v.SetDefault("schema.dir", d.Schema.Dir)
	v.SetDefault("schema.timeout", d.Schema.Timeout)
	v.SetDefault("schema.cache_ttl", d.Schema.CacheTTL)
	v.SetDefault("schema.max_errors", d.Schema.MaxErrors)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// Load reads configuration into a Config. An explicit path must exist;
// without one, .rifcs.yaml in the working directory and
// ~/.config/rifcs/config.yaml are tried and may be absent.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".rifcs")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "rifcs"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later and obscurely.
func (c Config) Validate() error {
	if c.Schema.Base == "" && c.Schema.Dir == "" {
		return fmt.Errorf("config: schema.base or schema.dir is required")
	}
	if c.Schema.Timeout < 0 {
		return fmt.Errorf("config: schema.timeout must not be negative")
	}
	if c.Schema.MaxErrors < 0 {
		return fmt.Errorf("config: schema.max_errors must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	return c.Tracing.Validate()
}
