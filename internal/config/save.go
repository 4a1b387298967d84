package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with durations spelled as strings.
type fileConfig struct {
	Schema struct {
		Base      string `yaml:"base"`
		Dir       string `yaml:"dir,omitempty"`
		Timeout   string `yaml:"timeout"`
		CacheTTL  string `yaml:"cache_ttl"`
		MaxErrors int    `yaml:"max_errors"`
	} `yaml:"schema"`
	Log     LogConfig     `yaml:"log"`
	Catalog CatalogConfig `yaml:"catalog"`
	Watch   struct {
		Debounce string `yaml:"debounce"`
	} `yaml:"watch"`
	Tracing any `yaml:"tracing"`
}

// Marshal renders c as YAML that Load reads back.
func Marshal(c Config) ([]byte, error) {
	var f fileConfig
	f.Schema.Base = c.Schema.Base
	f.Schema.Dir = c.Schema.Dir
	f.Schema.Timeout = c.Schema.Timeout.String()
	f.Schema.CacheTTL = c.Schema.CacheTTL.String()
	f.Schema.MaxErrors = c.Schema.MaxErrors
	f.Log = c.Log
	f.Catalog = c.Catalog
	f.Watch.Debounce = c.Watch.Debounce.String()
	f.Tracing = c.Tracing

	var node yaml.Node
	if err := node.Encode(f); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	node.HeadComment = "rifcs configuration. Environment variables RIFCS_<SECTION>_<KEY> override these values."
	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}

// WriteDefaultConfig writes Defaults to path, creating parent directories.
func WriteDefaultConfig(path string) error {
	data, err := Marshal(Defaults())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
