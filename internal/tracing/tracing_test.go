package tracing

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.False(t, cfg.Enabled, "tracing should be disabled by default")
	require.Equal(t, "stdout", cfg.Exporter)
	require.Equal(t, 1.0, cfg.SampleRate)
	require.Equal(t, DefaultServiceName, cfg.ServiceName)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled ignores exporter", Config{Exporter: "carrier-pigeon"}, false},
		{"stdout", Config{Enabled: true, Exporter: "stdout", SampleRate: 1}, false},
		{"file without path", Config{Enabled: true, Exporter: "file"}, true},
		{"unknown exporter", Config{Enabled: true, Exporter: "jaeger"}, true},
		{"sample rate above one", Config{Enabled: true, Exporter: "none", SampleRate: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(Config{}, nil)
	require.NoError(t, err)
	require.False(t, provider.Enabled())

	_, span := provider.Tracer().Start(context.Background(), "test-span")
	require.False(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_Stdout(t *testing.T) {
	var out bytes.Buffer
	provider, err := NewProvider(Config{Enabled: true, Exporter: "stdout", SampleRate: 1}, &out)
	require.NoError(t, err)
	require.True(t, provider.Enabled())

	_, span := provider.Tracer().Start(context.Background(), "schema.compose")
	require.True(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, provider.Shutdown(context.Background()))
	require.Contains(t, out.String(), "schema.compose")
}

func TestNewProvider_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "spans.jsonl")
	provider, err := NewProvider(Config{Enabled: true, Exporter: "file", FilePath: path}, nil)
	require.NoError(t, err)

	_, span := provider.Tracer().Start(context.Background(), "schema.validate")
	span.End()
	require.NoError(t, provider.Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "schema.validate")
}
