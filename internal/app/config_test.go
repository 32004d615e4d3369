package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{SystemPaths: []string{"sys"}})
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, OutputText, cfg.OutputFormat)

	cfg, err = NewConfig(Config{SystemPaths: []string{"sys"}, LogLevel: "DEBUG", OutputFormat: "Yaml"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, OutputYAML, cfg.OutputFormat)
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"no paths", Config{}, "at least one system path"},
		{"log format", Config{SystemPaths: []string{"s"}, LogFormat: "xml"}, "invalid log format"},
		{"log level", Config{SystemPaths: []string{"s"}, LogLevel: "trace"}, "invalid log level"},
		{"output", Config{SystemPaths: []string{"s"}, OutputFormat: "csv"}, "invalid output format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.cfg)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
