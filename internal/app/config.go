package app

import (
	"errors"
	"fmt"
	"strings"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
	OutputTOML = "toml"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SystemPaths []string // .hcl, .toml, .yaml files or directories

	LogFormat    string
	LogLevel     string
	OutputFormat string
	// Strict turns validation warnings into failures.
	Strict bool
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.SystemPaths) == 0 {
		return nil, errors.New("at least one system path is required")
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	cfg.OutputFormat = strings.ToLower(cfg.OutputFormat)
	switch cfg.OutputFormat {
	case "":
		cfg.OutputFormat = OutputText
	case OutputText, OutputJSON, OutputYAML, OutputTOML:
	default:
		return nil, fmt.Errorf("invalid output format %q: must be one of text, json, yaml, toml", cfg.OutputFormat)
	}

	return &cfg, nil
}
