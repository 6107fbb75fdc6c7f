// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "sparrow.yaml"

// Config is the root configuration structure.
type Config struct {
	SchemasDir string        `yaml:"schemas_dir"`
	Locales    LocalesConfig `yaml:"locales"`
	Logging    LoggingConfig `yaml:"logging"`
	Metrics    MetricsConfig `yaml:"metrics"`
}

// LocalesConfig configures the label catalog.
type LocalesConfig struct {
	Dir       string `yaml:"dir"`       // Directory of locale files; empty disables labels
	Default   string `yaml:"default"`   // Active locale (default: en)
	Namespace string `yaml:"namespace"` // Root key of every label (default: sparrow)
	Watch     bool   `yaml:"watch"`     // Reload locale files on change
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"` // Record construction and lookup metrics
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(&cfg)

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
//
// Environment variables:
//
//	SPARROW_SCHEMAS_DIR       - Schema definition directory (default: schemas)
//	SPARROW_LOCALES_DIR       - Locale file directory (default: none)
//	SPARROW_LOCALE            - Active locale (default: en)
//	SPARROW_LOCALES_NAMESPACE - Label namespace (default: sparrow)
//	SPARROW_LOCALES_WATCH     - Reload locale files on change (default: false)
//	SPARROW_LOG_LEVEL         - Log level: debug, info, warn, error (default: info)
//	SPARROW_LOG_FORMAT        - Log format: json or console (default: json)
//	SPARROW_METRICS_ENABLED   - Record metrics (default: false)
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback loads path when the file exists and falls back to
// environment variables otherwise.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// applyEnvOverrides applies SPARROW_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SPARROW_SCHEMAS_DIR"); v != "" {
		cfg.SchemasDir = v
	}

	// Locale configuration
	if v := os.Getenv("SPARROW_LOCALES_DIR"); v != "" {
		cfg.Locales.Dir = v
	}
	if v := os.Getenv("SPARROW_LOCALE"); v != "" {
		cfg.Locales.Default = v
	}
	if v := os.Getenv("SPARROW_LOCALES_NAMESPACE"); v != "" {
		cfg.Locales.Namespace = v
	}
	if v := os.Getenv("SPARROW_LOCALES_WATCH"); v != "" {
		cfg.Locales.Watch = parseBool(v)
	}

	// Logging configuration
	if v := os.Getenv("SPARROW_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SPARROW_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Metrics configuration
	if v := os.Getenv("SPARROW_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.SchemasDir == "" {
		cfg.SchemasDir = "schemas"
	}

	if cfg.Locales.Default == "" {
		cfg.Locales.Default = "en"
	}
	if cfg.Locales.Namespace == "" {
		cfg.Locales.Namespace = "sparrow"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validate(cfg *Config) error {
	if _, err := language.Parse(cfg.Locales.Default); err != nil {
		return fmt.Errorf("locales.default %q is not a valid locale: %w", cfg.Locales.Default, err)
	}
	if cfg.Locales.Watch && cfg.Locales.Dir == "" {
		return fmt.Errorf("locales.dir is required when locales.watch is enabled")
	}
	if strings.ContainsAny(cfg.Locales.Namespace, ". ") {
		return fmt.Errorf("locales.namespace must be a single key, got %q", cfg.Locales.Namespace)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error, got %q", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	return nil
}
