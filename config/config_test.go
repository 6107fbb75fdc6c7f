package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artpar/sparrow/config"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
schemas_dir: "./defs"

locales:
  dir: "./locales"
  default: "zh-CN"
  namespace: "app"
  watch: true

logging:
  level: "debug"
  format: "console"

metrics:
  enabled: true
`

	cfg := writeAndLoad(t, content)

	if cfg.SchemasDir != "./defs" {
		t.Errorf("SchemasDir = %s, want ./defs", cfg.SchemasDir)
	}
	if cfg.Locales.Dir != "./locales" {
		t.Errorf("Locales.Dir = %s, want ./locales", cfg.Locales.Dir)
	}
	if cfg.Locales.Default != "zh-CN" {
		t.Errorf("Locales.Default = %s, want zh-CN", cfg.Locales.Default)
	}
	if cfg.Locales.Namespace != "app" {
		t.Errorf("Locales.Namespace = %s, want app", cfg.Locales.Namespace)
	}
	if !cfg.Locales.Watch {
		t.Error("Locales.Watch should be true")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v, want debug/console", cfg.Logging)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be true")
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := writeAndLoad(t, "logging: {}\n")

	if cfg.SchemasDir != "schemas" {
		t.Errorf("default SchemasDir = %s, want schemas", cfg.SchemasDir)
	}
	if cfg.Locales.Dir != "" {
		t.Errorf("default Locales.Dir = %s, want empty", cfg.Locales.Dir)
	}
	if cfg.Locales.Default != "en" {
		t.Errorf("default Locales.Default = %s, want en", cfg.Locales.Default)
	}
	if cfg.Locales.Namespace != "sparrow" {
		t.Errorf("default Locales.Namespace = %s, want sparrow", cfg.Locales.Namespace)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default Logging.Level = %s, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("default Logging.Format = %s, want json", cfg.Logging.Format)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics should be disabled by default")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_SCHEMA_ROOT", "/srv/defs")

	cfg := writeAndLoad(t, `schemas_dir: "${TEST_SCHEMA_ROOT}/entities"`)

	if cfg.SchemasDir != "/srv/defs/entities" {
		t.Errorf("SchemasDir = %s, want /srv/defs/entities", cfg.SchemasDir)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid locale",
			content: "locales:\n  default: \"not a locale!\"\n",
			wantErr: "locales.default",
		},
		{
			name:    "watch without dir",
			content: "locales:\n  watch: true\n",
			wantErr: "locales.dir is required",
		},
		{
			name:    "dotted namespace",
			content: "locales:\n  namespace: \"a.b\"\n",
			wantErr: "locales.namespace",
		},
		{
			name:    "invalid log level",
			content: "logging:\n  level: \"verbose\"\n",
			wantErr: "logging.level",
		},
		{
			name:    "invalid log format",
			content: "logging:\n  format: \"xml\"\n",
			wantErr: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.content)
			_, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, "schemas_dir: [unclosed")

	_, err := config.Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Errorf("error = %v, want parse config", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("SPARROW_SCHEMAS_DIR", "/env/schemas")
	t.Setenv("SPARROW_LOCALES_DIR", "/env/locales")
	t.Setenv("SPARROW_LOCALE", "zh_CN")
	t.Setenv("SPARROW_LOCALES_NAMESPACE", "env")
	t.Setenv("SPARROW_LOCALES_WATCH", "on")
	t.Setenv("SPARROW_LOG_LEVEL", "warn")
	t.Setenv("SPARROW_LOG_FORMAT", "console")
	t.Setenv("SPARROW_METRICS_ENABLED", "1")

	content := `
schemas_dir: "./file"
locales:
  dir: "./file-locales"
  default: "en"
logging:
  level: "debug"
`
	cfg := writeAndLoad(t, content)

	if cfg.SchemasDir != "/env/schemas" {
		t.Errorf("SchemasDir = %s, want /env/schemas", cfg.SchemasDir)
	}
	if cfg.Locales.Dir != "/env/locales" {
		t.Errorf("Locales.Dir = %s, want /env/locales", cfg.Locales.Dir)
	}
	if cfg.Locales.Default != "zh_CN" {
		t.Errorf("Locales.Default = %s, want zh_CN", cfg.Locales.Default)
	}
	if cfg.Locales.Namespace != "env" {
		t.Errorf("Locales.Namespace = %s, want env", cfg.Locales.Namespace)
	}
	if !cfg.Locales.Watch {
		t.Error("Locales.Watch should be true")
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v, want warn/console", cfg.Logging)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be true")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SPARROW_SCHEMAS_DIR", "/data/schemas")
	t.Setenv("SPARROW_LOG_LEVEL", "error")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv error: %v", err)
	}
	if cfg.SchemasDir != "/data/schemas" {
		t.Errorf("SchemasDir = %s, want /data/schemas", cfg.SchemasDir)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %s, want error", cfg.Logging.Level)
	}
	if cfg.Locales.Default != "en" {
		t.Errorf("Locales.Default = %s, want en", cfg.Locales.Default)
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	t.Setenv("SPARROW_LOG_FORMAT", "xml")

	if _, err := config.LoadFromEnv(); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoadWithFallback_FileExists(t *testing.T) {
	path := writeFile(t, `schemas_dir: "./from-file"`)

	cfg, err := config.LoadWithFallback(path)
	if err != nil {
		t.Fatalf("LoadWithFallback error: %v", err)
	}
	if cfg.SchemasDir != "./from-file" {
		t.Errorf("SchemasDir = %s, want ./from-file", cfg.SchemasDir)
	}
}

func TestLoadWithFallback_EnvOnly(t *testing.T) {
	t.Setenv("SPARROW_SCHEMAS_DIR", "/from/env")

	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := config.LoadWithFallback(path)
		if err != nil {
			t.Fatalf("LoadWithFallback(%q) error: %v", path, err)
		}
		if cfg.SchemasDir != "/from/env" {
			t.Errorf("LoadWithFallback(%q) SchemasDir = %s, want /from/env", path, cfg.SchemasDir)
		}
	}
}

func TestParseBoolValues(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{" on ", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"off", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("SPARROW_METRICS_ENABLED", tt.value)

			cfg, err := config.LoadFromEnv()
			if err != nil {
				t.Fatalf("LoadFromEnv error: %v", err)
			}
			if cfg.Metrics.Enabled != tt.want {
				t.Errorf("parseBool(%q) = %v, want %v", tt.value, cfg.Metrics.Enabled, tt.want)
			}
		})
	}
}

// Helpers

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sparrow.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func writeAndLoad(t *testing.T, content string) *config.Config {
	t.Helper()
	cfg, err := config.Load(writeFile(t, content))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return cfg
}
