package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearEnv blanks every environment variable the loader reads, so tests see
// only what they set themselves.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OBSIDIAN_API_KEY", "OBSIDIAN_PROTOCOL", "OBSIDIAN_HOST", "OBSIDIAN_PORT", "OBSIDIAN_VERIFY_SSL",
		"MCP_HOST", "MCP_PORT", "MCP_DEBUG", "MCP_LOG_LEVEL", "MCP_LOG_PATH", "MCP_CONFIG_PATH",
	} {
		t.Setenv(key, "")
	}
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.Server.Host != "localhost" || cfg.Server.Port != 9090 {
		t.Errorf("unexpected server defaults %+v", cfg.Server)
	}
	if cfg.Obsidian.Protocol != "https" || cfg.Obsidian.Host != "127.0.0.1" || cfg.Obsidian.Port != 27124 {
		t.Errorf("unexpected obsidian defaults %+v", cfg.Obsidian)
	}
	if cfg.Obsidian.VerifySSL {
		t.Error("TLS verification must default to off for the self-signed local API")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestLoadConfigMissingFileUsesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("OBSIDIAN_API_KEY", "env-key")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Obsidian.APIKey != "env-key" {
		t.Errorf("API key not taken from environment: %q", cfg.Obsidian.APIKey)
	}
}

func TestLoadConfigFileValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("OBSIDIAN_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "mcp_config.json")
	content := `{"obsidian":{"protocol":"http","host":"vault.local","port":27123},"server":{"host":"0.0.0.0","port":8080}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Obsidian.Protocol != "http" || cfg.Obsidian.Host != "vault.local" || cfg.Obsidian.Port != 27123 {
		t.Errorf("file values not applied: %+v", cfg.Obsidian)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server values not applied: %+v", cfg.Server)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("OBSIDIAN_API_KEY", "env-key")
	t.Setenv("OBSIDIAN_HOST", "env-host")
	t.Setenv("OBSIDIAN_PORT", "27125")
	t.Setenv("OBSIDIAN_VERIFY_SSL", "true")

	path := filepath.Join(t.TempDir(), "mcp_config.json")
	content := `{"obsidian":{"api_key":"file-key","host":"file-host","port":27123}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Obsidian.APIKey != "env-key" {
		t.Errorf("env must beat file for API key: %q", cfg.Obsidian.APIKey)
	}
	if cfg.Obsidian.Host != "env-host" || cfg.Obsidian.Port != 27125 {
		t.Errorf("env overrides not applied: %+v", cfg.Obsidian)
	}
	if !cfg.Obsidian.VerifySSL {
		t.Error("OBSIDIAN_VERIFY_SSL=true not applied")
	}
}

func TestLoadConfigRejectsBrokenJSON(t *testing.T) {
	clearEnv(t)
	t.Setenv("OBSIDIAN_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "mcp_config.json")
	if err := os.WriteFile(path, []byte(`{"obsidian":`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for broken JSON")
	}
}

func TestValidateRequiresAPIKey(t *testing.T) {
	cfg := NewConfig()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if !strings.Contains(err.Error(), "OBSIDIAN_API_KEY") {
		t.Errorf("error must name the variable: %v", err)
	}
	if !strings.Contains(err.Error(), "Working directory:") {
		t.Errorf("error must include the working directory: %v", err)
	}
}

func TestValidateChecksRanges(t *testing.T) {
	base := func() *Config {
		cfg := NewConfig()
		cfg.Obsidian.APIKey = "key"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "bad server port", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "server port too high", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "empty server host", mutate: func(c *Config) { c.Server.Host = "" }},
		{name: "bad protocol", mutate: func(c *Config) { c.Obsidian.Protocol = "ftp" }},
		{name: "empty obsidian host", mutate: func(c *Config) { c.Obsidian.Host = "" }},
		{name: "bad obsidian port", mutate: func(c *Config) { c.Obsidian.Port = -1 }},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }},
		{name: "empty log path", mutate: func(c *Config) { c.Logging.Path = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation failure")
			}
		})
	}

	if err := base().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestNormalizeCanonicalizes(t *testing.T) {
	cfg := NewConfig()
	cfg.Obsidian.Protocol = " HTTPS "
	cfg.Obsidian.APIKey = "  key  "
	cfg.Logging.Level = "INFO"
	cfg.Normalize()

	if cfg.Obsidian.Protocol != "https" {
		t.Errorf("protocol not normalized: %q", cfg.Obsidian.Protocol)
	}
	if cfg.Obsidian.APIKey != "key" {
		t.Errorf("API key not trimmed: %q", cfg.Obsidian.APIKey)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("level not normalized: %q", cfg.Logging.Level)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	clearEnv(t)
	t.Setenv("OBSIDIAN_API_KEY", "")

	cfg := NewConfig()
	cfg.Obsidian.APIKey = "saved-key"
	path := filepath.Join(t.TempDir(), "nested", "mcp_config.json")

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Obsidian.APIKey != "saved-key" {
		t.Errorf("round trip lost API key: %q", loaded.Obsidian.APIKey)
	}

	if err := SaveConfig(nil, path); err == nil {
		t.Error("nil config must be rejected")
	}
}

func TestResolveConfigPathPrefersEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MCP_CONFIG_PATH", "/tmp/custom.json")

	path, err := ResolveConfigPath()
	if err != nil {
		t.Fatalf("ResolveConfigPath failed: %v", err)
	}
	if path != "/tmp/custom.json" {
		t.Errorf("unexpected path %q", path)
	}
}
