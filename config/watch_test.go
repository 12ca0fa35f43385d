package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcherArgumentChecks(t *testing.T) {
	if _, err := NewWatcher("", func(*Config) {}, nil); err == nil {
		t.Error("empty path must be rejected")
	}
	if _, err := NewWatcher("/tmp/x.json", nil, nil); err == nil {
		t.Error("nil onChange must be rejected")
	}
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "x.json"), func(*Config) {}, nil); err == nil {
		t.Error("unwatchable directory must be rejected")
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	t.Setenv("OBSIDIAN_API_KEY", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "mcp_config.json")
	write := func(apiKey string) {
		t.Helper()
		content := `{"obsidian":{"api_key":"` + apiKey + `"}}`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	write("first")

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { reloaded <- cfg }, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	write("rotated")

	select {
	case cfg := <-reloaded:
		if cfg.Obsidian.APIKey != "rotated" {
			t.Errorf("reload delivered stale config: %q", cfg.Obsidian.APIKey)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestWatcherReportsBrokenReload(t *testing.T) {
	t.Setenv("OBSIDIAN_API_KEY", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "mcp_config.json")
	if err := os.WriteFile(path, []byte(`{"obsidian":{"api_key":"ok"}}`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	failures := make(chan error, 4)
	w, err := NewWatcher(path, func(*Config) {}, func(err error) { failures <- err })
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte(`{"obsidian":`), 0644); err != nil {
		t.Fatalf("write broken config: %v", err)
	}

	select {
	case <-failures:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload failure report")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	t.Setenv("OBSIDIAN_API_KEY", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "mcp_config.json")
	if err := os.WriteFile(path, []byte(`{"obsidian":{"api_key":"ok"}}`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { reloaded <- cfg }, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0644); err != nil {
		t.Fatalf("write sibling: %v", err)
	}

	select {
	case <-reloaded:
		t.Error("sibling file write must not trigger a reload")
	case <-time.After(500 * time.Millisecond):
	}
}
