package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
	if cfg.Dashboard.Subject != nil || cfg.Dashboard.UseDB != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigDashboard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[dashboard]\nsubject = \"chemistry\"\nsort = \"solved\"\norder = \"desc\"\nuse-db = true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	d := cfg.Dashboard
	if d.Subject == nil || *d.Subject != "chemistry" {
		t.Fatalf("unexpected subject: %v", d.Subject)
	}
	if d.Sort == nil || *d.Sort != "solved" || d.Order == nil || *d.Order != "desc" {
		t.Fatalf("unexpected sort settings: %+v", d)
	}
	if d.UseDB == nil || !*d.UseDB {
		t.Fatalf("expected use-db true")
	}
	if d.Locale != nil || d.Data != nil {
		t.Fatalf("expected unset locale and data")
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[dashboard]\ntheme = \"dark\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "dashboard.theme") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "pyqdash", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "pyqdash", "pyqdash.db") {
		t.Fatalf("unexpected db path: %s", got)
	}
}
