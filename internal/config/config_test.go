package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/javiermolinar/taller/internal/calendar"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UI.Theme != "mocha" {
		t.Errorf("theme = %q, want mocha", cfg.UI.Theme)
	}
	if cfg.DefaultView() != calendar.ViewMonth {
		t.Errorf("default view = %s, want month", cfg.DefaultView())
	}
	if cfg.Storage.DBPath == "" {
		t.Error("db path not set")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[storage]
db_path = "/tmp/taller-test.db"

[ui]
theme = "latte"
default_view = "week"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.DBPath != "/tmp/taller-test.db" {
		t.Errorf("db path = %q", cfg.Storage.DBPath)
	}
	if cfg.UI.Theme != "latte" {
		t.Errorf("theme = %q, want latte", cfg.UI.Theme)
	}
	if cfg.DefaultView() != calendar.ViewWeek {
		t.Errorf("default view = %s, want week", cfg.DefaultView())
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[ui]
theme = "latte"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("TALLER_UI_THEME", "frappe")
	t.Setenv("TALLER_UI_DEFAULT_VIEW", "timeline")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UI.Theme != "frappe" {
		t.Errorf("theme = %q, want frappe (env wins over file)", cfg.UI.Theme)
	}
	if cfg.DefaultView() != calendar.ViewTimeline {
		t.Errorf("default view = %s, want timeline", cfg.DefaultView())
	}
}

func TestLoadFromRejectsInvalidView(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[ui]
default_view = "fortnight"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected an error for an invalid default_view")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.UI.Theme = "frappe"
	cfg.UI.DefaultView = "day"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("saving config: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if loaded.UI.Theme != "frappe" || loaded.UI.DefaultView != "day" {
		t.Errorf("round trip lost values: theme=%q view=%q", loaded.UI.Theme, loaded.UI.DefaultView)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got := expandPath("~/data/taller.db")
	want := filepath.Join(home, "data", "taller.db")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if got := expandPath("/absolute/path.db"); got != "/absolute/path.db" {
		t.Errorf("absolute path changed: %q", got)
	}
}
