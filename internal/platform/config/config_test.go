package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"timebox/internal/platform/config"
)

func TestNewRequiresDataDirAndDerivesPaths(t *testing.T) {
	t.Parallel()
	if _, err := config.New(""); err == nil {
		t.Fatalf("expected error for empty data dir")
	}
	dir := t.TempDir()
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "timebox.db") {
		t.Fatalf("unexpected db path %s", cfg.DBPath)
	}
	if cfg.HistoryLimit != 100 || cfg.TickInterval != time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.GetTimezone() != time.Local {
		t.Fatalf("expected local timezone by default")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := config.Load("", dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ReminderSchedule != "0 20 * * *" {
		t.Fatalf("unexpected reminder schedule %q", cfg.ReminderSchedule)
	}
}

func TestLoadReadsYAMLOverrides(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	raw := `
database_path: data/focus.db
timezone: Europe/Berlin
log_level: debug
tick_interval: 500ms
history_limit: 50
reminder_schedule: "30 21 * * *"
`
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.Load("", dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "data", "focus.db") {
		t.Fatalf("expected relative db path resolved against data dir, got %s", cfg.DBPath)
	}
	if cfg.TickInterval != 500*time.Millisecond || cfg.HistoryLimit != 50 || cfg.LogLevel != "debug" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.GetTimezone().String() != "Europe/Berlin" {
		t.Fatalf("unexpected timezone %s", cfg.GetTimezone())
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("timezone: [unterminated"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.Load(path, dir); err == nil {
		t.Fatalf("expected decode error")
	}
}
