package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := FromFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interval != 2*time.Second {
		t.Errorf("interval: want 2s, got %v", cfg.Interval)
	}
	if cfg.HistoryLen != 10 {
		t.Errorf("history: want 10, got %d", cfg.HistoryLen)
	}
	if cfg.Sort != "pid" {
		t.Errorf("sort: want pid, got %q", cfg.Sort)
	}
}

func TestFlagsOverrideDefaults(t *testing.T) {
	cfg, err := FromFlags([]string{"-interval", "500ms", "-sort", "cpu", "-page", "10"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interval != 500*time.Millisecond {
		t.Errorf("interval: want 500ms, got %v", cfg.Interval)
	}
	if cfg.Sort != "cpu" {
		t.Errorf("sort: want cpu, got %q", cfg.Sort)
	}
	if cfg.PageSize != 10 {
		t.Errorf("page: want 10, got %d", cfg.PageSize)
	}
}

func TestYAMLFileAndFlagPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brt.yaml")
	body := "interval: 7s\nsort: threads\nhistory: 4\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := FromFlags([]string{"-config", path, "-sort", "name"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interval != 7*time.Second {
		t.Errorf("interval from file: want 7s, got %v", cfg.Interval)
	}
	if cfg.HistoryLen != 4 {
		t.Errorf("history from file: want 4, got %d", cfg.HistoryLen)
	}
	if cfg.Sort != "name" {
		t.Errorf("flag should beat file: want name, got %q", cfg.Sort)
	}
}

func TestMissingConfigFileIsNotFatal(t *testing.T) {
	if _, err := FromFlags([]string{"-config", "/nonexistent/brt.yaml"}); err != nil {
		t.Fatalf("missing file should fall back to defaults, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BRT_INTERVAL", "250ms")
	t.Setenv("BRT_LOG_LEVEL", "debug")
	cfg, err := FromFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interval != 250*time.Millisecond {
		t.Errorf("interval from env: want 250ms, got %v", cfg.Interval)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level from env: want debug, got %q", cfg.LogLevel)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	if _, err := FromFlags([]string{"-interval", "-1s"}); err == nil {
		t.Error("negative interval should fail validation")
	}
	if _, err := FromFlags([]string{"-history", "0"}); err == nil {
		t.Error("zero history should fail validation")
	}
}

func TestFramePeriod(t *testing.T) {
	cfg := Default()
	cfg.FrameRate = 20
	if got := cfg.FramePeriod(); got != 50*time.Millisecond {
		t.Errorf("want 50ms, got %v", got)
	}
}
