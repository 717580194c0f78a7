package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"auroguard/internal/config"
	"auroguard/internal/sim"
	"auroguard/internal/telemetry"
)

func TestNewWritersPrintOnly(t *testing.T) {
	w, tui, cleanup, err := newWriters(nil, config.Env{GreptimeEndpoint: "localhost:4001"}, writerOptions{printOnly: true})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer cleanup()
	if tui != nil {
		t.Fatalf("unexpected TUI writer")
	}
	if _, ok := w.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", w)
	}
}

func TestNewWritersGreptimeFallback(t *testing.T) {
	w, _, cleanup, err := newWriters(nil, config.Env{}, writerOptions{})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer cleanup()
	if _, ok := w.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", w)
	}
}

func TestNewWritersLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telemetry.log")
	w, _, cleanup, err := newWriters(nil, config.Env{}, writerOptions{printOnly: true, logFile: path})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	if _, ok := w.(*sim.MultiWriter); !ok {
		t.Fatalf("expected *sim.MultiWriter, got %T", w)
	}
	if err := w.WriteNotification(telemetry.NotificationRow{Title: "x", Timestamp: time.Unix(0, 0).UTC()}); err != nil {
		t.Fatalf("write notification: %v", err)
	}
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	for _, p := range []string{path, path + ".events", path + ".notifications"} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s to exist: %v", p, err)
		}
	}
	b, err := os.ReadFile(path + ".notifications")
	if err != nil || len(b) == 0 {
		t.Fatalf("notification log empty: %v", err)
	}
}

func TestNewWritersBadLogPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "telemetry.log")
	if _, _, _, err := newWriters(nil, config.Env{}, writerOptions{printOnly: true, logFile: path}); err == nil {
		t.Fatal("expected error for unwritable log path")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("", "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.CraftID != config.DefaultCraftID {
		t.Fatalf("craft id %q, want default", cfg.CraftID)
	}
}

func TestLoadConfigExample(t *testing.T) {
	cfg, err := loadConfig(filepath.Join("..", "..", "config", "simulation.yaml"), "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.SimSpeed != 1 || cfg.RadarRangeKM != 15 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestResolveScenario(t *testing.T) {
	sc, err := resolveScenario("", "")
	if err != nil || sc != nil {
		t.Fatalf("expected no scenario, got %v %v", sc, err)
	}
	sc, err = resolveScenario("close-pass", "debris-storm")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if sc.Name != "Close Pass" {
		t.Fatalf("flag should win, got %q", sc.Name)
	}
	if _, err := resolveScenario("", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing scenario file")
	}
}
