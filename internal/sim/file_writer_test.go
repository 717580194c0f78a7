package sim

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"auroguard/internal/debris"
	"auroguard/internal/telemetry"
)

func TestFileWriter(t *testing.T) {
	dir := t.TempDir()
	ts := time.Unix(0, 0).UTC()
	tRow := telemetry.TelemetryRow{
		CraftID:       "c1",
		RunID:         "r1",
		Velocity:      3,
		Fuel:          99.5,
		SolarActivity: telemetry.SolarHigh,
		CollisionRisk: telemetry.RiskMedium,
		Timestamp:     ts,
	}
	ev := debris.EventRow{ID: "e1", CraftID: "c1", Kind: debris.EventRisk, NearbyObjects: 2, Risk: telemetry.RiskHigh, Warning: true, Timestamp: ts}
	n := telemetry.NotificationRow{ID: "n1", CraftID: "c1", Title: telemetry.NoticeReset, Duration: 2 * time.Second, Timestamp: ts}

	tPath := filepath.Join(dir, "telemetry.jsonl")
	ePath := filepath.Join(dir, "events.jsonl")
	nPath := filepath.Join(dir, "notices.jsonl")
	fw, err := NewFileWriter(tPath, ePath, nPath)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	if err := fw.Write(tRow); err != nil {
		t.Fatalf("write telemetry: %v", err)
	}
	if err := fw.WriteDebrisEvent(ev); err != nil {
		t.Fatalf("write event: %v", err)
	}
	if err := fw.WriteNotification(n); err != nil {
		t.Fatalf("write notification: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var gotT telemetry.TelemetryRow
	readJSON(t, tPath, &gotT)
	if gotT != tRow {
		t.Fatalf("telemetry mismatch: %+v vs %+v", gotT, tRow)
	}
	var gotE debris.EventRow
	readJSON(t, ePath, &gotE)
	if gotE != ev {
		t.Fatalf("event mismatch: %+v vs %+v", gotE, ev)
	}
	var gotN telemetry.NotificationRow
	readJSON(t, nPath, &gotN)
	if gotN != n {
		t.Fatalf("notification mismatch: %+v vs %+v", gotN, n)
	}
}

func TestFileWriterOptionalLogs(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWriter(filepath.Join(dir, "t.jsonl"), "", "")
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	defer fw.Close()
	if err := fw.WriteDebrisEvent(debris.EventRow{}); err != nil {
		t.Fatalf("disabled event log should be a no-op: %v", err)
	}
	if err := fw.WriteNotification(telemetry.NotificationRow{}); err != nil {
		t.Fatalf("disabled notification log should be a no-op: %v", err)
	}
}

func TestFileWriterBadPath(t *testing.T) {
	if _, err := NewFileWriter(filepath.Join(t.TempDir(), "missing", "t.jsonl"), "", ""); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("unmarshal %s: %v", path, err)
	}
}
