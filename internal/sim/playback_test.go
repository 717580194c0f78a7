package sim

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"auroguard/internal/telemetry"
)

func encodeRows(t *testing.T, rows []telemetry.TelemetryRow) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	return &buf
}

func TestReplayLog(t *testing.T) {
	rows := []telemetry.TelemetryRow{
		{CraftID: "c1", Fuel: 100, Timestamp: time.Unix(0, 0)},
		{CraftID: "c1", Fuel: 99.9, Timestamp: time.Unix(1, 0)},
	}
	cw := &MockWriter{}
	if err := ReplayLog(context.Background(), encodeRows(t, rows), cw, 0); err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if len(cw.Rows) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(cw.Rows))
	}
	for i, r := range rows {
		if cw.Rows[i].Fuel != r.Fuel {
			t.Fatalf("row %d mismatch: %+v vs %+v", i, cw.Rows[i], r)
		}
	}
}

func TestReplayLogHonorsCancel(t *testing.T) {
	rows := []telemetry.TelemetryRow{
		{CraftID: "c1", Timestamp: time.Unix(0, 0)},
		{CraftID: "c1", Timestamp: time.Unix(3600, 0)},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	cw := &MockWriter{}
	err := ReplayLog(ctx, encodeRows(t, rows), cw, 1)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if len(cw.Rows) != 1 {
		t.Fatalf("expected 1 row before cancel, got %d", len(cw.Rows))
	}
}

func TestReplayLogBadInput(t *testing.T) {
	err := ReplayLog(context.Background(), strings.NewReader("{not json"), &MockWriter{}, 0)
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestReplayLogFileMissing(t *testing.T) {
	err := ReplayLogFile(context.Background(), filepath.Join(t.TempDir(), "nope.jsonl"), &MockWriter{}, 0)
	if err == nil {
		t.Fatal("expected open error")
	}
}
