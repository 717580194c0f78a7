package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"auroguard/internal/debris"
	"auroguard/internal/telemetry"
)

type mockGreptimeClient struct {
	table *table.Table
	err   error
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, m.err
}

var testTables = GreptimeTables{
	Telemetry:     "spacecraft_telemetry",
	DebrisEvents:  "debris_events",
	Notifications: "notifications",
}

func TestGreptimeWriterTelemetry(t *testing.T) {
	ts := time.Unix(0, 0).UTC()
	rows := []telemetry.TelemetryRow{
		{CraftID: "c1", RunID: "r1", Velocity: 3, Fuel: 99.5, SolarActivity: telemetry.SolarHigh, SystemIntegrity: 93, Timestamp: ts},
		{CraftID: "c1", RunID: "r1", Velocity: 1, Fuel: 99.4, SolarActivity: telemetry.SolarLow, SystemIntegrity: 98, Timestamp: ts.Add(time.Second)},
	}

	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, tables: testTables}
	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}

	got := m.table.GetRows()
	if len(got.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(got.Rows))
	}
	if len(got.Schema) != 18 {
		t.Fatalf("schema length = %d, want 18", len(got.Schema))
	}
	if name := got.Schema[0].ColumnName; name != "craft_id" {
		t.Fatalf("first column = %s, want craft_id", name)
	}
	if got.Schema[0].SemanticType != gpb.SemanticType_TAG {
		t.Fatalf("craft_id should be a tag")
	}
	if got.Schema[17].SemanticType != gpb.SemanticType_TIMESTAMP {
		t.Fatalf("last column should be the time index")
	}
	if v := got.Rows[0].Values[0].GetStringValue(); v != "c1" {
		t.Fatalf("craft_id = %s, want c1", v)
	}
	if v := got.Rows[0].Values[4].GetF64Value(); v != 99.5 {
		t.Fatalf("fuel = %v, want 99.5", v)
	}
	if v := got.Rows[0].Values[8].GetStringValue(); v != "High" {
		t.Fatalf("solar_activity = %s, want High", v)
	}
	if v := got.Rows[1].Values[12].GetI64Value(); v != 98 {
		t.Fatalf("system_integrity = %d, want 98", v)
	}
}

func TestGreptimeWriterEmptyBatch(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, tables: testTables}
	if err := w.WriteBatch(nil); err != nil {
		t.Fatalf("WriteBatch(nil): %v", err)
	}
	if m.table != nil {
		t.Fatalf("empty batch should not reach the client")
	}
}

func TestGreptimeWriterDebrisEvent(t *testing.T) {
	ev := debris.EventRow{ID: "e1", CraftID: "c1", Kind: debris.EventRisk, NearbyObjects: 3, Risk: telemetry.RiskHigh, Warning: true, DebrisAvoided: 2, Timestamp: time.Unix(0, 0).UTC()}
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, tables: testTables}
	if err := w.WriteDebrisEvent(ev); err != nil {
		t.Fatalf("WriteDebrisEvent: %v", err)
	}
	vals := m.table.GetRows().Rows[0].Values
	if v := vals[1].GetStringValue(); v != debris.EventRisk {
		t.Fatalf("kind = %s", v)
	}
	if v := vals[5].GetStringValue(); v != "High" {
		t.Fatalf("risk = %s", v)
	}
	if !vals[6].GetBoolValue() {
		t.Fatalf("warning should be true")
	}
	if v := vals[7].GetI64Value(); v != 2 {
		t.Fatalf("debris_avoided = %d", v)
	}
}

func TestGreptimeWriterNotification(t *testing.T) {
	n := telemetry.NotificationRow{ID: "n1", CraftID: "c1", Title: telemetry.NoticeSolarWarning, Duration: 5 * time.Second, Timestamp: time.Unix(0, 0).UTC()}
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, tables: testTables}
	if err := w.WriteNotification(n); err != nil {
		t.Fatalf("WriteNotification: %v", err)
	}
	vals := m.table.GetRows().Rows[0].Values
	if v := vals[2].GetStringValue(); v != telemetry.NoticeSolarWarning {
		t.Fatalf("title = %s", v)
	}
	if v := vals[4].GetI64Value(); v != 5000 {
		t.Fatalf("duration_ms = %d", v)
	}
}

func TestGreptimeWriterPropagatesError(t *testing.T) {
	boom := errors.New("unavailable")
	w := &GreptimeDBWriter{client: &mockGreptimeClient{err: boom}, tables: testTables}
	if err := w.Write(telemetry.TelemetryRow{CraftID: "c1", Timestamp: time.Unix(0, 0)}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
}
