package sim

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"

	"auroguard/internal/debris"
	"auroguard/internal/telemetry"
)

// greptimeClient is the subset of the ingester client the writer uses.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeTables names the tables rows are written to.
type GreptimeTables struct {
	Telemetry     string
	DebrisEvents  string
	Notifications string
}

const (
	defaultGreptimePort = 4001
	greptimeTimeout     = 5 * time.Second
)

// GreptimeDBWriter writes telemetry, debris events and notifications to
// GreptimeDB via the ingester client. Tables are created on first write.
type GreptimeDBWriter struct {
	client greptimeClient
	tables GreptimeTables
}

// NewGreptimeDBWriter connects to endpoint (host or host:port) and database.
func NewGreptimeDBWriter(endpoint, database string, tables GreptimeTables) (*GreptimeDBWriter, error) {
	host, port := endpoint, defaultGreptimePort
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("greptime endpoint port %q: %w", p, err)
		}
		host, port = h, n
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	slog.Info("greptimedb writer ready", "host", host, "port", port, "database", database)
	return &GreptimeDBWriter{client: client, tables: tables}, nil
}

func (w *GreptimeDBWriter) send(tbl *table.Table, rows int) error {
	ctx, cancel := context.WithTimeout(context.Background(), greptimeTimeout)
	defer cancel()
	if _, err := w.client.Write(ctx, tbl); err != nil {
		return fmt.Errorf("greptime write %d rows: %w", rows, err)
	}
	slog.Debug("greptimedb write", "rows", rows)
	return nil
}

// Write inserts a single telemetry row.
func (w *GreptimeDBWriter) Write(row telemetry.TelemetryRow) error {
	return w.WriteBatch([]telemetry.TelemetryRow{row})
}

func telemetryTable(name string) (*table.Table, error) {
	tbl, err := table.New(name)
	if err != nil {
		return nil, err
	}
	for _, tag := range []string{"craft_id", "run_id"} {
		if err := tbl.AddTagColumn(tag, types.STRING); err != nil {
			return nil, err
		}
	}
	fields := []struct {
		name string
		typ  types.ColumnType
	}{
		{"velocity", types.FLOAT64},
		{"altitude", types.FLOAT64},
		{"fuel", types.FLOAT64},
		{"shields", types.FLOAT64},
		{"debris_count", types.INT64},
		{"nearby_objects", types.INT64},
		{"solar_activity", types.STRING},
		{"collision_risk", types.STRING},
		{"radiation_level", types.STRING},
		{"ai_status", types.STRING},
		{"system_integrity", types.INT64},
		{"debris_avoided", types.INT64},
		{"distance_traveled", types.FLOAT64},
		{"fuel_efficiency", types.FLOAT64},
		{"sim_speed", types.INT64},
	}
	for _, f := range fields {
		if err := tbl.AddFieldColumn(f.name, f.typ); err != nil {
			return nil, err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return nil, err
	}
	return tbl, nil
}

// WriteBatch inserts multiple telemetry rows.
func (w *GreptimeDBWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := telemetryTable(w.tables.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry table: %w", err)
	}
	for _, r := range rows {
		err := tbl.AddRow(
			r.CraftID,
			r.RunID,
			r.Velocity,
			r.Altitude,
			r.Fuel,
			r.Shields,
			int64(r.DebrisCount),
			int64(r.NearbyObjects),
			string(r.SolarActivity),
			string(r.CollisionRisk),
			string(r.RadiationLevel),
			string(r.AIStatus),
			int64(r.SystemIntegrity),
			int64(r.DebrisAvoided),
			r.DistanceTraveled,
			r.FuelEfficiency,
			int64(r.SimSpeed),
			r.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("telemetry row: %w", err)
		}
	}
	return w.send(tbl, len(rows))
}

// WriteDebrisEvent inserts a debris relay event.
func (w *GreptimeDBWriter) WriteDebrisEvent(ev debris.EventRow) error {
	tbl, err := table.New(w.tables.DebrisEvents)
	if err != nil {
		return fmt.Errorf("debris event table: %w", err)
	}
	cols := []error{
		tbl.AddTagColumn("craft_id", types.STRING),
		tbl.AddTagColumn("kind", types.STRING),
		tbl.AddFieldColumn("event_id", types.STRING),
		tbl.AddFieldColumn("debris_count", types.INT64),
		tbl.AddFieldColumn("nearby_objects", types.INT64),
		tbl.AddFieldColumn("risk", types.STRING),
		tbl.AddFieldColumn("warning", types.BOOLEAN),
		tbl.AddFieldColumn("debris_avoided", types.INT64),
		tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND),
	}
	for _, err := range cols {
		if err != nil {
			return fmt.Errorf("debris event table: %w", err)
		}
	}
	err = tbl.AddRow(
		ev.CraftID,
		ev.Kind,
		ev.ID,
		int64(ev.DebrisCount),
		int64(ev.NearbyObjects),
		string(ev.Risk),
		ev.Warning,
		int64(ev.DebrisAvoided),
		ev.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("debris event row: %w", err)
	}
	return w.send(tbl, 1)
}

// WriteNotification inserts an operator notification.
func (w *GreptimeDBWriter) WriteNotification(n telemetry.NotificationRow) error {
	tbl, err := table.New(w.tables.Notifications)
	if err != nil {
		return fmt.Errorf("notification table: %w", err)
	}
	cols := []error{
		tbl.AddTagColumn("craft_id", types.STRING),
		tbl.AddFieldColumn("notification_id", types.STRING),
		tbl.AddFieldColumn("title", types.STRING),
		tbl.AddFieldColumn("description", types.STRING),
		tbl.AddFieldColumn("duration_ms", types.INT64),
		tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND),
	}
	for _, err := range cols {
		if err != nil {
			return fmt.Errorf("notification table: %w", err)
		}
	}
	if err := tbl.AddRow(n.CraftID, n.ID, n.Title, n.Description, n.Duration.Milliseconds(), n.Timestamp); err != nil {
		return fmt.Errorf("notification row: %w", err)
	}
	return w.send(tbl, 1)
}
