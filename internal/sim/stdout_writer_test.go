package sim

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auroguard/internal/config"
	"auroguard/internal/debris"
	"auroguard/internal/telemetry"
)

func TestJSONStdoutWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &JSONStdoutWriter{out: &buf}
	ts := time.Unix(0, 0).UTC()
	require.NoError(t, w.Write(telemetry.TelemetryRow{CraftID: "c1", Fuel: 99.9, Timestamp: ts}))
	require.NoError(t, w.WriteDebrisEvent(debris.EventRow{Kind: debris.EventCount, DebrisCount: 30, Timestamp: ts}))
	require.NoError(t, w.WriteNotification(telemetry.NotificationRow{Title: telemetry.NoticePaused, Timestamp: ts}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	var row telemetry.TelemetryRow
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &row))
	assert.Equal(t, 99.9, row.Fuel)
	assert.Contains(t, lines[1], `"debris_count":30`)
	assert.Contains(t, lines[2], telemetry.NoticePaused)
}

func TestColorStdoutWriterOverviewOnce(t *testing.T) {
	var buf bytes.Buffer
	w := &ColorStdoutWriter{cfg: config.Default(), out: &buf}
	row := telemetry.TelemetryRow{CraftID: "c1", Fuel: 15, CollisionRisk: telemetry.RiskHigh, Timestamp: time.Unix(0, 0).UTC()}
	require.NoError(t, w.Write(row))
	require.NoError(t, w.Write(row))
	require.NoError(t, w.WriteDebrisEvent(debris.EventRow{Kind: debris.EventRisk, Risk: telemetry.RiskHigh, Warning: true}))
	require.NoError(t, w.WriteNotification(telemetry.NotificationRow{Title: "AI Mode: Tracking"}))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "Simulation Configuration:"))
	assert.Contains(t, out, colorRed+"fuel=15.00")
	assert.Contains(t, out, "WARNING")
	assert.Contains(t, out, "NOTICE")
}

func TestLevelColor(t *testing.T) {
	assert.Equal(t, colorGreen, levelColor(80, 50, 20))
	assert.Equal(t, colorYellow, levelColor(40, 50, 20))
	assert.Equal(t, colorRed, levelColor(10, 50, 20))
}
