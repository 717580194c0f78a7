// ColorStdoutWriter prints human-friendly, colorized telemetry to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"auroguard/internal/config"
	"auroguard/internal/debris"
	"auroguard/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter prints telemetry rows using ANSI colors.
type ColorStdoutWriter struct {
	cfg  *config.SimulationConfig
	out  io.Writer
	once sync.Once
	mu   sync.Mutex
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.SimulationConfig) *ColorStdoutWriter {
	return &ColorStdoutWriter{cfg: cfg, out: os.Stdout}
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}

	fmt.Fprintln(w.out, "Simulation Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Craft:\t%s\n", w.cfg.CraftID)
	fmt.Fprintf(tw, "Fuel Tick:\t%s\n", w.cfg.FuelTick)
	fmt.Fprintf(tw, "Telemetry Tick:\t%s\n", w.cfg.TelemetryTick)
	fmt.Fprintf(tw, "Sim Speed:\t%dx\n", w.cfg.SimSpeed)
	fmt.Fprintf(tw, "Radar Range (km):\t%d\n", w.cfg.RadarRangeKM)
	fmt.Fprintf(tw, "Solar Warning Chance:\t%.2f\n", w.cfg.SolarWarningChance())
	if w.cfg.Scenario != "" {
		fmt.Fprintf(tw, "Scenario:\t%s\n", w.cfg.Scenario)
	}
	tw.Flush()
	fmt.Fprintln(w.out)
}

// levelColor picks green, yellow or red for a gauge reading in percent.
func levelColor(pct, warn, crit float64) string {
	switch {
	case pct < crit:
		return colorRed
	case pct < warn:
		return colorYellow
	default:
		return colorGreen
	}
}

func riskColor(r telemetry.CollisionRisk) string {
	switch r {
	case telemetry.RiskHigh:
		return colorRed
	case telemetry.RiskMedium:
		return colorYellow
	default:
		return colorGreen
	}
}

// Write outputs a single telemetry row in colorized format.
func (w *ColorStdoutWriter) Write(row telemetry.TelemetryRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.once.Do(w.printOverview)

	solarColor := colorGreen
	if row.SolarActivity == telemetry.SolarHigh {
		solarColor = colorRed
	}

	fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, row.Timestamp.Format(time.RFC3339), colorReset)
	fmt.Fprintf(w.out, "%scraft=%s%s ", colorBlue, row.CraftID, colorReset)
	fmt.Fprintf(w.out, "%svel=%.0f%s ", colorCyan, row.Velocity, colorReset)
	fmt.Fprintf(w.out, "%salt=%.0f%s ", colorMagenta, row.Altitude, colorReset)
	fmt.Fprintf(w.out, "%sfuel=%.2f%s ", levelColor(row.Fuel, 50, FuelCriticalBelow), row.Fuel, colorReset)
	fmt.Fprintf(w.out, "%sshields=%.0f%s ", levelColor(row.Shields, 60, ShieldsCriticalBelow), row.Shields, colorReset)
	fmt.Fprintf(w.out, "%sdebris=%d/%d%s ", colorYellow, row.NearbyObjects, row.DebrisCount, colorReset)
	fmt.Fprintf(w.out, "%srisk=%s%s ", riskColor(row.CollisionRisk), row.CollisionRisk, colorReset)
	fmt.Fprintf(w.out, "%ssolar=%s%s ", solarColor, row.SolarActivity, colorReset)
	fmt.Fprintf(w.out, "%sai=%q%s ", colorBlue, row.AIStatus, colorReset)
	fmt.Fprintf(w.out, "%sintegrity=%d%s ", colorCyan, row.SystemIntegrity, colorReset)
	fmt.Fprintf(w.out, "%savoided=%d dist=%.1f eff=%.0f x%d%s", colorGray, row.DebrisAvoided, row.DistanceTraveled, row.FuelEfficiency, row.SimSpeed, colorReset)
	fmt.Fprintln(w.out)
	return nil
}

// WriteBatch outputs multiple telemetry rows.
func (w *ColorStdoutWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteDebrisEvent prints a debris relay event.
func (w *ColorStdoutWriter) WriteDebrisEvent(ev debris.EventRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.once.Do(w.printOverview)
	fmt.Fprintf(w.out, "%s[%s]%s %sDEBRIS%s kind=%s count=%d nearby=%d %srisk=%s%s avoided=%d",
		colorGray, ev.Timestamp.Format(time.RFC3339), colorReset,
		colorYellow, colorReset, ev.Kind, ev.DebrisCount, ev.NearbyObjects,
		riskColor(ev.Risk), ev.Risk, colorReset, ev.DebrisAvoided)
	if ev.Warning {
		fmt.Fprintf(w.out, " %sWARNING%s", colorRed, colorReset)
	}
	fmt.Fprintln(w.out)
	return nil
}

// WriteNotification prints an operator notification.
func (w *ColorStdoutWriter) WriteNotification(n telemetry.NotificationRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.once.Do(w.printOverview)
	fmt.Fprintf(w.out, "%s[%s]%s %sNOTICE%s %s",
		colorGray, n.Timestamp.Format(time.RFC3339), colorReset,
		colorMagenta, colorReset, n.Title)
	if n.Description != "" {
		fmt.Fprintf(w.out, ": %s", n.Description)
	}
	fmt.Fprintln(w.out)
	return nil
}
