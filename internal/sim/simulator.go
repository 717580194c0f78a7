// Simulator owning the spacecraft telemetry and its periodic tasks
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"auroguard/internal/config"
	"auroguard/internal/debris"
	"auroguard/internal/telemetry"
)

// TelemetryWriter is an interface to support different output writers.
type TelemetryWriter interface {
	Write(telemetry.TelemetryRow) error
}

// DebrisEventWriter handles relay events from the debris renderer.
type DebrisEventWriter interface {
	WriteDebrisEvent(debris.EventRow) error
}

// NotificationWriter handles operator notifications.
type NotificationWriter interface {
	WriteNotification(telemetry.NotificationRow) error
}

// Optional: Writers can also support batch mode
type batchWriter interface {
	WriteBatch([]telemetry.TelemetryRow) error
}

// Writers bundles the sinks a simulator reports to. Any of them may be nil.
type Writers struct {
	Telemetry     TelemetryWriter
	Events        DebrisEventWriter
	Notifications NotificationWriter
}

// SimSpeeds are the accepted speed multipliers.
var SimSpeeds = []int{1, 2, 4}

// ErrInvalidSpeed is returned by SetSimSpeed for unsupported multipliers.
var ErrInvalidSpeed = errors.New("invalid simulation speed")

// Radar range bounds in km.
const (
	MinRadarRangeKM = 5
	MaxRadarRangeKM = 30
)

// Alert thresholds.
const (
	FuelCriticalBelow    = 20.0
	ShieldsCriticalBelow = 30.0
	proximityFactor      = 0.3
	recentNotices        = 20
)

// Controls are the operator settings of a run.
type Controls struct {
	SimSpeed     int              `json:"sim_speed"`
	Running      bool             `json:"running"`
	AIMode       telemetry.AIMode `json:"ai_mode"`
	RadarRangeKM int              `json:"radar_range_km"`
	Warning      bool             `json:"warning"`
}

// Alerts are derived from the telemetry and controls on read.
type Alerts struct {
	FuelCritical     bool `json:"fuel_critical"`
	ShieldsCritical  bool `json:"shields_critical"`
	ProximityRangeKM int  `json:"proximity_range_km"`
}

// State is a consistent copy of everything the presentation layer renders.
type State struct {
	CraftID    string                       `json:"craft_id"`
	RunID      string                       `json:"run_id"`
	Telemetry  telemetry.Snapshot           `json:"telemetry"`
	Debris     debris.Dashboard             `json:"debris"`
	Statistics telemetry.Statistics         `json:"statistics"`
	Navigation telemetry.NavigationControls `json:"navigation"`
	Controls   Controls                     `json:"controls"`
	Alerts     Alerts                       `json:"alerts"`
}

// Simulator owns one telemetry snapshot and the two periodic tasks that mutate it.
type Simulator struct {
	craftID   string
	runID     string
	cfg       *config.SimulationConfig
	writers   Writers
	metrics   *Metrics
	rand      *rand.Rand
	gen       *telemetry.Generator
	debrisEng *debris.Engine
	now       func() time.Time
	log       *slog.Logger

	mu        sync.Mutex
	telemetry telemetry.Snapshot
	debris    debris.Dashboard
	stats     telemetry.Statistics
	nav       telemetry.NavigationControls
	controls  Controls
	notices   []telemetry.NotificationRow

	// lifeMu guards the task handles. It is always taken before mu.
	lifeMu   sync.Mutex
	runCtx   context.Context
	fuelTask *periodicTask
	teleTask *periodicTask
}

// NewSimulator creates a simulator in its initial state. A nil cfg uses the
// defaults, a nil r a time-seeded source and a nil now time.Now.
func NewSimulator(cfg *config.SimulationConfig, w Writers, r *rand.Rand, now func() time.Time) *Simulator {
	if cfg == nil {
		cfg = config.Default()
	} else {
		cfg.ApplyDefaults()
	}
	if !slices.Contains(SimSpeeds, cfg.SimSpeed) {
		cfg.SimSpeed = config.DefaultSimSpeed
	}
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	s := &Simulator{
		craftID:   cfg.CraftID,
		runID:     uuid.NewString(),
		cfg:       cfg,
		writers:   w,
		rand:      r,
		gen:       telemetry.NewGenerator(r),
		debrisEng: debris.NewEngine(r),
		now:       now,
	}
	s.resetLocked()
	return s
}

// SetMetrics attaches Prometheus instruments. Call before Run.
func (s *Simulator) SetMetrics(m *Metrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = m
	m.observe(s.telemetry, s.stats)
}

// SetLogger sets the logger used outside of Run, by the relay and control
// setters. Call before Run.
func (s *Simulator) SetLogger(l *slog.Logger) { s.log = l }

func (s *Simulator) logger() *slog.Logger {
	if s.log == nil {
		return slog.Default()
	}
	return s.log
}

// resetLocked restores every field to its initial value. Caller holds mu.
func (s *Simulator) resetLocked() {
	s.telemetry = s.cfg.InitialSnapshot()
	s.debris = s.cfg.InitialDashboard()
	s.stats = telemetry.InitialStatistics()
	s.nav = telemetry.NavigationControls{}
	s.controls = Controls{
		SimSpeed:     s.cfg.SimSpeed,
		Running:      true,
		AIMode:       telemetry.AIModeOff,
		RadarRangeKM: clampRadar(s.cfg.RadarRangeKM),
		Warning:      false,
	}
}

// CraftID identifies the simulated craft.
func (s *Simulator) CraftID() string { return s.craftID }

// Config returns the simulation configuration.
func (s *Simulator) Config() *config.SimulationConfig { return s.cfg }

// State returns a deep copy of the current state.
func (s *Simulator) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		CraftID:    s.craftID,
		RunID:      s.runID,
		Telemetry:  s.telemetry,
		Debris:     s.debris.Clone(),
		Statistics: s.stats,
		Navigation: s.nav,
		Controls:   s.controls,
		Alerts:     s.alertsLocked(),
	}
}

// Telemetry returns the current snapshot.
func (s *Simulator) Telemetry() telemetry.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.telemetry
}

// Statistics returns the run counters.
func (s *Simulator) Statistics() telemetry.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Notifications returns the most recent notifications, oldest first.
func (s *Simulator) Notifications() []telemetry.NotificationRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notices)
}

func (s *Simulator) alertsLocked() Alerts {
	return Alerts{
		FuelCritical:     s.telemetry.Spacecraft.Fuel < FuelCriticalBelow,
		ShieldsCritical:  s.telemetry.Spacecraft.Shields < ShieldsCriticalBelow,
		ProximityRangeKM: int(math.Round(float64(s.controls.RadarRangeKM) * proximityFactor)),
	}
}

func (s *Simulator) telemetryInterval(speed int) time.Duration {
	return s.cfg.TelemetryTick / time.Duration(speed)
}

func (s *Simulator) rowLocked() telemetry.TelemetryRow {
	return telemetry.NewRow(s.craftID, s.runID, s.telemetry, s.stats, s.controls.SimSpeed, s.now().UTC())
}

// noticeLocked builds a notification and keeps it in the recent list. Caller holds mu.
func (s *Simulator) noticeLocked(title, description string, d time.Duration) telemetry.NotificationRow {
	n := telemetry.NotificationRow{
		ID:          uuid.NewString(),
		CraftID:     s.craftID,
		Title:       title,
		Description: description,
		Duration:    d,
		Timestamp:   s.now().UTC(),
	}
	s.notices = append(s.notices, n)
	if over := len(s.notices) - recentNotices; over > 0 {
		s.notices = slices.Clone(s.notices[over:])
	}
	return n
}

func (s *Simulator) writeTelemetry(log *slog.Logger, row telemetry.TelemetryRow) {
	if s.writers.Telemetry == nil {
		return
	}
	if err := s.writers.Telemetry.Write(row); err != nil {
		log.Error("telemetry write failed", "craft_id", row.CraftID, "err", err)
	}
}

func (s *Simulator) writeEvent(log *slog.Logger, ev debris.EventRow) {
	s.metrics.relayEvent(ev.Kind)
	if s.writers.Events == nil {
		return
	}
	if err := s.writers.Events.WriteDebrisEvent(ev); err != nil {
		log.Error("debris event write failed", "kind", ev.Kind, "err", err)
	}
}

func (s *Simulator) publish(log *slog.Logger, n telemetry.NotificationRow) {
	s.metrics.notification()
	log.Debug("notification", "title", n.Title)
	if s.writers.Notifications == nil {
		return
	}
	if err := s.writers.Notifications.WriteNotification(n); err != nil {
		log.Error("notification write failed", "title", n.Title, "err", err)
	}
}

func clampRadar(km int) int {
	return min(MaxRadarRangeKM, max(MinRadarRangeKM, km))
}

func speedNotice(speed int) string {
	return fmt.Sprintf("Simulation Speed: %dx", speed)
}
