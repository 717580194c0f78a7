package sim

import (
	"context"

	"auroguard/internal/logging"
	"auroguard/internal/telemetry"
)

// Solar warning notification text.
const solarWarningDescription = "Increased solar radiation detected. Shield monitoring advised."

// Run starts the periodic tasks and blocks until ctx is done. Pausing,
// resuming and speed changes restart the tasks while Run is active. When Run
// returns no task goroutine is left behind. Run must not be called concurrently.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting simulator",
		"craft_id", s.craftID,
		"run_id", s.runID,
		"fuel_tick", s.cfg.FuelTick,
		"telemetry_tick", s.cfg.TelemetryTick,
	)

	s.lifeMu.Lock()
	s.runCtx = ctx
	s.lifeMu.Unlock()
	s.syncTasks()

	<-ctx.Done()

	s.lifeMu.Lock()
	s.stopTasksLocked()
	s.runCtx = nil
	s.lifeMu.Unlock()
	log.Info("stopping simulator")
}

// syncTasks restarts the periodic tasks to match the running flag and speed.
func (s *Simulator) syncTasks() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	s.stopTasksLocked()
	if s.runCtx == nil || s.runCtx.Err() != nil {
		return
	}
	s.mu.Lock()
	running, speed := s.controls.Running, s.controls.SimSpeed
	s.mu.Unlock()
	if !running {
		return
	}
	s.fuelTask = startTask(s.runCtx, "fuel", s.cfg.FuelTick, s.fuelTick)
	s.teleTask = startTask(s.runCtx, "telemetry", s.telemetryInterval(speed), s.telemetryTick)
}

// stopTasksLocked stops both tasks. Caller holds lifeMu but not mu.
func (s *Simulator) stopTasksLocked() {
	s.fuelTask.stop()
	s.teleTask.stop()
	s.fuelTask, s.teleTask = nil, nil
}

// activeTasks reports how many periodic tasks are scheduled.
func (s *Simulator) activeTasks() int {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	n := 0
	if s.fuelTask != nil {
		n++
	}
	if s.teleTask != nil {
		n++
	}
	return n
}

// fuelTick burns fuel and advances the distance counter.
func (s *Simulator) fuelTick(ctx context.Context) {
	s.mu.Lock()
	if !s.controls.Running {
		s.mu.Unlock()
		return
	}
	speed := s.controls.SimSpeed
	telemetry.Drain(&s.telemetry, speed)
	telemetry.Advance(&s.stats, speed, s.telemetry.Spacecraft.Velocity)
	s.metrics.tick("fuel")
	s.metrics.observe(s.telemetry, s.stats)
	s.mu.Unlock()
}

// telemetryTick randomizes telemetry and debris descriptors, then exports a row.
func (s *Simulator) telemetryTick(ctx context.Context) {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	if !s.controls.Running {
		s.mu.Unlock()
		return
	}
	s.gen.Randomize(&s.telemetry, s.nav, &s.stats)
	s.debris.Descriptor = s.debrisEng.Randomize()

	var notice *telemetry.NotificationRow
	if s.telemetry.Environment.SolarActivity == telemetry.SolarHigh && s.gen.Roll(s.cfg.SolarWarningChance()) {
		n := s.noticeLocked(telemetry.NoticeSolarWarning, solarWarningDescription, noticeLong)
		notice = &n
	}
	row := s.rowLocked()
	s.metrics.tick("telemetry")
	s.metrics.observe(s.telemetry, s.stats)
	s.mu.Unlock()

	s.writeTelemetry(log, row)
	if notice != nil {
		log.Warn("solar activity high", "craft_id", s.craftID)
		s.publish(log, *notice)
	}
}
