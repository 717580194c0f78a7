package sim

import (
	"fmt"
	"slices"
	"time"

	"auroguard/internal/telemetry"
)

// How long a notification stays on screen.
const (
	noticeShort = 2 * time.Second
	noticeLong  = 5 * time.Second
)

// PressNavigation activates a thruster direction and burns the fixed
// navigation cost. It returns false, changing nothing, when the tank is empty.
func (s *Simulator) PressNavigation(dir telemetry.Direction) bool {
	s.mu.Lock()
	if s.telemetry.Spacecraft.Fuel <= 0 {
		s.mu.Unlock()
		s.metrics.navRejected(dir)
		s.logger().Debug("navigation rejected", "direction", dir, "reason", "no fuel")
		return false
	}
	s.nav.Set(dir, true)
	telemetry.Burn(&s.telemetry, telemetry.NavigationFuelCost)
	s.metrics.observe(s.telemetry, s.stats)
	s.mu.Unlock()
	return true
}

// ReleaseNavigation deactivates a thruster direction.
func (s *Simulator) ReleaseNavigation(dir telemetry.Direction) {
	s.mu.Lock()
	s.nav.Set(dir, false)
	s.mu.Unlock()
}

// SetSimSpeed changes the speed multiplier and reschedules the telemetry task.
func (s *Simulator) SetSimSpeed(speed int) error {
	if !slices.Contains(SimSpeeds, speed) {
		return fmt.Errorf("%w: %d", ErrInvalidSpeed, speed)
	}
	s.mu.Lock()
	s.controls.SimSpeed = speed
	n := s.noticeLocked(speedNotice(speed), "", noticeShort)
	s.mu.Unlock()

	s.syncTasks()
	s.logger().Info("simulation speed changed", "sim_speed", speed, "tick_interval", s.telemetryInterval(speed))
	s.publish(s.logger(), n)
	return nil
}

// ToggleRunning pauses or resumes both periodic tasks and returns the new running flag.
func (s *Simulator) ToggleRunning() bool {
	s.mu.Lock()
	s.controls.Running = !s.controls.Running
	running := s.controls.Running
	title := telemetry.NoticePaused
	if running {
		title = telemetry.NoticeResumed
	}
	n := s.noticeLocked(title, "", noticeShort)
	s.mu.Unlock()

	s.syncTasks()
	s.logger().Info("simulation running changed", "running", running)
	s.publish(s.logger(), n)
	return running
}

// SetAIMode selects the autopilot mode. Modes other than off need fuel;
// the call returns false when it was rejected.
func (s *Simulator) SetAIMode(mode telemetry.AIMode) bool {
	s.mu.Lock()
	if mode.Active() && s.telemetry.Spacecraft.Fuel <= 0 {
		s.mu.Unlock()
		s.logger().Debug("ai mode rejected", "mode", mode, "reason", "no fuel")
		return false
	}
	s.controls.AIMode = mode
	s.telemetry.System.AIStatus = mode.Status()
	n := s.noticeLocked("AI Mode: "+mode.Label(), "", noticeShort)
	s.mu.Unlock()

	s.publish(s.logger(), n)
	return true
}

// SetRadarRange sets the radar range in km, clamped to the supported band,
// and returns the value applied.
func (s *Simulator) SetRadarRange(km int) int {
	km = clampRadar(km)
	s.mu.Lock()
	s.controls.RadarRangeKM = km
	s.mu.Unlock()
	return km
}

// DismissWarning clears the collision warning until the next High risk report.
func (s *Simulator) DismissWarning() {
	s.mu.Lock()
	s.controls.Warning = false
	s.mu.Unlock()
}

// ResetAll restores the telemetry, debris panel, statistics, navigation and
// controls to their initial values and restarts the tasks.
func (s *Simulator) ResetAll() {
	s.mu.Lock()
	s.resetLocked()
	n := s.noticeLocked(telemetry.NoticeReset, "All systems restored to initial values.", noticeShort)
	s.metrics.observe(s.telemetry, s.stats)
	s.mu.Unlock()

	s.syncTasks()
	s.logger().Info("simulation reset", "craft_id", s.craftID)
	s.publish(s.logger(), n)
}
