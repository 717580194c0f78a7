package sim

import (
	"github.com/google/uuid"

	"auroguard/internal/debris"
	"auroguard/internal/telemetry"
)

// OnDebrisCountChange records a new debris count reported by the renderer.
// The detection history keeps the most recent counts up to its capacity.
func (s *Simulator) OnDebrisCountChange(count int) {
	count = max(0, count)

	s.mu.Lock()
	s.telemetry.Environment.DebrisCount = count
	s.debris.Record(count, s.cfg.HistoryCapacity)
	ev := s.eventLocked(debris.EventCount)
	s.mu.Unlock()

	s.writeEvent(s.logger(), ev)
}

// OnCollisionRiskChange records the risk level and number of nearby objects.
// A High risk raises the warning flag. With an AI mode active every Medium or
// High report counts as one avoided object, repeated reports included.
func (s *Simulator) OnCollisionRiskChange(risk telemetry.CollisionRisk, nearby int) {
	nearby = max(0, nearby)

	s.mu.Lock()
	s.telemetry.Environment.NearbyObjects = nearby
	s.telemetry.Safety.CollisionRisk = risk
	s.debris.Nearby = nearby
	s.debris.Risk = risk
	s.controls.Warning = risk == telemetry.RiskHigh
	avoided := s.controls.AIMode.Active() && risk.Avoidable()
	if avoided {
		s.stats.DebrisAvoided++
	}
	ev := s.eventLocked(debris.EventRisk)
	s.mu.Unlock()

	log := s.logger()
	if avoided {
		s.metrics.avoided()
		log.Debug("debris avoided", "risk", risk, "total", ev.DebrisAvoided)
	}
	if ev.Warning {
		log.Warn("collision risk high", "nearby", nearby)
	}
	s.writeEvent(log, ev)
}

func (s *Simulator) eventLocked(kind string) debris.EventRow {
	return debris.EventRow{
		ID:            uuid.NewString(),
		CraftID:       s.craftID,
		Kind:          kind,
		DebrisCount:   s.debris.Count,
		NearbyObjects: s.debris.Nearby,
		Risk:          s.debris.Risk,
		Warning:       s.controls.Warning,
		DebrisAvoided: s.stats.DebrisAvoided,
		Timestamp:     s.now().UTC(),
	}
}
