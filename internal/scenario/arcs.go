package scenario

import (
	"time"

	"auroguard/internal/telemetry"
)

func count(n int) *int { return &n }

// BuiltIn returns predefined debris encounters.
func BuiltIn() map[string]Scenario {
	return map[string]Scenario{
		"debris-storm": {
			Name:        "Debris Storm",
			Description: "A fragmentation event floods the orbit with debris until the autopilot has cleared enough of it.",
			Phases: []Phase{
				{
					Name:        "setup",
					Description: "Sparse field, nothing close.",
					Steps: []Step{
						{After: 5 * time.Second, DebrisCount: count(25), Risk: telemetry.RiskLow},
						{After: 5 * time.Second, DebrisCount: count(28), Risk: telemetry.RiskLow},
					},
					Triggers: []Trigger{{Event: EventTimeElapsed, Value: 20, Next: "escalation"}},
				},
				{
					Name:        "escalation",
					Description: "Fragments spread and close in.",
					Steps: []Step{
						{After: 3 * time.Second, DebrisCount: count(40), Risk: telemetry.RiskMedium, Nearby: 2},
						{After: 3 * time.Second, DebrisCount: count(55), Risk: telemetry.RiskMedium, Nearby: 3},
					},
					Triggers: []Trigger{{Event: EventDebrisCount, Value: 55, Next: "climax"}},
				},
				{
					Name:        "climax",
					Description: "Dense cloud on a crossing path.",
					Steps: []Step{
						{After: 2 * time.Second, DebrisCount: count(70), Risk: telemetry.RiskHigh, Nearby: 5},
						{After: 2 * time.Second, Risk: telemetry.RiskHigh, Nearby: 6},
						{After: 2 * time.Second, Risk: telemetry.RiskMedium, Nearby: 4},
					},
					Triggers: []Trigger{
						{Event: EventDebrisAvoided, Value: 10, Next: "resolution"},
						{Event: EventTimeElapsed, Value: 120, Next: "resolution"},
					},
				},
				{
					Name:        "resolution",
					Description: "The cloud disperses behind the craft.",
					Steps: []Step{
						{After: 5 * time.Second, DebrisCount: count(35), Risk: telemetry.RiskLow},
					},
				},
			},
		},
		"close-pass": {
			Name:        "Close Pass",
			Description: "A single large object passes within meters of the craft.",
			Phases: []Phase{
				{
					Name:        "setup",
					Description: "Object acquired at long range.",
					Steps: []Step{
						{After: 5 * time.Second, DebrisCount: count(26), Risk: telemetry.RiskLow, Nearby: 1},
					},
					Triggers: []Trigger{{Event: EventTimeElapsed, Value: 10, Next: "escalation"}},
				},
				{
					Name:        "escalation",
					Description: "Closing velocity rises.",
					Steps: []Step{
						{After: 3 * time.Second, Risk: telemetry.RiskMedium, Nearby: 1},
					},
					Triggers: []Trigger{{Event: EventTimeElapsed, Value: 9, Next: "climax"}},
				},
				{
					Name:        "climax",
					Description: "Closest approach.",
					Steps: []Step{
						{After: 2 * time.Second, Risk: telemetry.RiskHigh, Nearby: 1},
					},
					Triggers: []Trigger{{Event: EventTimeElapsed, Value: 6, Next: "resolution"}},
				},
				{
					Name:        "resolution",
					Description: "Object recedes.",
					Steps: []Step{
						{After: 3 * time.Second, Risk: telemetry.RiskLow},
					},
				},
			},
		},
		"quiet-orbit": {
			Name:        "Quiet Orbit",
			Description: "Routine patrol with occasional detections, for long soak runs.",
			Phases: []Phase{
				{
					Name:        "setup",
					Description: "Baseline field.",
					Steps: []Step{
						{After: 10 * time.Second, DebrisCount: count(24), Risk: telemetry.RiskLow},
						{After: 10 * time.Second, DebrisCount: count(27), Risk: telemetry.RiskLow},
						{After: 10 * time.Second, DebrisCount: count(25), Risk: telemetry.RiskMedium, Nearby: 1},
						{After: 10 * time.Second, Risk: telemetry.RiskLow},
					},
					Triggers: []Trigger{{Event: EventTimeElapsed, Value: 3600, Next: "resolution"}},
				},
				{
					Name:        "resolution",
					Description: "Patrol complete.",
				},
			},
		},
	}
}
