// Spacecraft telemetry snapshot and its enumerations
package telemetry

import (
	"errors"
	"fmt"
	"strings"
)

// SolarActivity is the space-weather level around the craft.
type SolarActivity string

const (
	SolarLow      SolarActivity = "Low"
	SolarModerate SolarActivity = "Moderate"
	SolarHigh     SolarActivity = "High"
)

// SolarActivities lists every level in draw order.
var SolarActivities = []SolarActivity{SolarLow, SolarModerate, SolarHigh}

// CollisionRisk is the proximity risk reported by the debris renderer.
type CollisionRisk string

const (
	RiskLow    CollisionRisk = "Low"
	RiskMedium CollisionRisk = "Medium"
	RiskHigh   CollisionRisk = "High"
)

// ErrInvalidRisk is returned when a collision risk label is not recognised.
var ErrInvalidRisk = errors.New("invalid collision risk")

// ParseCollisionRisk accepts Low, Medium or High in any case.
func ParseCollisionRisk(s string) (CollisionRisk, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow, nil
	case "medium":
		return RiskMedium, nil
	case "high":
		return RiskHigh, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRisk, s)
}

// Avoidable reports whether an active AI mode counts this risk as an avoided encounter.
func (r CollisionRisk) Avoidable() bool {
	return r == RiskMedium || r == RiskHigh
}

// RadiationLevel tracks solar activity.
type RadiationLevel string

const (
	RadiationNormal   RadiationLevel = "Normal"
	RadiationElevated RadiationLevel = "Elevated"
)

// RadiationFor returns Elevated only for high solar activity.
func RadiationFor(s SolarActivity) RadiationLevel {
	if s == SolarHigh {
		return RadiationElevated
	}
	return RadiationNormal
}

// AIStatus is the status line shown for the autopilot.
type AIStatus string

const (
	AIInactive  AIStatus = "Inactive"
	AIAvoidance AIStatus = "Avoidance Active"
	AITracking  AIStatus = "Tracking Active"
)

// AIMode is the operator-selected autopilot mode.
type AIMode string

const (
	AIModeOff   AIMode = "off"
	AIModeAvoid AIMode = "avoid"
	AIModeTrack AIMode = "track"
)

// ErrInvalidAIMode is returned for unknown AI mode names.
var ErrInvalidAIMode = errors.New("invalid ai mode")

// ParseAIMode accepts off, avoid or track.
func ParseAIMode(s string) (AIMode, error) {
	switch m := AIMode(strings.ToLower(strings.TrimSpace(s))); m {
	case AIModeOff, AIModeAvoid, AIModeTrack:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAIMode, s)
}

// Status maps the mode to the telemetry status string.
func (m AIMode) Status() AIStatus {
	switch m {
	case AIModeAvoid:
		return AIAvoidance
	case AIModeTrack:
		return AITracking
	default:
		return AIInactive
	}
}

// Label is the operator-facing name of the mode.
func (m AIMode) Label() string {
	switch m {
	case AIModeAvoid:
		return "Avoidance"
	case AIModeTrack:
		return "Tracking"
	default:
		return "Disabled"
	}
}

// Active is true for every mode except off.
func (m AIMode) Active() bool { return m == AIModeAvoid || m == AIModeTrack }

// Spacecraft holds the craft's own readings.
type Spacecraft struct {
	Velocity float64 `json:"velocity"`
	Altitude float64 `json:"altitude"`
	Fuel     float64 `json:"fuel"`
	Shields  float64 `json:"shields"`
}

// Environment describes the surrounding debris field.
type Environment struct {
	DebrisCount   int           `json:"debris_count"`
	NearbyObjects int           `json:"nearby_objects"`
	SolarActivity SolarActivity `json:"solar_activity"`
}

// Safety holds risk indicators.
type Safety struct {
	CollisionRisk  CollisionRisk  `json:"collision_risk"`
	RadiationLevel RadiationLevel `json:"radiation_level"`
}

// System holds onboard system status.
type System struct {
	AIStatus        AIStatus `json:"ai_status"`
	SystemIntegrity int      `json:"system_integrity"`
}

// Snapshot is the full telemetry state of the craft.
type Snapshot struct {
	Spacecraft  Spacecraft  `json:"spacecraft"`
	Environment Environment `json:"environment"`
	Safety      Safety      `json:"safety"`
	System      System      `json:"system"`
}

// Telemetry bounds.
const (
	MaxFuel                  = 100.0
	MaxShields               = 100.0
	MinIntegrity             = 80
	BaseIntegrity            = 98
	HighRiskIntegrityPenalty = 5
	InitialAltitude          = 400.0
	InitialDebrisCount       = 25
)

// Initial returns the snapshot every run starts from.
func Initial() Snapshot {
	return Snapshot{
		Spacecraft: Spacecraft{
			Velocity: 0,
			Altitude: InitialAltitude,
			Fuel:     MaxFuel,
			Shields:  MaxShields,
		},
		Environment: Environment{
			DebrisCount:   InitialDebrisCount,
			NearbyObjects: 0,
			SolarActivity: SolarLow,
		},
		Safety: Safety{
			CollisionRisk:  RiskLow,
			RadiationLevel: RadiationNormal,
		},
		System: System{
			AIStatus:        AIInactive,
			SystemIntegrity: BaseIntegrity,
		},
	}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Normalize enforces the snapshot's range invariants.
func (s *Snapshot) Normalize() {
	s.Spacecraft.Fuel = Clamp(s.Spacecraft.Fuel, 0, MaxFuel)
	s.Spacecraft.Shields = Clamp(s.Spacecraft.Shields, 0, MaxShields)
	if s.Spacecraft.Velocity < 0 {
		s.Spacecraft.Velocity = 0
	}
	if s.Spacecraft.Altitude < 0 {
		s.Spacecraft.Altitude = 0
	}
	if s.Environment.DebrisCount < 0 {
		s.Environment.DebrisCount = 0
	}
	if s.Environment.NearbyObjects < 0 {
		s.Environment.NearbyObjects = 0
	}
	if s.System.SystemIntegrity < MinIntegrity {
		s.System.SystemIntegrity = MinIntegrity
	} else if s.System.SystemIntegrity > BaseIntegrity {
		s.System.SystemIntegrity = BaseIntegrity
	}
	s.Safety.RadiationLevel = RadiationFor(s.Environment.SolarActivity)
}

// IntegrityFor recomputes system integrity from the current collision risk.
func IntegrityFor(risk CollisionRisk) int {
	penalty := 0
	if risk == RiskHigh {
		penalty = HighRiskIntegrityPenalty
	}
	return max(MinIntegrity, BaseIntegrity-penalty)
}

// Statistics are the run's cumulative counters.
type Statistics struct {
	DebrisAvoided    int     `json:"debris_avoided"`
	DistanceTraveled float64 `json:"distance_traveled"`
	FuelEfficiency   float64 `json:"fuel_efficiency"`
}

// Fuel efficiency bounds.
const (
	MaxFuelEfficiency          = 100.0
	MinFuelEfficiency          = 60.0
	FuelEfficiencyPerDirection = 5.0
)

// InitialStatistics returns zeroed counters with full efficiency.
func InitialStatistics() Statistics {
	return Statistics{FuelEfficiency: MaxFuelEfficiency}
}

// FuelEfficiencyFor charges five points per active thruster direction.
func FuelEfficiencyFor(activeDirections int) float64 {
	return max(MinFuelEfficiency, MaxFuelEfficiency-FuelEfficiencyPerDirection*float64(activeDirections))
}
