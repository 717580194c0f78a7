package telemetry

import "time"

// TelemetryRow is one flattened snapshot export for the time-series sinks.
type TelemetryRow struct {
	CraftID          string         `json:"craft_id"`          // TAG
	RunID            string         `json:"run_id"`            // TAG
	Velocity         float64        `json:"velocity"`          // FIELD
	Altitude         float64        `json:"altitude"`          // FIELD
	Fuel             float64        `json:"fuel"`              // FIELD
	Shields          float64        `json:"shields"`           // FIELD
	DebrisCount      int            `json:"debris_count"`      // FIELD
	NearbyObjects    int            `json:"nearby_objects"`    // FIELD
	SolarActivity    SolarActivity  `json:"solar_activity"`    // FIELD
	CollisionRisk    CollisionRisk  `json:"collision_risk"`    // FIELD
	RadiationLevel   RadiationLevel `json:"radiation_level"`   // FIELD
	AIStatus         AIStatus       `json:"ai_status"`         // FIELD
	SystemIntegrity  int            `json:"system_integrity"`  // FIELD
	DebrisAvoided    int            `json:"debris_avoided"`    // FIELD
	DistanceTraveled float64        `json:"distance_traveled"` // FIELD
	FuelEfficiency   float64        `json:"fuel_efficiency"`   // FIELD
	SimSpeed         int            `json:"sim_speed"`         // FIELD
	Timestamp        time.Time      `json:"ts"`                // TIME INDEX
}

// NewRow flattens a snapshot and its statistics.
func NewRow(craftID, runID string, s Snapshot, st Statistics, speed int, ts time.Time) TelemetryRow {
	return TelemetryRow{
		CraftID:          craftID,
		RunID:            runID,
		Velocity:         s.Spacecraft.Velocity,
		Altitude:         s.Spacecraft.Altitude,
		Fuel:             s.Spacecraft.Fuel,
		Shields:          s.Spacecraft.Shields,
		DebrisCount:      s.Environment.DebrisCount,
		NearbyObjects:    s.Environment.NearbyObjects,
		SolarActivity:    s.Environment.SolarActivity,
		CollisionRisk:    s.Safety.CollisionRisk,
		RadiationLevel:   s.Safety.RadiationLevel,
		AIStatus:         s.System.AIStatus,
		SystemIntegrity:  s.System.SystemIntegrity,
		DebrisAvoided:    st.DebrisAvoided,
		DistanceTraveled: st.DistanceTraveled,
		FuelEfficiency:   st.FuelEfficiency,
		SimSpeed:         speed,
		Timestamp:        ts,
	}
}

// NotificationRow is a transient operator notice, the terminal and API
// counterpart of a toast.
type NotificationRow struct {
	ID          string        `json:"id"`
	CraftID     string        `json:"craft_id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Duration    time.Duration `json:"duration"`
	Timestamp   time.Time     `json:"ts"`
}

// Notification titles raised by the simulator.
const (
	NoticeSolarWarning = "Solar Activity Warning"
	NoticePaused       = "Simulation Paused"
	NoticeResumed      = "Simulation Resumed"
	NoticeReset        = "Simulation Reset"
)
