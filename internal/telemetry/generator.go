package telemetry

import (
	"math/rand"
	"time"
)

// Per-tick rates, scaled by the simulation speed multiplier.
const (
	FuelDrainPerTick = 0.01
	DistancePerTick  = 0.05
	// MaxVelocity is exclusive; velocity is drawn from [0, MaxVelocity).
	MaxVelocity = 5
)

// Generator randomizes the telemetry fields that change on the telemetry cadence.
// It is not safe for concurrent use; callers serialize access.
type Generator struct {
	rand *rand.Rand
}

// NewGenerator creates a generator drawing from r. A nil r gets a time-seeded source.
func NewGenerator(r *rand.Rand) *Generator {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rand: r}
}

// Randomize draws a new velocity and solar activity, then recomputes the
// derived radiation, integrity and fuel efficiency values.
func (g *Generator) Randomize(s *Snapshot, nav NavigationControls, st *Statistics) {
	s.Spacecraft.Velocity = float64(g.rand.Intn(MaxVelocity))
	s.Environment.SolarActivity = SolarActivities[g.rand.Intn(len(SolarActivities))]
	s.Safety.RadiationLevel = RadiationFor(s.Environment.SolarActivity)
	s.System.SystemIntegrity = IntegrityFor(s.Safety.CollisionRisk)
	st.FuelEfficiency = FuelEfficiencyFor(nav.Active())
}

// Roll returns true with probability p.
func (g *Generator) Roll(p float64) bool {
	return g.rand.Float64() < p
}

// Drain burns one fuel tick's worth of fuel. Fuel never drops below zero.
func Drain(s *Snapshot, speed int) {
	Burn(s, FuelDrainPerTick*float64(speed))
}

// Burn removes amount from the fuel tank, floored at zero.
func Burn(s *Snapshot, amount float64) {
	s.Spacecraft.Fuel = Clamp(s.Spacecraft.Fuel-amount, 0, MaxFuel)
}

// Advance adds one fuel tick's distance at the current velocity.
func Advance(st *Statistics, speed int, velocity float64) {
	st.DistanceTraveled += DistancePerTick * float64(speed) * velocity
}
