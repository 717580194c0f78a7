package telemetry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomizeRanges(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(7)))
	snap := Initial()
	stats := InitialStatistics()
	seen := map[SolarActivity]bool{}
	for i := 0; i < 500; i++ {
		gen.Randomize(&snap, NavigationControls{}, &stats)
		v := snap.Spacecraft.Velocity
		if v < 0 || v >= MaxVelocity || v != math.Trunc(v) {
			t.Fatalf("velocity %v out of range", v)
		}
		seen[snap.Environment.SolarActivity] = true
		if (snap.Environment.SolarActivity == SolarHigh) != (snap.Safety.RadiationLevel == RadiationElevated) {
			t.Fatalf("radiation %s does not follow solar %s", snap.Safety.RadiationLevel, snap.Environment.SolarActivity)
		}
	}
	assert.Len(t, seen, 3)
}

func TestRandomizeIntegrity(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(1)))
	stats := InitialStatistics()

	snap := Initial()
	snap.Safety.CollisionRisk = RiskHigh
	gen.Randomize(&snap, NavigationControls{}, &stats)
	assert.Equal(t, 93, snap.System.SystemIntegrity)

	snap.Safety.CollisionRisk = RiskMedium
	gen.Randomize(&snap, NavigationControls{}, &stats)
	assert.Equal(t, 98, snap.System.SystemIntegrity)
}

func TestRandomizeFuelEfficiency(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(1)))
	snap := Initial()
	stats := InitialStatistics()
	gen.Randomize(&snap, NavigationControls{Up: true, Left: true}, &stats)
	assert.Equal(t, 90.0, stats.FuelEfficiency)
	gen.Randomize(&snap, NavigationControls{}, &stats)
	assert.Equal(t, 100.0, stats.FuelEfficiency)
}

func TestRandomizeDeterministic(t *testing.T) {
	a := NewGenerator(rand.New(rand.NewSource(42)))
	b := NewGenerator(rand.New(rand.NewSource(42)))
	sa, sb := Initial(), Initial()
	ta, tb := InitialStatistics(), InitialStatistics()
	for i := 0; i < 10; i++ {
		a.Randomize(&sa, NavigationControls{}, &ta)
		b.Randomize(&sb, NavigationControls{}, &tb)
		require.Equal(t, sa, sb)
	}
}

func TestDrain(t *testing.T) {
	for _, speed := range []int{1, 2, 4} {
		snap := Initial()
		const n = 250
		for i := 0; i < n; i++ {
			Drain(&snap, speed)
		}
		want := math.Max(0, MaxFuel-FuelDrainPerTick*float64(speed)*n)
		assert.InDelta(t, want, snap.Spacecraft.Fuel, 1e-9, "speed %d", speed)
	}
}

func TestDrainFloorsAtZero(t *testing.T) {
	snap := Initial()
	snap.Spacecraft.Fuel = 0.015
	Drain(&snap, 4)
	assert.Equal(t, 0.0, snap.Spacecraft.Fuel)
	Drain(&snap, 4)
	assert.Equal(t, 0.0, snap.Spacecraft.Fuel)
}

func TestAdvance(t *testing.T) {
	st := InitialStatistics()
	Advance(&st, 2, 3)
	assert.InDelta(t, 0.3, st.DistanceTraveled, 1e-12)
	Advance(&st, 1, 0)
	assert.InDelta(t, 0.3, st.DistanceTraveled, 1e-12)
}

func TestRoll(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(3)))
	for i := 0; i < 100; i++ {
		if gen.Roll(0) {
			t.Fatalf("Roll(0) returned true")
		}
		if !gen.Roll(1) {
			t.Fatalf("Roll(1) returned false")
		}
	}
}
