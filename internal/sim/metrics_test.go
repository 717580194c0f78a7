package sim

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auroguard/internal/config"
	"auroguard/internal/debris"
	"auroguard/internal/telemetry"
)

func TestMetricsRecordSimulatorActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	zero := 0.0
	s, _ := newTestSimulator(t, &config.SimulationConfig{SolarWarningProbability: &zero})
	s.SetMetrics(m)
	assert.Equal(t, 100.0, testutil.ToFloat64(m.fuel))

	s.fuelTick(t.Context())
	s.telemetryTick(t.Context())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticks.WithLabelValues("fuel")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticks.WithLabelValues("telemetry")))
	assert.InDelta(t, 99.99, testutil.ToFloat64(m.fuel), 1e-9)

	require.True(t, s.SetAIMode(telemetry.AIModeAvoid))
	s.OnCollisionRiskChange(telemetry.RiskHigh, 2)
	s.OnDebrisCountChange(12)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.debrisAvoided))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.relayEvents.WithLabelValues(debris.EventRisk)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.relayEvents.WithLabelValues(debris.EventCount)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications))

	s.mu.Lock()
	s.telemetry.Spacecraft.Fuel = 0
	s.mu.Unlock()
	s.PressNavigation(telemetry.DirUp)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.navRejections.WithLabelValues("up")))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.tick("fuel")
	m.observe(telemetry.Initial(), telemetry.InitialStatistics())
	m.relayEvent(debris.EventCount)
	m.avoided()
	m.notification()
	m.navRejected(telemetry.DirUp)
}
