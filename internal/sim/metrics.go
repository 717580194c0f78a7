package sim

import (
	"github.com/prometheus/client_golang/prometheus"

	"auroguard/internal/telemetry"
)

// Metrics holds the Prometheus instruments updated by a Simulator.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ticks         *prometheus.CounterVec
	relayEvents   *prometheus.CounterVec
	navRejections *prometheus.CounterVec
	notifications prometheus.Counter
	debrisAvoided prometheus.Counter
	fuel          prometheus.Gauge
	shields       prometheus.Gauge
	distance      prometheus.Gauge
	efficiency    prometheus.Gauge
}

// NewMetrics creates the simulator instruments and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auroguard",
			Name:      "ticks_total",
			Help:      "Periodic task executions by task.",
		}, []string{"task"}),
		relayEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auroguard",
			Name:      "debris_events_total",
			Help:      "Debris relay callbacks by kind.",
		}, []string{"kind"}),
		navRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auroguard",
			Name:      "navigation_rejected_total",
			Help:      "Thruster presses rejected for lack of fuel.",
		}, []string{"direction"}),
		notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "auroguard",
			Name:      "notifications_total",
			Help:      "Operator notifications raised.",
		}),
		debrisAvoided: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "auroguard",
			Name:      "debris_avoided_total",
			Help:      "Encounters counted as avoided by the autopilot.",
		}),
		fuel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "auroguard",
			Name:      "fuel_percent",
			Help:      "Remaining fuel.",
		}),
		shields: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "auroguard",
			Name:      "shields_percent",
			Help:      "Remaining shield strength.",
		}),
		distance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "auroguard",
			Name:      "distance_traveled",
			Help:      "Distance traveled since the last reset.",
		}),
		efficiency: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "auroguard",
			Name:      "fuel_efficiency_percent",
			Help:      "Current fuel efficiency.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ticks, m.relayEvents, m.navRejections, m.notifications,
			m.debrisAvoided, m.fuel, m.shields, m.distance, m.efficiency)
	}
	return m
}

func (m *Metrics) tick(task string) {
	if m == nil {
		return
	}
	m.ticks.WithLabelValues(task).Inc()
}

func (m *Metrics) observe(s telemetry.Snapshot, st telemetry.Statistics) {
	if m == nil {
		return
	}
	m.fuel.Set(s.Spacecraft.Fuel)
	m.shields.Set(s.Spacecraft.Shields)
	m.distance.Set(st.DistanceTraveled)
	m.efficiency.Set(st.FuelEfficiency)
}

func (m *Metrics) relayEvent(kind string) {
	if m == nil {
		return
	}
	m.relayEvents.WithLabelValues(kind).Inc()
}

func (m *Metrics) avoided() {
	if m == nil {
		return
	}
	m.debrisAvoided.Inc()
}

func (m *Metrics) notification() {
	if m == nil {
		return
	}
	m.notifications.Inc()
}

func (m *Metrics) navRejected(dir telemetry.Direction) {
	if m == nil {
		return
	}
	m.navRejections.WithLabelValues(string(dir)).Inc()
}
