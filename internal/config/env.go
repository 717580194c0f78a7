package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env holds deployment settings read from environment variables.
type Env struct {
	ClusterID         string        `env:"CLUSTER_ID"`
	GreptimeEndpoint  string        `env:"GREPTIMEDB_ENDPOINT"`
	GreptimeDatabase  string        `env:"GREPTIMEDB_DATABASE" envDefault:"public"`
	TelemetryTable    string        `env:"GREPTIMEDB_TABLE" envDefault:"spacecraft_telemetry"`
	DebrisEventTable  string        `env:"DEBRIS_EVENT_TABLE" envDefault:"debris_events"`
	NotificationTable string        `env:"NOTIFICATION_TABLE" envDefault:"notifications"`
	AdminAddr         string        `env:"ADMIN_ADDR" envDefault:":8080"`
	TickInterval      time.Duration `env:"TICK_INTERVAL"`
	DatasourceUID     string        `env:"GREPTIMEDB_DATASOURCE_UID"`
}

// LoadEnv parses Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Apply lets environment overrides win over file settings.
func (e Env) Apply(cfg *SimulationConfig) {
	if e.ClusterID != "" {
		cfg.CraftID = e.ClusterID
	}
	if e.TickInterval > 0 {
		cfg.FuelTick = e.TickInterval
	}
}
