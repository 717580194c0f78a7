// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"auroguard/internal/debris"
	"auroguard/internal/telemetry"
)

// Defaults applied to zero-valued settings.
const (
	DefaultCraftID                 = "auroguard-01"
	DefaultFuelTick                = time.Second
	DefaultTelemetryTick           = 3 * time.Second
	DefaultSimSpeed                = 1
	DefaultRadarRangeKM            = 15
	DefaultSolarWarningProbability = 0.3
)

// InitialTelemetry overrides the starting snapshot. Zero values keep the defaults.
type InitialTelemetry struct {
	Altitude    float64 `yaml:"altitude"`
	Fuel        float64 `yaml:"fuel"`
	Shields     float64 `yaml:"shields"`
	DebrisCount int     `yaml:"debris_count"`
}

// SimulationConfig is the root configuration of a simulation run.
type SimulationConfig struct {
	CraftID         string           `yaml:"craft_id"`
	Initial         InitialTelemetry `yaml:"initial"`
	FuelTick        time.Duration    `yaml:"fuel_tick"`
	TelemetryTick   time.Duration    `yaml:"telemetry_tick"`
	SimSpeed        int              `yaml:"sim_speed"`
	RadarRangeKM    int              `yaml:"radar_range_km"`
	HistoryCapacity int              `yaml:"history_capacity"`
	// SolarWarningProbability is a pointer so an explicit 0 disables the warning.
	SolarWarningProbability *float64 `yaml:"solar_warning_probability"`
	Scenario                string   `yaml:"scenario"`
}

// Default returns a configuration with every default applied.
func Default() *SimulationConfig {
	cfg := &SimulationConfig{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued settings.
func (c *SimulationConfig) ApplyDefaults() {
	if c.CraftID == "" {
		c.CraftID = DefaultCraftID
	}
	if c.FuelTick <= 0 {
		c.FuelTick = DefaultFuelTick
	}
	if c.TelemetryTick <= 0 {
		c.TelemetryTick = DefaultTelemetryTick
	}
	if c.SimSpeed <= 0 {
		c.SimSpeed = DefaultSimSpeed
	}
	if c.RadarRangeKM <= 0 {
		c.RadarRangeKM = DefaultRadarRangeKM
	}
	if c.HistoryCapacity <= 0 {
		c.HistoryCapacity = debris.DefaultHistoryCapacity
	}
	if c.SolarWarningProbability == nil {
		p := DefaultSolarWarningProbability
		c.SolarWarningProbability = &p
	}
}

// SolarWarningChance returns the configured probability, defaulting when unset.
func (c *SimulationConfig) SolarWarningChance() float64 {
	if c.SolarWarningProbability == nil {
		return DefaultSolarWarningProbability
	}
	return *c.SolarWarningProbability
}

// InitialSnapshot builds the starting telemetry with overrides applied.
func (c *SimulationConfig) InitialSnapshot() telemetry.Snapshot {
	s := telemetry.Initial()
	if c.Initial.Altitude > 0 {
		s.Spacecraft.Altitude = c.Initial.Altitude
	}
	if c.Initial.Fuel > 0 {
		s.Spacecraft.Fuel = c.Initial.Fuel
	}
	if c.Initial.Shields > 0 {
		s.Spacecraft.Shields = c.Initial.Shields
	}
	if c.Initial.DebrisCount > 0 {
		s.Environment.DebrisCount = c.Initial.DebrisCount
	}
	s.Normalize()
	return s
}

// InitialDashboard builds the starting debris panel consistent with InitialSnapshot.
func (c *SimulationConfig) InitialDashboard() debris.Dashboard {
	d := debris.InitialDashboard()
	d.Count = c.InitialSnapshot().Environment.DebrisCount
	return d
}

// Load validates a YAML config against the CUE schema and decodes it.
// An empty cueSchemaPath uses the embedded schema.
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()

	slog.Debug("loaded configuration", "path", configPath, "craft_id", cfg.CraftID, "sim_speed", cfg.SimSpeed)

	return &cfg, nil
}
