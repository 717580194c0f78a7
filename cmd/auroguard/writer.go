package main

import (
	"errors"

	"auroguard/internal/config"
	"auroguard/internal/sim"
)

// writerOptions select the sinks of a run.
type writerOptions struct {
	printOnly bool
	logFile   string
	tui       bool
}

// newWriters sets up the sinks based on flags and env settings. It returns
// the combined sink, the TUI writer when enabled, and a cleanup function
// closing any resources.
func newWriters(cfg *config.SimulationConfig, e config.Env, opts writerOptions) (sim.Sink, *sim.TUIWriter, func() error, error) {
	var closers []func() error
	cleanup := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	var (
		sinks []sim.Sink
		tui   *sim.TUIWriter
	)
	if opts.tui {
		tui = sim.NewTUIWriter(cfg)
		closers = append(closers, tui.Close)
		sinks = append(sinks, tui)
	}

	base, err := baseWriter(cfg, e, opts.printOnly, tui == nil)
	if err != nil {
		_ = cleanup()
		return nil, nil, nil, err
	}
	if base != nil {
		sinks = append(sinks, base)
	}

	if opts.logFile != "" {
		fw, err := sim.NewFileWriter(opts.logFile, opts.logFile+".events", opts.logFile+".notifications")
		if err != nil {
			_ = cleanup()
			return nil, nil, nil, err
		}
		closers = append(closers, fw.Close)
		sinks = append(sinks, fw)
	}

	if len(sinks) == 1 {
		return sinks[0], tui, cleanup, nil
	}
	return sim.NewMultiWriter(sinks...), tui, cleanup, nil
}

// baseWriter chooses GreptimeDB when an endpoint is configured and STDOUT
// otherwise. STDOUT is skipped when the TUI owns the terminal.
func baseWriter(cfg *config.SimulationConfig, e config.Env, printOnly, stdout bool) (sim.Sink, error) {
	if printOnly || e.GreptimeEndpoint == "" {
		if !stdout {
			return nil, nil
		}
		return sim.NewStdoutWriter(cfg), nil
	}
	return sim.NewGreptimeDBWriter(e.GreptimeEndpoint, e.GreptimeDatabase, sim.GreptimeTables{
		Telemetry:     e.TelemetryTable,
		DebrisEvents:  e.DebrisEventTable,
		Notifications: e.NotificationTable,
	})
}
