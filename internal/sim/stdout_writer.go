// Writer selection for STDOUT
package sim

import (
	"os"

	"golang.org/x/term"

	"auroguard/internal/config"
)

// Sink accepts all three row kinds a simulator produces.
type Sink interface {
	TelemetryWriter
	DebrisEventWriter
	NotificationWriter
}

// SinkWriters returns a bundle routing every row kind to s.
func SinkWriters(s Sink) Writers {
	return Writers{Telemetry: s, Events: s, Notifications: s}
}

// NewStdoutWriter returns a colorized writer when STDOUT is a terminal and a
// JSON lines writer otherwise, so piped output stays machine readable.
func NewStdoutWriter(cfg *config.SimulationConfig) Sink {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return NewColorStdoutWriter(cfg)
	}
	return NewJSONStdoutWriter()
}

var (
	_ Sink = (*JSONStdoutWriter)(nil)
	_ Sink = (*ColorStdoutWriter)(nil)
	_ Sink = (*FileWriter)(nil)
	_ Sink = (*MultiWriter)(nil)
	_ Sink = (*GreptimeDBWriter)(nil)
	_ Sink = (*TUIWriter)(nil)
)
