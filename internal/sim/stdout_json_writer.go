package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"auroguard/internal/debris"
	"auroguard/internal/telemetry"
)

// JSONStdoutWriter prints telemetry, debris events and notifications as JSON lines.
type JSONStdoutWriter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

func (w *JSONStdoutWriter) emit(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}

// Write outputs a telemetry row in JSON format.
func (w *JSONStdoutWriter) Write(row telemetry.TelemetryRow) error {
	return w.emit(row)
}

// WriteBatch outputs multiple telemetry rows in JSON format.
func (w *JSONStdoutWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteDebrisEvent outputs a debris relay event in JSON format.
func (w *JSONStdoutWriter) WriteDebrisEvent(ev debris.EventRow) error {
	return w.emit(ev)
}

// WriteNotification outputs a notification in JSON format.
func (w *JSONStdoutWriter) WriteNotification(n telemetry.NotificationRow) error {
	return w.emit(n)
}
