package sim

import (
	"errors"

	"auroguard/internal/debris"
	"auroguard/internal/telemetry"
)

// MultiWriter fans rows out to every attached sink. A failing sink does not
// keep the others from receiving the row; the errors are joined.
type MultiWriter struct {
	sinks []Sink
}

// NewMultiWriter creates a new MultiWriter. Nil sinks are skipped.
func NewMultiWriter(sinks ...Sink) *MultiWriter {
	mw := &MultiWriter{}
	for _, s := range sinks {
		if s != nil {
			mw.sinks = append(mw.sinks, s)
		}
	}
	return mw
}

// Write sends a telemetry row to all sinks.
func (mw *MultiWriter) Write(row telemetry.TelemetryRow) error {
	var errs []error
	for _, w := range mw.sinks {
		if err := w.Write(row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteBatch sends multiple telemetry rows to all sinks, using batch if supported.
func (mw *MultiWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	var errs []error
	for _, w := range mw.sinks {
		if bw, ok := w.(batchWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				errs = append(errs, err)
				break
			}
		}
	}
	return errors.Join(errs...)
}

// WriteDebrisEvent sends a debris event to all sinks.
func (mw *MultiWriter) WriteDebrisEvent(ev debris.EventRow) error {
	var errs []error
	for _, w := range mw.sinks {
		if err := w.WriteDebrisEvent(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteNotification sends a notification to all sinks.
func (mw *MultiWriter) WriteNotification(n telemetry.NotificationRow) error {
	var errs []error
	for _, w := range mw.sinks {
		if err := w.WriteNotification(n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
