package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"auroguard/internal/debris"
	"auroguard/internal/telemetry"
)

// FileWriter writes telemetry, debris events and notifications to JSONL files.
type FileWriter struct {
	mu         sync.Mutex
	teleFile   *os.File
	eventFile  *os.File
	noticeFile *os.File
	teleEnc    *json.Encoder
	eventEnc   *json.Encoder
	noticeEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. eventPath or noticePath may be empty to skip those logs.
func NewFileWriter(telemetryPath, eventPath, noticePath string) (*FileWriter, error) {
	tf, err := os.Create(telemetryPath)
	if err != nil {
		return nil, fmt.Errorf("create telemetry log: %w", err)
	}
	fw := &FileWriter{teleFile: tf, teleEnc: json.NewEncoder(tf)}
	if eventPath != "" {
		ef, err := os.Create(eventPath)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("create debris event log: %w", err)
		}
		fw.eventFile = ef
		fw.eventEnc = json.NewEncoder(ef)
	}
	if noticePath != "" {
		nf, err := os.Create(noticePath)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("create notification log: %w", err)
		}
		fw.noticeFile = nf
		fw.noticeEnc = json.NewEncoder(nf)
	}
	return fw, nil
}

// Write logs a single telemetry row.
func (f *FileWriter) Write(row telemetry.TelemetryRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.teleEnc.Encode(row)
}

// WriteBatch logs multiple telemetry rows.
func (f *FileWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteDebrisEvent logs a debris relay event, if enabled.
func (f *FileWriter) WriteDebrisEvent(ev debris.EventRow) error {
	if f.eventEnc == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.eventEnc.Encode(ev)
}

// WriteNotification logs a notification, if enabled.
func (f *FileWriter) WriteNotification(n telemetry.NotificationRow) error {
	if f.noticeEnc == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.noticeEnc.Encode(n)
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	for _, file := range []*os.File{f.teleFile, f.eventFile, f.noticeFile} {
		if file == nil {
			continue
		}
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
