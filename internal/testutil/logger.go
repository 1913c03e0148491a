// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
)

// NopLogger returns a logger that discards all output.
// Use this in tests to avoid log noise.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// LogBuffer collects JSON log lines. Safe for concurrent use.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Entries decodes every line written so far
func (b *LogBuffer) Entries() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()

	var entries []map[string]any
	dec := json.NewDecoder(bytes.NewReader(b.buf.Bytes()))
	for {
		var entry map[string]any
		if err := dec.Decode(&entry); err != nil {
			return entries
		}
		entries = append(entries, entry)
	}
}

// Find returns the first entry with the given message, or nil
func (b *LogBuffer) Find(msg string) map[string]any {
	for _, entry := range b.Entries() {
		if entry[slog.MessageKey] == msg {
			return entry
		}
	}
	return nil
}

// CaptureLogger returns a debug-level JSON logger writing into a LogBuffer
func CaptureLogger() (*slog.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}
