package logger

import (
	"sync"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
)

// NoopLogger implements the Logger interface but doesn't do anything
type NoopLogger struct {
	level core.LogLevel
}

// NewNoopLogger creates a new no-op logger
func NewNoopLogger() core.Logger {
	return &NoopLogger{
		level: core.LogLevelInfo,
	}
}

// SetLevel sets the minimum log level to output
func (l *NoopLogger) SetLevel(level core.LogLevel) {
	l.level = level
}

// GetLevel gets the current log level
func (l *NoopLogger) GetLevel() core.LogLevel {
	return l.level
}

// Debug logs debug messages
func (l *NoopLogger) Debug(string, map[string]any) {}

// Info logs informational messages
func (l *NoopLogger) Info(string, map[string]any) {}

// Warn logs warning messages
func (l *NoopLogger) Warn(string, map[string]any) {}

// Error logs errors messages
func (l *NoopLogger) Error(string, map[string]any) {}

// Flush is a no-op
func (l *NoopLogger) Flush() error {
	return nil
}

// Entry is one message captured by RecordingLogger
type Entry struct {
	Level   core.LogLevel
	Message string
	Fields  map[string]any
}

// RecordingLogger keeps every entry in memory so tests can assert on warnings
type RecordingLogger struct {
	mu      sync.Mutex
	level   core.LogLevel
	entries []Entry
}

// NewRecordingLogger creates a logger that records entries at debug level and above
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{level: core.LogLevelDebug}
}

// SetLevel sets the minimum level recorded
func (l *RecordingLogger) SetLevel(level core.LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel gets the current log level
func (l *RecordingLogger) GetLevel() core.LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *RecordingLogger) record(level core.LogLevel, message string, fields map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	l.entries = append(l.entries, Entry{Level: level, Message: message, Fields: fields})
}

// Debug records a debug entry
func (l *RecordingLogger) Debug(message string, fields map[string]any) {
	l.record(core.LogLevelDebug, message, fields)
}

// Info records an info entry
func (l *RecordingLogger) Info(message string, fields map[string]any) {
	l.record(core.LogLevelInfo, message, fields)
}

// Warn records a warning entry
func (l *RecordingLogger) Warn(message string, fields map[string]any) {
	l.record(core.LogLevelWarn, message, fields)
}

// Error records an error entry
func (l *RecordingLogger) Error(message string, fields map[string]any) {
	l.record(core.LogLevelError, message, fields)
}

// Flush is a no-op
func (l *RecordingLogger) Flush() error {
	return nil
}

// Entries returns a copy of the recorded entries
func (l *RecordingLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Messages returns the messages recorded at level
func (l *RecordingLogger) Messages(level core.LogLevel) []string {
	var messages []string
	for _, e := range l.Entries() {
		if e.Level == level {
			messages = append(messages, e.Message)
		}
	}
	return messages
}
