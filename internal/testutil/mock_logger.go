// Package testutil provides common test helpers for themedash.
package testutil

import (
	"sync"

	"github.com/turtacn/themedash/internal/infrastructure/monitoring/logging"
)

// MockLogger implements logging.Logger and records every entry.  Loggers
// derived with With or Named write into the same record.
type MockLogger struct {
	sink   *sink
	fields []logging.Field
	name   string
}

type sink struct {
	mu       sync.Mutex
	messages []LogMessage
	level    string
}

// LogMessage is a single captured entry.
type LogMessage struct {
	Level   string
	Logger  string
	Message string
	Fields  []logging.Field
}

// Field returns the value of key and whether it was set.
func (m LogMessage) Field(key string) (interface{}, bool) {
	for i := len(m.Fields) - 1; i >= 0; i-- {
		if m.Fields[i].Key == key {
			return m.Fields[i].Value, true
		}
	}
	return nil, false
}

// NewMockLogger creates a new MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{sink: &sink{level: logging.LevelDebug}}
}

func (m *MockLogger) log(level, msg string, fields []logging.Field) {
	all := make([]logging.Field, 0, len(m.fields)+len(fields))
	all = append(all, m.fields...)
	all = append(all, fields...)

	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	m.sink.messages = append(m.sink.messages, LogMessage{
		Level:   level,
		Logger:  m.name,
		Message: msg,
		Fields:  all,
	})
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.log(logging.LevelDebug, msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.log(logging.LevelInfo, msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.log(logging.LevelWarn, msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.log(logging.LevelError, msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.log("fatal", msg, fields) }

func (m *MockLogger) With(fields ...logging.Field) logging.Logger {
	child := append(append([]logging.Field(nil), m.fields...), fields...)
	return &MockLogger{sink: m.sink, fields: child, name: m.name}
}

func (m *MockLogger) Named(name string) logging.Logger {
	n := name
	if m.name != "" {
		n = m.name + "." + name
	}
	return &MockLogger{sink: m.sink, fields: m.fields, name: n}
}

// SetLevel records the requested level.  Entries are captured regardless.
func (m *MockLogger) SetLevel(level string) error {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	m.sink.level = level
	return nil
}

// Level returns the last level passed to SetLevel.
func (m *MockLogger) Level() string {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	return m.sink.level
}

// GetMessages returns a copy of all logged messages.
func (m *MockLogger) GetMessages() []LogMessage {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	result := make([]LogMessage, len(m.sink.messages))
	copy(result, m.sink.messages)
	return result
}

// Clear removes all logged messages.
func (m *MockLogger) Clear() {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	m.sink.messages = m.sink.messages[:0]
}

// HasMessage checks if a message with the given level and content was logged.
func (m *MockLogger) HasMessage(level, msg string) bool {
	_, ok := m.Find(level, msg)
	return ok
}

// Find returns the first entry with the given level and message.
func (m *MockLogger) Find(level, msg string) (LogMessage, bool) {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	for _, logged := range m.sink.messages {
		if logged.Level == level && logged.Message == msg {
			return logged, true
		}
	}
	return LogMessage{}, false
}
