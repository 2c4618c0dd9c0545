// Package testutil provides shared test helpers for pauling: a recording
// logger and fixture molecules.
package testutil

import (
	"context"
	"sync"

	"github.com/turtacn/pauling/internal/infrastructure/monitoring/logging"
)

// LogMessage represents a single log entry captured by MockLogger.  Fields
// holds the fields bound through With, WithContext and WithError followed
// by the call-site fields.
type LogMessage struct {
	Level   logging.Level
	Logger  string
	Message string
	Fields  []logging.Field
}

type recorder struct {
	mu       sync.Mutex
	messages []LogMessage
}

// MockLogger implements logging.Logger by recording every entry in memory.
// Children returned by With, Named, WithContext and WithError write into the
// same buffer as their parent.
type MockLogger struct {
	rec    *recorder
	name   string
	fields []logging.Field
}

// NewMockLogger creates an empty recording logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{rec: &recorder{}}
}

func (m *MockLogger) log(level logging.Level, msg string, fields []logging.Field) {
	all := make([]logging.Field, 0, len(m.fields)+len(fields))
	all = append(all, m.fields...)
	all = append(all, fields...)

	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	m.rec.messages = append(m.rec.messages, LogMessage{
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

// Fatal records the entry at "fatal" and does not exit.
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.log("fatal", msg, fields) }

func (m *MockLogger) child(name string, extra ...logging.Field) *MockLogger {
	fields := make([]logging.Field, 0, len(m.fields)+len(extra))
	fields = append(fields, m.fields...)
	fields = append(fields, extra...)
	return &MockLogger{rec: m.rec, name: name, fields: fields}
}

func (m *MockLogger) With(fields ...logging.Field) logging.Logger {
	return m.child(m.name, fields...)
}

func (m *MockLogger) Named(name string) logging.Logger {
	if m.name != "" {
		name = m.name + "." + name
	}
	return m.child(name)
}

func (m *MockLogger) WithContext(ctx context.Context) logging.Logger {
	if id := logging.RequestIDFromContext(ctx); id != "" {
		return m.child(m.name, logging.String("request_id", id))
	}
	return m
}

func (m *MockLogger) WithError(err error) logging.Logger {
	if err == nil {
		return m
	}
	return m.child(m.name, logging.Err(err))
}

func (m *MockLogger) Sync() error { return nil }

// GetMessages returns a copy of all logged messages.
func (m *MockLogger) GetMessages() []LogMessage {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	out := make([]LogMessage, len(m.rec.messages))
	copy(out, m.rec.messages)
	return out
}

// Clear removes all logged messages.
func (m *MockLogger) Clear() {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	m.rec.messages = nil
}

// HasMessage reports whether msg was logged at level.
func (m *MockLogger) HasMessage(level logging.Level, msg string) bool {
	_, ok := m.find(level, msg)
	return ok
}

// Field returns the value of the first field named key on the first message
// matching level and msg.
func (m *MockLogger) Field(level logging.Level, msg, key string) (interface{}, bool) {
	logged, ok := m.find(level, msg)
	if !ok {
		return nil, false
	}
	for _, f := range logged.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

func (m *MockLogger) find(level logging.Level, msg string) (LogMessage, bool) {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	for _, logged := range m.rec.messages {
		if logged.Level == level && logged.Message == msg {
			return logged, true
		}
	}
	return LogMessage{}, false
}

var _ logging.Logger = (*MockLogger)(nil)

//Personal.AI order the ending
