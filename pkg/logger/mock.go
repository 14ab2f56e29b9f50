package logger

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// LogMessage is one call recorded by MockLogger.
type LogMessage struct {
	Level string
	Msg   string
	Args  []any
}

// journal is shared by a MockLogger and every logger derived from it.
type journal struct {
	mu      sync.Mutex
	entries []LogMessage
}

// MockLogger records log calls so tests can assert on them. Loggers
// returned by With and WithGroup write to the same record.
type MockLogger struct {
	j     *journal
	attrs []any
}

// NewMockLogger returns an empty recording logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{j: &journal{}}
}

func (m *MockLogger) record(level, msg string, args []any) {
	m.j.mu.Lock()
	defer m.j.mu.Unlock()
	m.j.entries = append(m.j.entries, LogMessage{
		Level: level,
		Msg:   msg,
		Args:  append(slices.Clone(m.attrs), args...),
	})
}

// Debug records a DEBUG entry.
func (m *MockLogger) Debug(msg string, args ...any) { m.record("DEBUG", msg, args) }

// Info records an INFO entry.
func (m *MockLogger) Info(msg string, args ...any) { m.record("INFO", msg, args) }

// Warn records a WARN entry.
func (m *MockLogger) Warn(msg string, args ...any) { m.record("WARN", msg, args) }

// Error records an ERROR entry.
func (m *MockLogger) Error(msg string, args ...any) { m.record("ERROR", msg, args) }

// With returns a logger that prefixes args to every entry.
func (m *MockLogger) With(args ...any) Logger {
	return &MockLogger{j: m.j, attrs: append(slices.Clone(m.attrs), args...)}
}

// WithGroup records the group as a "group" attribute.
func (m *MockLogger) WithGroup(name string) Logger {
	return m.With("group", name)
}

// Entries returns a copy of everything recorded so far.
func (m *MockLogger) Entries() []LogMessage {
	m.j.mu.Lock()
	defer m.j.mu.Unlock()
	return slices.Clone(m.j.entries)
}

func (m *MockLogger) match(fn func(LogMessage) bool) int {
	n := 0
	for _, e := range m.Entries() {
		if fn(e) {
			n++
		}
	}
	return n
}

// HasMessage reports whether msg was logged at level.
func (m *MockLogger) HasMessage(level, msg string) bool {
	return m.match(func(e LogMessage) bool { return e.Level == level && e.Msg == msg }) > 0
}

// HasMessageContaining reports whether a message at level contains substring.
func (m *MockLogger) HasMessageContaining(level, substring string) bool {
	return m.match(func(e LogMessage) bool {
		return e.Level == level && strings.Contains(e.Msg, substring)
	}) > 0
}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	return m.match(func(e LogMessage) bool { return e.Level == level })
}

// Clear drops every recorded entry.
func (m *MockLogger) Clear() {
	m.j.mu.Lock()
	defer m.j.mu.Unlock()
	m.j.entries = nil
}

// String renders the record one entry per line, for failure messages.
func (m *MockLogger) String() string {
	var b strings.Builder
	for _, e := range m.Entries() {
		fmt.Fprintf(&b, "[%s] %s %v\n", e.Level, e.Msg, e.Args)
	}
	return b.String()
}
