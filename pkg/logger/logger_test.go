package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestMockLogger(t *testing.T) {
	mock := NewMockLogger()

	mock.Info("analysis complete", "findings", 3)
	mock.Debug("pattern matched")
	mock.Warn("no session")
	mock.Error("analysis failed", "error", "boom")

	if n := len(mock.Entries()); n != 4 {
		t.Errorf("Expected 4 messages, got %d", n)
	}

	if !mock.HasMessage("INFO", "analysis complete") {
		t.Error("Expected to find INFO message")
	}

	if !mock.HasMessageContaining("ERROR", "failed") {
		t.Error("Expected to find ERROR message containing 'failed'")
	}

	if mock.Count("WARN") != 1 {
		t.Errorf("Expected 1 WARN message, got %d", mock.Count("WARN"))
	}

	scoped := mock.With("operator", "Admin")
	scoped.Info("logged in")

	entries := mock.Entries()
	lastMsg := entries[len(entries)-1]
	if lastMsg.Msg != "logged in" {
		t.Errorf("Expected scoped message, got: %s", lastMsg.Msg)
	}

	found := false
	for i := 0; i < len(lastMsg.Args)-1; i += 2 {
		if lastMsg.Args[i] == "operator" && lastMsg.Args[i+1] == "Admin" {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected to find operator attribute in args")
	}

	if !strings.Contains(mock.String(), "[INFO] logged in") {
		t.Errorf("String() missing scoped message: %s", mock.String())
	}

	mock.Clear()
	if len(mock.Entries()) != 0 {
		t.Error("Expected messages to be cleared")
	}
}

func TestLoggerInterface(_ *testing.T) {
	var _ Logger = &SlogLogger{}
	var _ Logger = &MockLogger{}

	exercise := func(l Logger) {
		l.Info("test")
		l.Debug("debug")
		l.Warn("warn")
		l.Error("error")
		l.With("key", "value").Info("with context")
		l.WithGroup("ui").Info("grouped")
	}

	exercise(NewMockLogger())
	exercise(NewLogger(false, "text"))
	exercise(&SlogLogger{})
}

func TestSetOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, true, "json")
	t.Cleanup(func() { SetupLogger(false, "text") })

	WithComponent("analyzer").Debug("step", "n", 1)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "analyzer" {
		t.Errorf("component = %v, want analyzer", entry["component"])
	}
	if entry["msg"] != "step" {
		t.Errorf("msg = %v, want step", entry["msg"])
	}
}

func TestSetOutputTextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, false, "text")
	t.Cleanup(func() { SetupLogger(false, "text") })

	Debug("hidden")
	Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("info message missing: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for name, want := range cases {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}
