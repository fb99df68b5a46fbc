package logging

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidLevel(t *testing.T) {
	for _, lvl := range []string{"", "debug", "info", "warn", "error"} {
		if !ValidLevel(lvl) {
			t.Errorf("ValidLevel(%q) = false, want true", lvl)
		}
	}
	if ValidLevel("loud") {
		t.Error("ValidLevel(\"loud\") = true, want false")
	}
}

func TestInitialize_SilentWithoutLevel(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be silent when no level is configured")
	}
}

func TestInitialize_FromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")
	defer SetLogger(nil)

	if err := InitializeWithOutput("", "stderr"); err != nil {
		t.Fatalf("InitializeWithOutput() error = %v", err)
	}
	core := GetLogger().Core()
	if !core.Enabled(zapcore.WarnLevel) || core.Enabled(zapcore.InfoLevel) {
		t.Error("logger level should follow CONTACTFORM_LOG_LEVEL")
	}
}

func TestHelpers_WriteStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogSessionEvent("s1", "classic", "opened")
	LogTransition("s1", "async", "editing", "pending", "submit")
	LogFieldChange("s1", "emailInput", "Invalid Email")
	LogHTTPRequest("127.0.0.1:1", "GET", "/", 200, time.Millisecond)
	LogWebSocketMessage("127.0.0.1:1", "received", 1, []byte(`{"type":"submit"}`))

	entries := logs.All()
	if len(entries) != 5 {
		t.Fatalf("got %d log entries, want 5", len(entries))
	}

	transition := entries[1].ContextMap()
	if transition["from"] != "editing" || transition["to"] != "pending" {
		t.Errorf("transition fields = %v", transition)
	}

	field := entries[2].ContextMap()
	if field["valid"] != false || field["error"] != "Invalid Email" {
		t.Errorf("field change fields = %v", field)
	}

	ws := entries[4].ContextMap()
	if ws["type"] != "submit" {
		t.Errorf("websocket type = %v", ws["type"])
	}
}

func TestLogWebSocketMessage_OmitsValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	frames := []string{
		`{"type":"change","field":"passwordInput","value":"hunter2!"}`,
		`{"type":"confirmation","rows":[{"name":"passwordInput","value":"hunter2!"}]}`,
		`not json hunter2!`,
	}
	for _, frame := range frames {
		LogWebSocketMessage("127.0.0.1:1", "received", 1, []byte(frame))
	}

	entries := logs.All()
	if len(entries) != len(frames) {
		t.Fatalf("got %d log entries, want %d", len(entries), len(frames))
	}
	for i, entry := range entries {
		for key, v := range entry.ContextMap() {
			if s, ok := v.(string); ok && strings.Contains(s, "hunter2") {
				t.Errorf("entry %d field %q leaks the value: %q", i, key, s)
			}
		}
	}
	change := entries[0].ContextMap()
	if change["type"] != "change" || change["field"] != "passwordInput" {
		t.Errorf("change fields = %v", change)
	}
}
