package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "CONTACTFORM_LOG_LEVEL"

// Initialize creates a new logger with the specified level writing to stdout.
// If level is empty, it checks CONTACTFORM_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	return InitializeWithOutput(level, "stdout")
}

// InitializeWithOutput is Initialize with an explicit output path
// ("stdout", "stderr" or a file path).
func InitializeWithOutput(level, output string) error {
	// If no level provided, check environment variable
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	// If still no level, use silent mode (nop logger)
	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	// Customize encoder for better readability
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		// Unknown level - use info as default when explicitly set to something
		return zapcore.InfoLevel
	}
}

// ValidLevel reports whether level is empty or a recognised level name
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// SetLogger replaces the global logger. Intended for tests.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogHTTPRequest logs a served HTTP request
func LogHTTPRequest(remoteAddr, method, path string, status int, duration time.Duration) {
	Info("HTTP request",
		zap.String("remote_addr", remoteAddr),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("duration", duration),
	)
}

// LogSessionEvent logs a form session lifecycle event
func LogSessionEvent(sessionID, profile, event string) {
	Info("Session event",
		zap.String("session_id", sessionID),
		zap.String("profile", profile),
		zap.String("event", event),
	)
}

// LogTransition logs a submission state change
func LogTransition(sessionID, profile, from, to, event string) {
	Info("Submission state changed",
		zap.String("session_id", sessionID),
		zap.String("profile", profile),
		zap.String("from", from),
		zap.String("to", to),
		zap.String("event", event),
	)
}

// LogFieldChange logs a single field update and its validation result
func LogFieldChange(sessionID, field, message string) {
	Debug("Field changed",
		zap.String("session_id", sessionID),
		zap.String("field", field),
		zap.Bool("valid", message == ""),
		zap.String("error", message),
	)
}

// LogWebSocketMessage logs a WebSocket message
func LogWebSocketMessage(remoteAddr string, direction string, messageType int, data []byte) {
	fields := []zap.Field{
		zap.String("remote_addr", remoteAddr),
		zap.String("direction", direction),
		zap.String("message_type", wsMessageTypeName(messageType)),
		zap.Int("length", len(data)),
	}

	// Payloads carry field values, passwords included. Only the envelope is logged.
	if messageType == 1 && GetLogger().Core().Enabled(zapcore.DebugLevel) {
		var envelope struct {
			Type  string `json:"type"`
			Field string `json:"field"`
		}
		if err := json.Unmarshal(data, &envelope); err == nil {
			fields = append(fields, zap.String("type", envelope.Type))
			if envelope.Field != "" {
				fields = append(fields, zap.String("field", envelope.Field))
			}
		}
	}

	Debug("WebSocket message", fields...)
}

func wsMessageTypeName(msgType int) string {
	switch msgType {
	case 1:
		return "text"
	case 2:
		return "binary"
	case 8:
		return "close"
	case 9:
		return "ping"
	case 10:
		return "pong"
	default:
		return fmt.Sprintf("unknown(%d)", msgType)
	}
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
