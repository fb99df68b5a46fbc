// Package logging provides structured logging for contactform.
//
// This package wraps a global zap logger with convenience functions for the
// logging patterns used by the form server, the terminal form and the CLI.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (every field change, WebSocket message types, never field values)
//   - Info: Normal operations (sessions opened, submissions, state changes)
//   - Warn: Non-fatal issues (rejected input, dropped connections)
//   - Error: Fatal issues (startup failures, mDNS registration errors)
//
// # Silent By Default
//
// Logging is off unless a level is passed to Initialize or set through
// CONTACTFORM_LOG_LEVEL. The terminal front ends share the screen with the
// program output, so they log to stderr through InitializeWithOutput.
//
// # Specialized Logging
//
// Session logging:
//
//	logging.LogSessionEvent(sessionID, "classic", "opened")
//	logging.LogTransition(sessionID, "async", "editing", "pending", "submit")
//
// WebSocket message logging:
//
//	logging.LogWebSocketMessage(remoteAddr, "received", msgType, payload)
//
// HTTP request logging:
//
//	logging.LogHTTPRequest(remoteAddr, method, path, status, duration)
//
// # Configuration
//
//	if err := logging.Initialize("debug"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use once Initialize has
// returned.
package logging
