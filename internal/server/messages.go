package server

import (
	"github.com/muurk/contactform/internal/form"
)

// Client message types
const (
	MsgChange  = "change"
	MsgSubmit  = "submit"
	MsgDismiss = "dismiss"
)

// Server message types
const (
	MsgSession      = "session"
	MsgField        = "field"
	MsgState        = "state"
	MsgAlert        = "alert"
	MsgErrors       = "errors"
	MsgFailure      = "failure"
	MsgConfirmation = "confirmation"
	MsgError        = "error"
)

// ClientMessage is a message sent by the browser over the form WebSocket
type ClientMessage struct {
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

// ServerMessage is a message sent to the browser. Only the fields relevant
// to Type are set.
type ServerMessage struct {
	Type       string            `json:"type"`
	SessionID  string            `json:"session_id,omitempty"`
	Profile    string            `json:"profile,omitempty"`
	Field      string            `json:"field,omitempty"`
	Error      *string           `json:"error,omitempty"` // "" clears the field error
	State      string            `json:"state,omitempty"`
	Message    string            `json:"message,omitempty"`
	DurationMS int64             `json:"duration_ms,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	Title      string            `json:"title,omitempty"`
	Rows       []form.Row        `json:"rows,omitempty"`
}

func fieldMessage(field, msg string) ServerMessage {
	return ServerMessage{Type: MsgField, Field: field, Error: &msg}
}

func stateMessage(state string) ServerMessage {
	return ServerMessage{Type: MsgState, State: state}
}

func errorMessage(msg string) ServerMessage {
	return ServerMessage{Type: MsgError, Message: msg}
}
