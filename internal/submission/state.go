package submission

import (
	"errors"
	"fmt"
)

// State is the submission state of a form session
type State int

const (
	// StateEditing is the initial state: the user is filling in the form
	StateEditing State = iota
	// StatePending means a simulated submission is in flight
	StatePending
	// StateSucceeded means the submission was accepted and the confirmation is showing
	StateSucceeded
	// StateFailed means the simulated submission failed
	StateFailed
)

// String returns the lowercase name used on the wire and in logs
func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// Terminal reports whether the state is a resolved outcome
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Event drives a state transition
type Event int

const (
	EventSubmit Event = iota
	EventConfirm
	EventFail
	EventReject
	EventCancel
	EventDismiss
)

// String returns the lowercase event name
func (e Event) String() string {
	switch e {
	case EventSubmit:
		return "submit"
	case EventConfirm:
		return "confirm"
	case EventFail:
		return "fail"
	case EventReject:
		return "reject"
	case EventCancel:
		return "cancel"
	case EventDismiss:
		return "dismiss"
	default:
		return fmt.Sprintf("Event(%d)", e)
	}
}

var (
	// ErrInvalidTransition is returned when an event is not allowed in the current state
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrSubmissionFailed is reported when a simulated submission resolves to Failed
	ErrSubmissionFailed = errors.New("form submission failed")
)

// Transition returns the state reached from current on event. Invalid
// transitions return current together with an error wrapping
// ErrInvalidTransition.
func Transition(current State, event Event) (State, error) {
	switch current {
	case StateEditing:
		switch event {
		case EventSubmit:
			return StatePending, nil
		case EventConfirm:
			return StateSucceeded, nil
		case EventReject:
			return StateEditing, nil
		}
	case StatePending:
		switch event {
		case EventSubmit:
			return StatePending, nil
		case EventConfirm:
			return StateSucceeded, nil
		case EventFail:
			return StateFailed, nil
		case EventCancel:
			return StateEditing, nil
		}
	case StateSucceeded, StateFailed:
		if event == EventDismiss {
			return StateEditing, nil
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
	return current, fmt.Errorf("%w: %s --(%s)--> ?", ErrInvalidTransition, current, event)
}
