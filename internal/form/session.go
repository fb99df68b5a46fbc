package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/muurk/contactform/internal/logging"
	"github.com/muurk/contactform/internal/submission"
)

// Options configures a Session
type Options struct {
	ID            string             // Session identifier; a random UUID when empty
	Submission    submission.Options // Mode is taken from the profile
	AlertDuration time.Duration      // Lifetime of the unfilled-fields alert
	Now           func() time.Time   // Clock; defaults to time.Now
}

// Transition is reported to session listeners on every submission state change
type Transition struct {
	From     submission.State
	To       submission.State
	Event    submission.Event
	Snapshot Snapshot // set when To is Succeeded
	Notice   Notice   // failure banner when To is Failed
}

// Session is one user's live form: values, errors, submission state and
// notices.
type Session struct {
	id      string
	profile Profile
	opts    Options
	ctrl    *submission.Controller

	mu        sync.Mutex
	reg       *Registry
	errs      Errors
	notice    Notice
	snapshot  Snapshot
	listeners []func(Transition)
	closed    bool
}

// NewSession creates a session for profile p with every field at its
// initial value.
func NewSession(p Profile, opts Options) (*Session, error) {
	reg, err := NewRegistry(p.Fields)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", p.Name, err)
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.AlertDuration <= 0 {
		opts.AlertDuration = DefaultAlertDuration
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Submission.Mode = p.Mode

	s := &Session{
		id:      opts.ID,
		profile: p,
		opts:    opts,
		reg:     reg,
		errs:    make(Errors),
		ctrl:    submission.New(opts.Submission),
	}
	s.ctrl.OnTransition(s.handleChange)

	logging.LogSessionEvent(s.id, p.Name, "opened")
	return s, nil
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// Profile returns the profile the session was created from
func (s *Session) Profile() Profile { return s.profile }

// AlertDuration returns how long the unfilled-fields alert stays up
func (s *Session) AlertDuration() time.Duration { return s.opts.AlertDuration }

// State returns the submission state
func (s *Session) State() submission.State { return s.ctrl.State() }

// OnTransition registers a listener for submission state changes
func (s *Session) OnTransition(fn func(Transition)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Fields returns the field descriptors in declaration order
func (s *Session) Fields() []Field {
	return s.reg.Fields()
}

// Value returns the current value of the named field
func (s *Session) Value(name string) (Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Get(name)
}

// Errors returns a copy of the current field errors
func (s *Session) Errors() Errors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs.Clone()
}

// Notice returns the banner to show now, or a NoticeNone notice
func (s *Session) Notice() Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.notice.Active(s.opts.Now()) {
		s.notice = Notice{}
	}
	return s.notice
}

// Confirmation returns the snapshot of the last successful submission while
// the confirmation is open.
func (s *Session) Confirmation() (Snapshot, bool) {
	if s.ctrl.State() != submission.StateSucceeded {
		return Snapshot{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot, !s.snapshot.Empty()
}

// Snapshot returns a copy of the current values
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TakeSnapshot(s.reg)
}

// Change applies raw input to one field and re-runs that field's validator.
// It returns the field's error message after the change, "" when valid.
func (s *Session) Change(name, raw string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}
	v, err := s.reg.Parse(name, raw)
	if err != nil {
		return "", err
	}
	return s.setLocked(name, v)
}

// Set stores v in one field and re-runs that field's validator
func (s *Session) Set(name string, v Value) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}
	return s.setLocked(name, v)
}

// Toggle flips a checkbox and returns its new value
func (s *Session) Toggle(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	cur, err := s.reg.Get(name)
	if err != nil {
		return false, err
	}
	if !cur.IsBool() {
		return false, fmt.Errorf("%w: %q is not a checkbox", ErrWrongShape, name)
	}
	next := BoolValue(!cur.Bool())
	if _, err := s.setLocked(name, next); err != nil {
		return false, err
	}
	return next.Bool(), nil
}

func (s *Session) setLocked(name string, v Value) (string, error) {
	if err := s.reg.Set(name, v); err != nil {
		return "", err
	}
	f, _ := s.reg.Field(name)
	msg := f.Check(v)
	if msg == "" {
		delete(s.errs, name)
	} else {
		s.errs[name] = msg
	}
	logging.LogFieldChange(s.id, name, msg)
	return msg, nil
}

// Submit checks the form and hands a valid submission to the controller.
//
// An unfilled required field returns a *SubmitError of kind ErrUnfilled
// and raises the alert when the profile asks for it. Such profiles accept
// any filled form. Otherwise failing validators return kind ErrInvalid with
// the errors recorded on the session. Submitting
// after a failure dismisses the failure banner first. ctx bounds a simulated
// submission.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	if serr := s.checkLocked(); serr != nil {
		if serr.Kind == ErrUnfilled && s.profile.AlertOnUnfilled {
			s.notice = Notice{
				Kind:    NoticeAlert,
				Message: serr.Alert,
				Expires: s.opts.Now().Add(s.opts.AlertDuration),
			}
		}
		s.mu.Unlock()

		logging.LogSessionEvent(s.id, s.profile.Name, "submit_rejected_"+serr.Kind.String())
		if err := s.ctrl.Reject(); err != nil && !errors.Is(err, submission.ErrInvalidTransition) {
			return err
		}
		return serr
	}

	if s.notice.Kind == NoticeAlert {
		s.notice = Notice{}
	}
	s.mu.Unlock()

	if s.ctrl.State() == submission.StateFailed {
		if err := s.ctrl.Dismiss(); err != nil {
			return err
		}
	}
	if err := s.ctrl.Submit(ctx); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return nil
}

// checkLocked runs the required rules and, unless the profile gates on
// unfilled fields only, every validator. Must be called with s.mu held.
func (s *Session) checkLocked() *SubmitError {
	var unfilled []string
	s.reg.Each(func(f Field, v Value) {
		if !f.Filled(v) {
			unfilled = append(unfilled, f.Name)
		}
	})

	if s.profile.AlertOnUnfilled {
		// Errors from Change stay on display but never block.
		if len(unfilled) > 0 {
			return &SubmitError{Kind: ErrUnfilled, Unfilled: unfilled, Alert: AlertUnfilled}
		}
		return nil
	}

	s.reg.Each(func(f Field, v Value) {
		if msg := f.Check(v); msg != "" {
			s.errs[f.Name] = msg
		} else {
			delete(s.errs, f.Name)
		}
	})
	for _, name := range unfilled {
		if _, ok := s.errs[name]; !ok {
			f, _ := s.reg.Field(name)
			s.errs[name] = fmt.Sprintf("%s is required", f.Label)
		}
	}

	if len(s.errs) > 0 {
		return &SubmitError{Kind: ErrInvalid, Errors: s.errs.Clone(), Unfilled: unfilled}
	}
	return nil
}

// Await blocks until a pending submission resolves or ctx is done
func (s *Session) Await(ctx context.Context) (submission.State, error) {
	return s.ctrl.Await(ctx)
}

// Dismiss closes the confirmation or failure banner. Field values are kept.
func (s *Session) Dismiss() error {
	return s.ctrl.Dismiss()
}

// DismissAlert clears the unfilled-fields alert before it expires
func (s *Session) DismissAlert() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notice.Kind == NoticeAlert {
		s.notice = Notice{}
	}
}

// Close cancels any pending submission. The session rejects further input.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.ctrl.Close()
	logging.LogSessionEvent(s.id, s.profile.Name, "closed")
}

// handleChange keeps notices and the snapshot in step with the controller
func (s *Session) handleChange(c submission.Change) {
	s.mu.Lock()
	t := Transition{From: c.From, To: c.To, Event: c.Event}
	switch c.To {
	case submission.StateSucceeded:
		s.snapshot = TakeSnapshot(s.reg)
		s.notice = Notice{}
		t.Snapshot = s.snapshot
	case submission.StateFailed:
		s.notice = Notice{Kind: NoticeFailure, Message: FailureMessage}
		t.Notice = s.notice
	case submission.StatePending:
		if s.notice.Kind == NoticeFailure {
			s.notice = Notice{}
		}
	case submission.StateEditing:
		if c.Event == submission.EventDismiss {
			s.snapshot = Snapshot{}
			if s.notice.Kind == NoticeFailure {
				s.notice = Notice{}
			}
		}
	}
	listeners := make([]func(Transition), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	logging.LogTransition(s.id, s.profile.Name, c.From.String(), c.To.String(), c.Event.String())
	for _, fn := range listeners {
		fn(t)
	}
}
