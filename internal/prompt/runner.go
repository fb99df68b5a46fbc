package prompt

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/logging"
	"github.com/muurk/contactform/internal/submission"
	"github.com/muurk/contactform/internal/ui"
)

// Runner walks a form session through a Driver and reports the outcome on
// a Printer.
type Runner struct {
	driver  Driver
	printer *ui.Printer
}

// NewRunner creates a runner
func NewRunner(driver Driver, printer *ui.Printer) *Runner {
	return &Runner{driver: driver, printer: printer}
}

// Fill prompts for the named fields, or for every field when names is
// empty, and records each answer in the session.
func (r *Runner) Fill(ctx context.Context, sess *form.Session, names ...string) error {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	for _, f := range sess.Fields() {
		if len(want) > 0 && !want[f.Name] {
			continue
		}
		if err := r.fillField(ctx, sess, f); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) fillField(ctx context.Context, sess *form.Session, f form.Field) error {
	current, err := sess.Value(f.Name)
	if err != nil {
		return err
	}

	for {
		raw, err := r.ask(ctx, f, current)
		if err != nil {
			return err
		}
		msg, err := sess.Change(f.Name, raw)
		if err != nil {
			return err
		}
		if msg != "" {
			r.printer.Println(ui.ErrorMessageStyle.Render(msg))
			continue
		}

		v, _ := sess.Value(f.Name)
		if f.Required != form.NotRequired && !f.Filled(v) {
			r.printer.Println(ui.ErrorMessageStyle.Render(f.Label + " is required"))
			current = v
			continue
		}
		return nil
	}
}

// ask prompts once for f and returns the raw answer in the form the
// session's Change expects.
func (r *Runner) ask(ctx context.Context, f form.Field, current form.Value) (string, error) {
	switch f.Kind {
	case form.KindText, form.KindEmail:
		return r.driver.Input(ctx, InputConfig{
			Message:  f.Label,
			Default:  current.Text(),
			Help:     f.Help,
			Required: f.Required != form.NotRequired,
			Validate: f.Validate,
		})

	case form.KindPassword:
		return r.driver.Password(ctx, InputConfig{
			Message:  f.Label,
			Help:     f.Help,
			Required: f.Required != form.NotRequired,
			Validate: f.Validate,
		})

	case form.KindTextarea:
		return r.driver.TextArea(ctx, TextAreaConfig{
			Message: f.Label,
			Default: current.Text(),
			Help:    f.Help,
		})

	case form.KindSelect, form.KindRadio:
		labels := make([]string, len(f.Options))
		def := -1
		for i, o := range f.Options {
			labels[i] = o.Label
			if o.Value == current.Text() {
				def = i
			}
		}
		i, err := r.driver.Select(ctx, SelectConfig{
			Message:      f.Label,
			Options:      labels,
			DefaultIndex: def,
			Help:         f.Help,
		})
		if err != nil {
			return "", err
		}
		if i < 0 || i >= len(f.Options) {
			return "", fmt.Errorf("%w: index %d for %s", form.ErrInvalidOption, i, f.Name)
		}
		return f.Options[i].Value, nil

	case form.KindCheckbox:
		message := f.Label
		if f.Help != "" {
			message = f.Help
		}
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: current.Bool()})
		if err != nil {
			return "", err
		}
		if ok {
			return "true", nil
		}
		return "false", nil
	}
	return "", fmt.Errorf("%w: %s has unsupported kind %s", form.ErrWrongShape, f.Name, f.Kind)
}

// Run fills the form, submits it and reports the outcome. Rejected fields
// are asked again; a failed simulated submission offers a retry. It
// returns the confirmed snapshot.
func (r *Runner) Run(ctx context.Context, sess *form.Session) (*form.Snapshot, error) {
	p := sess.Profile()
	r.printer.PrintHeader(p.Title, "prompt", []ui.Param{
		{Key: "Profile", Value: p.Name},
		{Key: "Submission", Value: p.Mode.String()},
	})

	if err := r.Fill(ctx, sess); err != nil {
		return nil, err
	}

	for {
		err := sess.Submit(ctx)

		var serr *form.SubmitError
		if errors.As(err, &serr) {
			if serr.Kind == form.ErrUnfilled {
				r.printer.PrintNotice(sess.Notice())
				sess.DismissAlert()
				if err := r.Fill(ctx, sess, serr.Unfilled...); err != nil {
					return nil, err
				}
				continue
			}
			r.printer.PrintFieldErrors("Fix these fields", serr.Errors, sess.Fields())
			if err := r.Fill(ctx, sess, serr.Errors.Names()...); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}

		if sess.State() == submission.StatePending {
			r.printer.Println(ui.MutedStyle.Render("Submitting..."))
		}
		state, err := sess.Await(ctx)
		if err != nil {
			return nil, err
		}

		switch state {
		case submission.StateSucceeded:
			snap, _ := sess.Confirmation()
			r.printer.PrintConfirmation(snap)
			return &snap, nil

		case submission.StateFailed:
			r.printer.PrintNotice(sess.Notice())
			retry, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Retry?", Default: true})
			if err != nil {
				return nil, err
			}
			if !retry {
				return nil, submission.ErrSubmissionFailed
			}
			logging.Debug("Retrying submission", zap.String("session_id", sess.ID()))

		default:
			return nil, fmt.Errorf("submission ended in state %s", state)
		}
	}
}
