package prompt

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/muurk/contactform/internal/validation"
)

// ErrAborted is returned when the user interrupts a prompt
var ErrAborted = errors.New("prompt aborted")

// InputConfig configures a single-line or password prompt
type InputConfig struct {
	Message  string
	Default  string
	Help     string
	Required bool
	Validate validation.Func
}

// validator composes the required check with the field validator. The
// prompt re-asks until it passes.
func (c InputConfig) validator() survey.Validator {
	var vs []survey.Validator
	if c.Required {
		vs = append(vs, survey.Required)
	}
	if c.Validate != nil {
		vs = append(vs, validation.AsSurveyValidator(c.Validate))
	}
	if len(vs) == 0 {
		return nil
	}
	return survey.ComposeValidators(vs...)
}

// TextAreaConfig configures a multi-line prompt
type TextAreaConfig struct {
	Message string
	Default string
	Help    string
}

// SelectConfig configures a single-choice prompt
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int // -1 for no default
	Help         string
}

// ConfirmConfig configures a yes/no prompt
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// Driver asks the questions. The survey implementation talks to a terminal;
// tests substitute a scripted one.
type Driver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Password(ctx context.Context, cfg InputConfig) (string, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
}

type surveyDriver struct {
	opts []survey.AskOpt
}

// NewSurveyDriver returns a Driver backed by survey. opts are applied to
// every prompt, e.g. survey.WithStdio.
func NewSurveyDriver(opts ...survey.AskOpt) Driver {
	return &surveyDriver{opts: opts}
}

func (d *surveyDriver) ask(p survey.Prompt, out any, v survey.Validator) error {
	opts := d.opts
	if v != nil {
		opts = append(append([]survey.AskOpt{}, d.opts...), survey.WithValidator(v))
	}
	if err := survey.AskOne(p, out, opts...); err != nil {
		return translateSurveyErr(err)
	}
	return nil
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: cfg.Message,
		Default: cfg.Default,
		Help:    cfg.Help,
	}
	if err := d.ask(prompt, &out, cfg.validator()); err != nil {
		return "", err
	}
	return out, nil
}

func (d *surveyDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Password{
		Message: cfg.Message,
		Help:    cfg.Help,
	}
	if err := d.ask(prompt, &out, cfg.validator()); err != nil {
		return "", err
	}
	return out, nil
}

func (d *surveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Multiline{
		Message: cfg.Message,
		Default: cfg.Default,
		Help:    cfg.Help,
	}
	if err := d.ask(prompt, &out, nil); err != nil {
		return "", err
	}
	return out, nil
}

func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var out int
	prompt := &survey.Select{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.Options[cfg.DefaultIndex]
	}
	if err := d.ask(prompt, &out, nil); err != nil {
		return 0, err
	}
	return out, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{
		Message: cfg.Message,
		Default: cfg.Default,
		Help:    cfg.Help,
	}
	if err := d.ask(prompt, &out, nil); err != nil {
		return false, err
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
