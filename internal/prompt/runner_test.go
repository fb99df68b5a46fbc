package prompt

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/submission"
	"github.com/muurk/contactform/internal/ui"
	"github.com/muurk/contactform/internal/validation"
)

// scriptedDriver answers prompts from per-message queues. Like survey, it
// re-asks while the input validator rejects an answer.
type scriptedDriver struct {
	answers  map[string][]any
	asked    []string
	rejected []string
}

func (d *scriptedDriver) next(message string) (any, error) {
	d.asked = append(d.asked, message)
	queue := d.answers[message]
	if len(queue) == 0 {
		return nil, fmt.Errorf("no answer scripted for %q", message)
	}
	d.answers[message] = queue[1:]
	if err, ok := queue[0].(error); ok {
		return nil, err
	}
	return queue[0], nil
}

func (d *scriptedDriver) input(cfg InputConfig) (string, error) {
	for {
		ans, err := d.next(cfg.Message)
		if err != nil {
			return "", err
		}
		s := ans.(string)
		if v := cfg.validator(); v != nil {
			if err := v(s); err != nil {
				d.rejected = append(d.rejected, err.Error())
				continue
			}
		}
		return s, nil
	}
}

func (d *scriptedDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	return d.input(cfg)
}

func (d *scriptedDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	return d.input(cfg)
}

func (d *scriptedDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	ans, err := d.next(cfg.Message)
	if err != nil {
		return "", err
	}
	return ans.(string), nil
}

func (d *scriptedDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	ans, err := d.next(cfg.Message)
	if err != nil {
		return 0, err
	}
	label := ans.(string)
	for i, o := range cfg.Options {
		if o == label {
			return i, nil
		}
	}
	return -1, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	ans, err := d.next(cfg.Message)
	if err != nil {
		return false, err
	}
	return ans.(bool), nil
}

var requiredMsg = survey.Required("").Error()

type sequenceRand struct {
	draws []float64
	i     int
}

func (s *sequenceRand) Float64() float64 {
	v := s.draws[s.i%len(s.draws)]
	s.i++
	return v
}

func newSession(t *testing.T, profile string, opts form.Options) *form.Session {
	t.Helper()
	p, err := form.Lookup(profile)
	require.NoError(t, err)
	sess, err := form.NewSession(p, opts)
	require.NoError(t, err)
	t.Cleanup(sess.Close)
	return sess
}

func rowValue(t *testing.T, snap *form.Snapshot, name string) string {
	t.Helper()
	v, ok := snap.Value(name)
	require.True(t, ok, "snapshot has no %s row", name)
	return v
}

func newRunner(d Driver) (*Runner, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewRunner(d, ui.NewPrinter(&buf).SetWidth(80)), &buf
}

func TestRunner_ClassicReasksInvalidAnswers(t *testing.T) {
	d := &scriptedDriver{answers: map[string][]any{
		"Name":     {"Bob!", "Bob"},
		"Email":    {"", "bob@example", "bob@example.com"},
		"Password": {"abc123!"},
		"Comments": {"Hello"},
		"Country":  {"Other", "Canada"},
		"Gender":   {"Female"},
		"Human":    {true},
		"AI":       {false},
	}}
	r, out := newRunner(d)
	sess := newSession(t, form.ProfileClassic, form.Options{})

	snap, err := r.Run(context.Background(), sess)
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, "Bob", rowValue(t, snap, "textInput"))
	assert.Equal(t, "option3", rowValue(t, snap, "selectInput"))
	assert.Equal(t, "true", rowValue(t, snap, "humanInput"))
	assert.Equal(t, []string{validation.MsgSpecialChars, requiredMsg, validation.MsgInvalidEmail}, d.rejected)

	output := out.String()
	assert.Contains(t, output, "Country is required")
	assert.Contains(t, output, form.ConfirmationTitle)
}

func TestRunner_AsyncRetryAfterFailure(t *testing.T) {
	d := &scriptedDriver{answers: map[string][]any{
		"Text Input":   {"   ", "Bob"},
		"Email Input":  {"bob@example.com"},
		"Textarea":     {""},
		"Select":       {"Option 2"},
		"Radio":        {"Option 1"},
		"Check me out": {true},
		"Retry?":       {true},
	}}
	r, out := newRunner(d)
	sess := newSession(t, form.ProfileAsync, form.Options{Submission: submission.Options{
		Delay: time.Millisecond, SuccessRate: 0.8, Rand: &sequenceRand{draws: []float64{0.9, 0.1}},
	}})

	snap, err := r.Run(context.Background(), sess)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "option2", rowValue(t, snap, "selectInput"))

	output := out.String()
	assert.Contains(t, output, form.FailureMessage)
	assert.Contains(t, output, "Submitting...")
	assert.Contains(t, d.rejected, validation.MsgTextRequired)
}

func TestRunner_DeclinedRetry(t *testing.T) {
	d := &scriptedDriver{answers: map[string][]any{
		"Text Input":   {"Bob"},
		"Email Input":  {"bob@example.com"},
		"Textarea":     {""},
		"Select":       {"Option 1"},
		"Radio":        {"Option 2"},
		"Check me out": {false},
		"Retry?":       {false},
	}}
	r, _ := newRunner(d)
	sess := newSession(t, form.ProfileAsync, form.Options{Submission: submission.Options{
		Delay: time.Millisecond, SuccessRate: 0, Rand: &sequenceRand{draws: []float64{0.5}},
	}})

	snap, err := r.Run(context.Background(), sess)
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, submission.ErrSubmissionFailed)
	assert.Equal(t, submission.StateFailed, sess.State())
}

func TestRunner_Aborted(t *testing.T) {
	d := &scriptedDriver{answers: map[string][]any{
		"Name": {ErrAborted},
	}}
	r, _ := newRunner(d)
	sess := newSession(t, form.ProfileClassic, form.Options{})

	_, err := r.Run(context.Background(), sess)
	assert.ErrorIs(t, err, ErrAborted)
	assert.Equal(t, submission.StateEditing, sess.State())
}

func TestRunner_FillSubset(t *testing.T) {
	d := &scriptedDriver{answers: map[string][]any{
		"Email": {"bob@example.com"},
	}}
	r, _ := newRunner(d)
	sess := newSession(t, form.ProfileClassic, form.Options{})

	require.NoError(t, r.Fill(context.Background(), sess, "emailInput"))
	assert.Equal(t, []string{"Email"}, d.asked)

	v, err := sess.Value("emailInput")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", v.Text())
}

func TestInputConfig_validator(t *testing.T) {
	tests := []struct {
		name    string
		cfg     InputConfig
		answer  string
		wantErr string
	}{
		{"no checks", InputConfig{}, "", ""},
		{"required empty", InputConfig{Required: true}, "", requiredMsg},
		{"required filled", InputConfig{Required: true}, "x", ""},
		{"validator", InputConfig{Validate: validation.Email}, "nope", validation.MsgInvalidEmail},
		{"required first", InputConfig{Required: true, Validate: validation.Email}, "", requiredMsg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.cfg.validator()
			if v == nil {
				assert.Empty(t, tt.wantErr)
				return
			}
			err := v(tt.answer)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}
