package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/muurk/contactform/internal/form"
)

func TestRenderConfirmation(t *testing.T) {
	snap := form.Snapshot{
		Title: form.ConfirmationTitle,
		Rows: []form.Row{
			{Name: "textInput", Label: "Name", Value: "Bob"},
			{Name: "humanInput", Label: "Human", Value: "true"},
		},
	}

	out := RenderConfirmation(snap, 80)
	for _, want := range []string{"Form submitted successfully!", "Field", "Value", "Name", "Bob", "Human", "true"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderConfirmation() missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Name") > strings.Index(out, "Human") {
		t.Error("rows should keep declaration order")
	}
}

func TestRenderFieldErrors(t *testing.T) {
	errs := form.Errors{"emailInput": "Invalid Email"}
	out := RenderFieldErrors("Form has errors", errs, map[string]string{"emailInput": "Email"}, 80)

	for _, want := range []string{"FAILED", "Form has errors", "Email", "Invalid Email"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderFieldErrors() missing %q:\n%s", want, out)
		}
	}
}

func TestRenderNotice(t *testing.T) {
	if got := RenderNotice(form.Notice{}); got != "" {
		t.Errorf("RenderNotice(none) = %q, want empty", got)
	}
	got := RenderNotice(form.Notice{Kind: form.NoticeFailure, Message: form.FailureMessage})
	if !strings.Contains(got, form.FailureMessage) {
		t.Errorf("RenderNotice(failure) = %q", got)
	}
}

func TestResultRender(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   []string
	}{
		{
			name:   "success",
			result: NewSuccessResult("Config written", []Param{{Key: "Path", Value: "/tmp/c.yaml"}}),
			want:   []string{"SUCCESS", "Config written", "Path", "/tmp/c.yaml"},
		},
		{
			name:   "failure",
			result: NewFailureResult("Submission failed", errors.New("boom"), []string{"Retry"}),
			want:   []string{"FAILED", "Submission failed", "boom", "Hints", "Retry"},
		},
		{
			name:   "warning",
			result: NewWarningResult("No servers found", nil),
			want:   []string{"WARNING", "No servers found"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.result.SetWidth(80).Render()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("Render() missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestHeaderRender(t *testing.T) {
	h := NewHeader("Contact form", "contactform check", []Param{
		{Key: "Profile", Value: "classic"},
		{Key: "Mode", Value: "immediate"},
	}).SetWidth(80)

	out := h.Render()
	for _, want := range []string{"CONTACT FORM", "contactform check", "Profile:", "classic", "Mode:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(80)

	p.PrintNotice(form.Notice{Kind: form.NoticeAlert, Message: form.AlertUnfilled})
	p.PrintSuccess("Done", nil)

	out := buf.String()
	if !strings.Contains(out, form.AlertUnfilled) || !strings.Contains(out, "Done") {
		t.Errorf("printer output = %q", out)
	}
}

func TestConfirmOverwrite(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got := ConfirmOverwrite(strings.NewReader(tt.input), &out, "Overwrite config", []string{"existing file is replaced"})
		if got != tt.want {
			t.Errorf("ConfirmOverwrite(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
