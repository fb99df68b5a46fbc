package ui

import (
	"fmt"
	"strings"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Result represents a result box (success, failure, or warning)
type Result struct {
	Type            ResultType
	Title           string   // e.g., "Form submitted successfully!"
	Details         []Param  // Ordered key-value details
	Error           error    // Error (for failure results)
	Troubleshooting []string // Hints shown under a failure
	Width           int
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details []Param) *Result {
	return &Result{Type: ResultSuccess, Title: title, Details: details, Width: GetTerminalWidth()}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error, troubleshooting []string) *Result {
	return &Result{Type: ResultFailure, Title: title, Error: err, Troubleshooting: troubleshooting, Width: GetTerminalWidth()}
}

// NewWarningResult creates a warning result box
func NewWarningResult(title string, details []Param) *Result {
	return &Result{Type: ResultWarning, Title: title, Details: details, Width: GetTerminalWidth()}
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail appends a detail line
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Param{Key: key, Value: value})
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := clampWidth(r.Width)

	var (
		title string
		color = SuccessColor
	)
	switch r.Type {
	case ResultFailure:
		title = ErrorTitleStyle.Render(fmt.Sprintf("   %s  FAILED  ─  %s", FailureMarker, r.Title))
		color = ErrorColor
	case ResultWarning:
		title = WarningTitleStyle.Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, r.Title))
		color = WarningColor
	default:
		title = SuccessTitleStyle.Render(fmt.Sprintf("   %s  SUCCESS  ─  %s", SuccessMarker, r.Title))
	}

	lines := []string{"", title, ""}

	for _, d := range r.Details {
		key := ResultKeyStyle.Render(fmt.Sprintf("   %s:", d.Key))
		lines = append(lines, key+" "+ResultValueStyle.Render(d.Value))
	}
	if len(r.Details) > 0 {
		lines = append(lines, "")
	}

	if r.Error != nil {
		for _, line := range strings.Split(strings.TrimRight(r.Error.Error(), "\n"), "\n") {
			lines = append(lines, ErrorMessageStyle.Render("   "+line))
		}
		lines = append(lines, "")
	}

	if len(r.Troubleshooting) > 0 {
		lines = append(lines, TroubleshootingTitleStyle.Render("   Hints:"))
		for _, tip := range r.Troubleshooting {
			lines = append(lines, TroubleshootingItemStyle.Render("     • "+tip))
		}
		lines = append(lines, "")
	}

	return boxStyle(color, width).Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}
