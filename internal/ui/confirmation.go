package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/contactform/internal/form"
)

// RenderConfirmation renders the submitted-data table inside a success box
func RenderConfirmation(snap form.Snapshot, width int) string {
	width = clampWidth(width)

	labelWidth := len("Field")
	for _, row := range snap.Rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
	}
	labelStyle := lipgloss.NewStyle().Width(labelWidth + 3)
	keyStyle := labelStyle.Foreground(MutedColor)

	lines := []string{
		"",
		SuccessTitleStyle.Render("   " + SuccessMarker + "  " + snap.Title),
		"",
		"   " + TableHeaderStyle.Render(labelStyle.Render("Field")+"Value"),
		"   " + RenderHorizontalDivider(labelWidth+3+5, "─"),
	}
	for _, row := range snap.Rows {
		lines = append(lines, "   "+keyStyle.Render(row.Label)+ResultValueStyle.Render(row.Value))
	}
	lines = append(lines, "")

	return boxStyle(SuccessColor, width).Render(strings.Join(lines, "\n"))
}

// RenderFieldErrors renders field errors as a failure box. labels maps field
// names to display labels; unknown names are shown as is.
func RenderFieldErrors(title string, errs form.Errors, labels map[string]string, width int) string {
	r := &Result{Type: ResultFailure, Title: title, Width: width}
	for _, name := range errs.Names() {
		label := labels[name]
		if label == "" {
			label = name
		}
		r.AddDetail(label, errs[name])
	}
	return r.Render()
}

// RenderNotice renders an alert or failure banner as a single styled line
func RenderNotice(n form.Notice) string {
	switch n.Kind {
	case form.NoticeAlert:
		return WarningTitleStyle.Render(fmt.Sprintf("%s  %s", WarningMarker, n.Message))
	case form.NoticeFailure:
		return ErrorTitleStyle.Render(fmt.Sprintf("%s  %s", FailureMarker, n.Message))
	default:
		return ""
	}
}

// FieldLabels maps the field names of a profile to their labels
func FieldLabels(fields []form.Field) map[string]string {
	labels := make(map[string]string, len(fields))
	for _, f := range fields {
		labels[f.Name] = f.Label
	}
	return labels
}
