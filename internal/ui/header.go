package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Param is one key/value line of a header
type Param struct {
	Key   string
	Value string
}

// Header represents a command header with title, command, and parameters.
type Header struct {
	Title   string  // e.g., "Contact form"
	Command string  // e.g., "contactform check --profile classic"
	Params  []Param // Shown in order below a divider
	Width   int     // Terminal width for responsive rendering
}

// NewHeader creates a new header with the given values
func NewHeader(title, command string, params []Param) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header as a string
func (h *Header) Render() string {
	width := clampWidth(h.Width)

	titleLine := HeaderTitleStyle.Render(strings.ToUpper(h.Title))
	commandLine := HeaderCommandStyle.Render(h.Command)
	topSection := lipgloss.JoinVertical(lipgloss.Left, titleLine, commandLine)

	content := topSection
	if len(h.Params) > 0 {
		dividerWidth := width - 6 // Account for border and padding
		divider := lipgloss.NewStyle().PaddingLeft(2).Render(RenderHorizontalDivider(dividerWidth-2, "─"))

		keyWidth := 0
		for _, p := range h.Params {
			if len(p.Key) > keyWidth {
				keyWidth = len(p.Key)
			}
		}
		lines := make([]string, 0, len(h.Params))
		for _, p := range h.Params {
			key := HeaderParamKeyStyle.Render(p.Key + ":" + strings.Repeat(" ", keyWidth-len(p.Key)))
			lines = append(lines, key+" "+HeaderParamValueStyle.Render(p.Value))
		}
		content = lipgloss.JoinVertical(lipgloss.Left, topSection, divider, strings.Join(lines, "\n"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2). // Account for border characters
		Render(content)
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
