package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - success, checkmarks
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, X marks
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings, alerts
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
)

// Shared styles
var (
	// HeaderTitleStyle is for the command title (e.g., "CONTACT FORM")
	HeaderTitleStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true).
				PaddingLeft(2)

	// HeaderCommandStyle is for the command path (e.g., "contactform check")
	HeaderCommandStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// HeaderParamKeyStyle is for parameter keys (e.g., "Profile:")
	HeaderParamKeyStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// HeaderParamValueStyle is for parameter values
	HeaderParamValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	SuccessTitleStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true)

	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningTitleStyle = lipgloss.NewStyle().
				Foreground(WarningColor).
				Bold(true)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// ResultKeyStyle is for result detail keys
	ResultKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(18)

	ResultValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// TableHeaderStyle is for the Field / Value header of the confirmation table
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	TroubleshootingTitleStyle = lipgloss.NewStyle().
					Foreground(MutedColor).
					Bold(true)

	TroubleshootingItemStyle = lipgloss.NewStyle().
					Foreground(MutedColor)
)

// Status markers
const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
	WarningMarker = "⚠"
)

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// clampWidth keeps a render width within the supported range
func clampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// boxStyle returns the double-bordered result box style in the given color
func boxStyle(color lipgloss.Color, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Width(width-2).
		Padding(0, 2)
}

// RenderHorizontalDivider creates a horizontal line of the specified width
func RenderHorizontalDivider(width int, char string) string {
	return lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Render(strings.Repeat(char, width))
}
