package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/contactform/internal/version"
)

// Application branding constants
const (
	AppName   = "CONTACT FORM"
	GitHubURL = "github.com/muurk/contactform"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 60
	DefaultWidth     = 80
	DefaultHeight    = 24
	inputWidth       = 40
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor   = lipgloss.Color("#FFFFFF")
	SubtleColor = lipgloss.Color("#626262")
	BorderColor = lipgloss.Color("#7D56F4")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Width(16)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true).
				Width(16)

	// Option style (unselected)
	OptionStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	SelectedOptionStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	FieldErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			PaddingLeft(18)

	HelpTextStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			PaddingLeft(18)

	AlertStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(WarningColor).
			Padding(0, 2)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	MenuItemStyle = lipgloss.NewStyle().
			PaddingLeft(4).
			Foreground(TextColor)

	SelectedMenuItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(SecondaryColor).
				Bold(true)

	// Failure modal
	ErrorBoxStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor).
			Padding(1, 2)
)

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderMenuItem renders a menu item with selection indicator
func RenderMenuItem(text string, selected bool) string {
	if selected {
		return SelectedMenuItemStyle.Render("→ " + text)
	}
	return MenuItemStyle.Render("  " + text)
}

// BuildHeaderContent creates header content with app name and GitHub URL
func BuildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(GitHubURL)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

// RenderApplicationContainer wraps a screen with the header, a
// context-sensitive footer and an outer border sized to the terminal.
//
//	func (m Model) View() string {
//	    content := m.buildContent()
//	    return RenderApplicationContainer(content, m.help.View(m.keys), m.width, m.height)
//	}
func RenderApplicationContainer(content string, footerText string, terminalWidth int, terminalHeight int) string {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4). // Leave room for outer border
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth-4).
		Padding(1, 2)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(BuildHeaderContent()),
		contentStyle.Render(content),
		footerStyle.Render(lipgloss.NewStyle().Foreground(SubtleColor).Render(footerText)),
	)

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		AlignVertical(lipgloss.Top)

	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Left,
		lipgloss.Top,
		borderStyle.Render(inner),
	)
}

// SafeModalWidth returns the smaller of requestedWidth and the terminal
// width minus margins, never below 40.
func SafeModalWidth(requestedWidth, terminalWidth int) int {
	maxWidth := terminalWidth - 4
	if maxWidth < 40 {
		maxWidth = 40
	}
	if requestedWidth < maxWidth {
		return requestedWidth
	}
	return maxWidth
}

// RenderModal centers modal content on a dimmed screen
func RenderModal(modalContent string, terminalWidth int, terminalHeight int) string {
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}
