package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfirmOverwrite shows a warning box and asks for a y/N answer on in.
// Only "y" or "yes" confirms.
func ConfirmOverwrite(in io.Reader, out io.Writer, title string, warnings []string) bool {
	width := GetTerminalWidth()

	lines := []string{"", WarningTitleStyle.Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, title)), ""}
	bulletStyle := lipgloss.NewStyle().Foreground(TextColor)
	for _, warning := range warnings {
		lines = append(lines, bulletStyle.Render("   • "+warning))
	}
	lines = append(lines, "")

	fmt.Fprintln(out, boxStyle(WarningColor, width).Render(strings.Join(lines, "\n")))
	fmt.Fprint(out, WarningTitleStyle.Render("Continue? [y/N]: "))

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && input == "" {
		fmt.Fprintln(out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	}
	fmt.Fprintln(out, lipgloss.NewStyle().Foreground(MutedColor).Render("  Operation cancelled."))
	return false
}
