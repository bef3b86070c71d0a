package components

import (
	"strings"

	"nathanbeddoewebdev/skyglass/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// StatusBar renders a status message line between the content and footer.
// Long messages are cut to the bar width.
func StatusBar(width int, message string, isError bool) string {
	if message == "" {
		return ""
	}

	style := styles.MutedText
	if isError {
		style = styles.ErrorText
	}

	if width > 4 {
		message = ansi.Truncate(message, width-4, "…")
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		Render(style.Render(message))
}

// Notices renders degraded-section notices, one per line, in warning style.
func Notices(width int, notices []string) string {
	if len(notices) == 0 {
		return ""
	}
	lines := make([]string, len(notices))
	for i, n := range notices {
		if width > 6 {
			n = ansi.Truncate(n, width-6, "…")
		}
		lines[i] = styles.WarningText.Render("! ") + styles.MutedText.Render(n)
	}
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}
