// Package components renders the pieces of the skyglass screens. They are
// render-only helpers, not tea.Models.
package components

import (
	"strings"

	"nathanbeddoewebdev/skyglass/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Header renders the title bar: the app name and current screen on the
// left, context (usually the subscription) on the right.
//
//	skyglass > dashboard                    proj-a · live
//	──────────────────────────────────────────────────────
func Header(width int, screen string, context string) string {
	if width < 10 {
		return ""
	}

	left := styles.Title.Foreground(styles.Blue).Render("skyglass")
	if screen != "" {
		left += styles.MutedText.Render(" > ") + styles.Title.Render(screen)
	}
	right := ""
	if context != "" {
		right = styles.Subtitle.Render(context)
	}

	return ruled(width, spread(width-4, left, right), lipgloss.Border{Bottom: "─"})
}

// spread pads between left and right so together they fill width cells.
func spread(width int, left, right string) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// ruled renders content as a padded full-width bar with a dim rule on
// the sides set in border.
func ruled(width int, content string, border lipgloss.Border) string {
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderStyle(border).
		BorderTop(border.Top != "").
		BorderBottom(border.Bottom != "").
		BorderForeground(styles.DimGray).
		Render(content)
}
