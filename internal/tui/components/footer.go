package components

import (
	"nathanbeddoewebdev/skyglass/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// KeyBinding is one entry of the footer help bar.
type KeyBinding struct {
	Key  string
	Desc string
}

// Footer renders the key binding help bar. Bindings that do not fit on
// one line are dropped from the end; note, when set, is right-aligned
// and takes priority over the bindings.
func Footer(width int, bindings []KeyBinding, note string) string {
	if width < 10 || (len(bindings) == 0 && note == "") {
		return ""
	}

	inner := width - 4
	right := ""
	if note != "" {
		right = styles.MutedText.Render(note)
	}
	budget := inner - lipgloss.Width(right)
	if right != "" {
		budget -= 2
	}

	sep := styles.KeySepStyle.Render("  ")
	var left string
	for _, b := range bindings {
		part := styles.FormatKeyBinding(b.Key, b.Desc)
		next := part
		if left != "" {
			next = left + sep + part
		}
		if lipgloss.Width(next) > budget {
			break
		}
		left = next
	}

	return ruled(width, spread(inner, left, right), lipgloss.Border{Top: "─"})
}
