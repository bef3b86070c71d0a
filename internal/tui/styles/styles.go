package styles

import "github.com/charmbracelet/lipgloss"

// --- Typography ---

var (
	// Title is the main header text style.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(White)

	// Subtitle is used for secondary headings.
	Subtitle = lipgloss.NewStyle().
			Foreground(Gray)

	// Label is used for field names in detail views.
	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	// MutedText is for help text, hints, and less important info.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// AccentText is for highlighted interactive elements.
	AccentText = lipgloss.NewStyle().
			Foreground(Blue)

	// ErrorText is for error messages.
	ErrorText = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	// WarningText is for warning messages.
	WarningText = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)
)

// --- Status badges ---

// StatusStyle returns the style for a resource status, connection state or
// alert severity.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "healthy":
		return lipgloss.NewStyle().Foreground(Green).Bold(true)
	case "warning":
		return lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	case "error", "critical":
		return lipgloss.NewStyle().Foreground(Red).Bold(true)
	case "checking", "info":
		return lipgloss.NewStyle().Foreground(Blue)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// TrendStyle colors a trend direction. Whether up is good depends on the
// metric, so callers pass inverted for metrics where lower is better.
func TrendStyle(direction string, inverted bool) lipgloss.Style {
	up, down := Green, Red
	if inverted {
		up, down = Red, Green
	}
	switch direction {
	case "positive":
		return lipgloss.NewStyle().Foreground(up)
	case "negative":
		return lipgloss.NewStyle().Foreground(down)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// CategoryColor maps a resource icon category to a color.
func CategoryColor(category string) lipgloss.Color {
	switch category {
	case "database":
		return Blue
	case "network":
		return Purple
	case "storage":
		return Orange
	case "messaging":
		return Yellow
	case "security":
		return Red
	default:
		return Gray
	}
}

// --- Layout components ---

var (
	// Border is the default subtle border style.
	Border = lipgloss.RoundedBorder()

	// Card is a rounded-border panel for content sections.
	Card = lipgloss.NewStyle().
		Border(Border).
		BorderForeground(DimGray).
		Padding(1, 2)
)

// --- Key binding hint styles ---

var (
	// KeyStyle is used for key labels in the footer (e.g. "q").
	KeyStyle = lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true)

	// KeyDescStyle is used for key descriptions in the footer (e.g. "quit").
	KeyDescStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// KeySepStyle is used for separators between key bindings.
	KeySepStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// FormatKeyBinding formats a single key binding for the footer.
func FormatKeyBinding(key, desc string) string {
	return KeyStyle.Render(key) + " " + KeyDescStyle.Render(desc)
}

// --- Table styles ---

var (
	// TableHeader is the style for table header cells.
	TableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Gray).
			Padding(0, 1)

	// TableCell is the style for table data cells.
	TableCell = lipgloss.NewStyle().
			Foreground(White).
			Padding(0, 1)

	// TableSelectedRow is the style for the currently selected table row.
	TableSelectedRow = lipgloss.NewStyle().
				Foreground(White).
				Background(DarkBlue).
				Bold(true).
				Padding(0, 1)
)
