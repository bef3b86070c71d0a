package components

import (
	"fmt"

	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/tui/styles"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"
)

// sparkHeight is the number of rows used by a card's sparkline.
const sparkHeight = 2

// MetricCard describes one headline metric.
type MetricCard struct {
	Title string
	Value string
	Trend domain.Trend

	// LowerIsBetter flips the trend colors (errors, latency).
	LowerIsBetter bool

	// History feeds the sparkline, oldest first.
	History []float64
}

// RenderMetricCard draws a bordered card of the given outer width.
func RenderMetricCard(c MetricCard, width int) string {
	inner := max(width-4, 8)

	title := styles.MutedText.Render(c.Title)
	value := styles.Title.Render(c.Value)
	trend := styles.TrendStyle(string(c.Trend.Direction), c.LowerIsBetter).Render(TrendLabel(c.Trend))

	body := lipgloss.JoinVertical(lipgloss.Left, title, value+"  "+trend, Sparkline(c.History, inner))

	return lipgloss.NewStyle().
		Border(styles.Border).
		BorderForeground(styles.DimGray).
		Padding(0, 1).
		Width(width - 2).
		Render(body)
}

// TrendLabel formats a trend as an arrow plus percentage.
func TrendLabel(t domain.Trend) string {
	switch t.Direction {
	case domain.TrendPositive:
		return fmt.Sprintf("▲ %+.0f%%", t.Change)
	case domain.TrendNegative:
		return fmt.Sprintf("▼ %+.0f%%", t.Change)
	default:
		if t.Change == 0 {
			return "● steady"
		}
		return fmt.Sprintf("● %+.0f%%", t.Change)
	}
}

// Sparkline renders values as a compact bar sparkline of the given width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return styles.MutedText.Render("collecting…")
	}
	sl := sparkline.New(width, sparkHeight,
		sparkline.WithStyle(lipgloss.NewStyle().Foreground(styles.Blue)),
	)
	sl.PushAll(values)
	sl.Draw()
	return sl.View()
}
