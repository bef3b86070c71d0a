package components

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// chartHeight is the fixed height of the traffic chart plot area.
const chartHeight = 8

// TrafficChart renders inbound, outbound and error series as overlaid
// lines with a time axis underneath.
func TrafficChart(points []domain.TrafficPoint, width int) string {
	header := styles.Label.Render("Traffic (24h)")
	if len(points) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, styles.MutedText.Render("no traffic data"))
	}

	in := make([]float64, len(points))
	out := make([]float64, len(points))
	errs := make([]float64, len(points))
	for i, p := range points {
		in[i], out[i], errs[i] = p.Inbound, p.Outbound, p.Errors
	}

	// Reserve space for Y-axis labels (number + " ┤" ≈ 9 chars).
	plotWidth := max(width-9, 10)

	chart := asciigraph.PlotMany(
		[][]float64{in, out, errs},
		asciigraph.Height(chartHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.DodgerBlue, asciigraph.MediumSeaGreen, asciigraph.LightCoral),
		asciigraph.SeriesLegends("Inbound", "Outbound", "Errors"),
		asciigraph.LabelColor(asciigraph.Default),
	)

	axis := styles.MutedText.Render(timeAxis(points, plotWidth))

	cur := points[len(points)-1]
	minIn, maxIn := minMax(in)
	summary := styles.MutedText.Render(
		fmt.Sprintf("  in cur: %s  min: %s  max: %s   out cur: %s   errors cur: %s",
			formatValue(cur.Inbound, ""),
			formatValue(minIn, ""),
			formatValue(maxIn, ""),
			formatValue(cur.Outbound, ""),
			formatValue(cur.Errors, ""),
		),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, chart, axis, summary)
}

// timeAxis spreads the point labels across the plot width, offset by the
// Y-axis label gutter.
func timeAxis(points []domain.TrafficPoint, plotWidth int) string {
	const gutter = 9
	line := []rune(strings.Repeat(" ", gutter+plotWidth))
	if len(points) == 1 {
		copy(line[gutter:], []rune(points[0].Label))
		return strings.TrimRight(string(line), " ")
	}
	step := float64(plotWidth-1) / float64(len(points)-1)
	for i, p := range points {
		pos := gutter + int(float64(i)*step)
		label := []rune(p.Label)
		if pos+len(label) > len(line) {
			pos = len(line) - len(label)
		}
		if pos < 0 {
			continue
		}
		copy(line[pos:], label)
	}
	return strings.TrimRight(string(line), " ")
}

// minMax returns the minimum and maximum values from a slice.
func minMax(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	lo, hi := data[0], data[0]
	for _, v := range data[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// formatValue renders a float with an optional suffix, using human-readable
// formatting for large values.
func formatValue(v float64, suffix string) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.1fG%s", v/1_000_000_000, suffix)
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM%s", v/1_000_000, suffix)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK%s", v/1_000, suffix)
	default:
		return fmt.Sprintf("%.1f%s", v, suffix)
	}
}
