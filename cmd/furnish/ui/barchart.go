package ui

import (
	"fmt"
	"math"
	"strings"

	"furnish/internal/catalog"

	"github.com/charmbracelet/lipgloss"
)

// BarChart is a horizontal bar chart of one series. Bars keep series order.
type BarChart struct {
	Title  string
	Series catalog.ChartSeries
	Color  lipgloss.Color
}

// View renders the chart into width columns.
func (c BarChart) View(width int, styles Styles) string {
	var sb strings.Builder
	sb.WriteString(styles.Bold.Render(c.Title))
	sb.WriteString("\n")

	if len(c.Series) == 0 {
		sb.WriteString(styles.Muted.Render("No data"))
		return sb.String()
	}

	labelWidth := 0
	valueWidth := 0
	for _, label := range c.Series.Labels() {
		labelWidth = max(labelWidth, lipgloss.Width(label))
	}
	for _, p := range c.Series {
		valueWidth = max(valueWidth, len(fmt.Sprint(p.Value)))
	}
	labelWidth = min(labelWidth, ChartLabelMaxWidth)

	barWidth := width - labelWidth - valueWidth - 3
	if barWidth < ChartMinBarWidth {
		barWidth = ChartMinBarWidth
	}

	bar := lipgloss.NewStyle().Foreground(c.Color)
	top := c.Series.Max()
	for i, p := range c.Series {
		if i > 0 {
			sb.WriteString("\n")
		}
		label := lipgloss.NewStyle().Inline(true).MaxWidth(labelWidth).Render(p.Label)
		sb.WriteString(styles.Body.Render(label + strings.Repeat(" ", labelWidth-lipgloss.Width(label))))
		sb.WriteString(" ")
		n := barLength(p.Value, top, barWidth)
		sb.WriteString(bar.Render(strings.Repeat("█", n)))
		sb.WriteString(" ")
		sb.WriteString(styles.Muted.Render(fmt.Sprint(p.Value)))
	}
	return sb.String()
}

// barLength scales value against top. Non-zero values always get a cell.
func barLength(value, top, width int) int {
	if value <= 0 || top <= 0 {
		return 0
	}
	n := int(math.Round(float64(value) / float64(top) * float64(width)))
	if n < 1 {
		n = 1
	}
	return n
}
