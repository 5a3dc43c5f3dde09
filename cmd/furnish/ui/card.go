package ui

import (
	"strings"

	"furnish/internal/catalog"

	"github.com/charmbracelet/lipgloss"
)

// RenderCard draws one product card at the given outer width.
func RenderCard(card catalog.Card, width int, selected bool, styles Styles) string {
	inner := CardContentWidth(width)
	if inner < 10 {
		inner = 10
	}
	text := lipgloss.NewStyle().Width(inner)

	var lines []string
	lines = append(lines, text.Inherit(styles.Bold).Render(card.Title))
	lines = append(lines, text.Inherit(styles.Muted).Render(card.Brand))
	lines = append(lines, text.Inherit(styles.Price).Render(card.Price))

	image := card.Image
	if card.HasImage {
		image = "🖼 " + image
	}
	lines = append(lines, text.Inherit(styles.Muted).MaxHeight(1).Render(image))

	if card.Description != "" {
		lines = append(lines, "", text.Inherit(styles.Body).Render(card.Description))
	}

	box := styles.Card
	if selected {
		box = styles.CardSelected
	}
	return box.Width(width - CardBorderWidth).Render(strings.Join(lines, "\n"))
}

// RenderCardGrid lays cards out in rows for the content width. selected is
// the index of the highlighted card, or -1.
func RenderCardGrid(cards []catalog.Card, contentWidth, selected int, styles Styles) string {
	if len(cards) == 0 {
		return ""
	}
	layout := NewLayoutConfig(contentWidth, 0)
	cols := layout.GridColumnCount()
	cardWidth := layout.CardWidth(layout.TerminalWidth)

	var rows []string
	for start := 0; start < len(cards); start += cols {
		end := start + cols
		if end > len(cards) {
			end = len(cards)
		}
		var row []string
		for i := start; i < end; i++ {
			if i > start {
				row = append(row, strings.Repeat(" ", GridGap))
			}
			card, isSelected := cards[i], i == selected
			key := cardKey(card, cardWidth, isSelected, styles.Theme.IsDark)
			row = append(row, DefaultRenderCache.GetOrCompute(key, func() string {
				return RenderCard(card, cardWidth, isSelected, styles)
			}))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
