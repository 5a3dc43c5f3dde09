// Package ui layout constants for consistent spacing and dimensions
package ui

// Layout constants for page sizing
const (
	// Shell chrome
	HeaderHeight = 1
	FooterHeight = 1

	// Page chrome above the results viewport: title, subtitle, input row,
	// status line and spacing.
	RecommendChromeHeight = 9

	// Responsive breakpoints
	MinimumTerminalWidth  = 80
	MinimumTerminalHeight = 24
	CompactModeWidth      = 100

	// Results grid
	GridColumns = 3
	GridGap     = 1

	// Cards
	CardBorderWidth = 2
	CardPaddingH    = 1

	// Charts
	ChartLabelMaxWidth = 34
	ChartMinBarWidth   = 10
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size.
// Unknown (zero) sizes fall back to the minimum terminal size.
func NewLayoutConfig(width, height int) LayoutConfig {
	if width <= 0 {
		width = MinimumTerminalWidth
	}
	if height <= 0 {
		height = MinimumTerminalHeight
	}
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
	}
}

// PageHeight returns the height left for a page below the header and above
// the footer.
func (l LayoutConfig) PageHeight() int {
	return l.TerminalHeight - HeaderHeight - FooterHeight
}

// GridColumnCount returns how many cards fit side by side.
func (l LayoutConfig) GridColumnCount() int {
	if l.IsCompact {
		return 1
	}
	return GridColumns
}

// CardWidth returns the outer width of one card for a content width.
func (l LayoutConfig) CardWidth(contentWidth int) int {
	cols := l.GridColumnCount()
	w := (contentWidth - GridGap*(cols-1)) / cols
	if w < 20 {
		w = 20
	}
	return w
}

// CardContentWidth returns the text width inside a card.
func CardContentWidth(cardWidth int) int {
	return cardWidth - CardBorderWidth - CardPaddingH*2
}
