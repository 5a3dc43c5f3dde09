// Package render turns catalog data into markdown and renders it for a
// terminal with glamour. It backs the non-interactive CLI commands.
package render

import (
	"fmt"
	"strings"

	"furnish/internal/catalog"

	"github.com/charmbracelet/glamour"
)

// Styles accepted by NewRenderer.
const (
	StyleAuto  = "auto"
	StylePlain = "notty"
	StyleDark  = "dark"
	StyleLight = "light"
)

// Renderer renders markdown documents.
type Renderer struct {
	term *glamour.TermRenderer
}

// NewRenderer creates a renderer for style, wrapping at width columns.
func NewRenderer(style string, width int) (*Renderer, error) {
	if width <= 0 {
		width = 80
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch style {
	case "", StyleAuto:
		opts = append(opts, glamour.WithAutoStyle())
	case StylePlain, StyleDark, StyleLight:
		opts = append(opts, glamour.WithStandardStyle(style))
	default:
		return nil, fmt.Errorf("unknown render style %q", style)
	}

	term, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return &Renderer{term: term}, nil
}

// Render renders a markdown document.
func (r *Renderer) Render(md string) (string, error) {
	out, err := r.term.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// CardsMarkdown lists cards in order, one section per card.
func CardsMarkdown(query string, cards []catalog.Card) string {
	var sb strings.Builder
	if query != "" {
		sb.WriteString(fmt.Sprintf("## Recommendations for \"%s\"\n\n", Escape(query)))
	}
	if len(cards) == 0 {
		sb.WriteString("_No recommendations._\n")
		return sb.String()
	}

	for i, c := range cards {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		sb.WriteString(fmt.Sprintf("### %d. %s\n\n", c.Index+1, Escape(c.Title)))
		sb.WriteString(fmt.Sprintf("**%s** | Price: %s\n\n", Escape(c.Brand), Escape(c.Price)))
		sb.WriteString(fmt.Sprintf("Image: %s\n\n", Escape(c.Image)))
		if c.Description != "" {
			sb.WriteString(Escape(c.Description))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// SummaryMarkdown renders the analytics summary panel.
func SummaryMarkdown(snap catalog.AnalyticsSnapshot) string {
	var sb strings.Builder
	sb.WriteString("## Product Analytics Dashboard\n\n")
	sb.WriteString(fmt.Sprintf("- Total Products: %d\n", snap.TotalProducts))
	sb.WriteString(fmt.Sprintf("- Average Price: %s\n", Escape(catalog.FormatAveragePrice(snap.AvgPrice))))
	return sb.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"#", `\#`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"|", `\|`,
)

// Escape makes catalog text safe to embed in markdown.
func Escape(s string) string {
	return markdownEscaper.Replace(s)
}
