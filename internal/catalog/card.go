package catalog

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ImagePlaceholder stands in for a product without an image URL.
const ImagePlaceholder = "[no image]"

// Card is the display form of one Product. Building a card never fails:
// missing fields degrade to empty text or a placeholder.
type Card struct {
	// Index is the position within the current result set. It is only a
	// render key and is recomputed for every response.
	Index       int
	Title       string
	Brand       string
	Price       string
	Image       string
	HasImage    bool
	Description string
}

// NewCard maps a product to its card.
func NewCard(index int, p Product) Card {
	image := strings.TrimSpace(p.Image)
	card := Card{
		Index:       index,
		Title:       p.Title,
		Brand:       p.Brand,
		Price:       p.Price.Display(),
		Image:       image,
		HasImage:    image != "",
		Description: StripMarkup(p.Description),
	}
	if !card.HasImage {
		card.Image = ImagePlaceholder
	}
	return card
}

// NewCards maps a result set in order.
func NewCards(products []Product) []Card {
	cards := make([]Card, len(products))
	for i, p := range products {
		cards[i] = NewCard(i, p)
	}
	return cards
}

// StripMarkup drops HTML tags from scraped catalog text and decodes entities.
// Text without a '<' is returned unchanged.
func StripMarkup(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return strings.TrimSpace(sb.String())
			}
			// Malformed markup: fall back to the original text.
			return s
		case html.TextToken:
			sb.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if breaksLine(string(name)) && sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
				sb.WriteByte('\n')
			}
		}
	}
}

func breaksLine(tag string) bool {
	switch tag {
	case "br", "p", "div", "li", "ul", "ol", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}
