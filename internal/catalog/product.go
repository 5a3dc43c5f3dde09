// Package catalog holds the furniture catalog records exchanged with the
// recommendation backend and the pure transformations applied to them before
// rendering: card mapping, chart series and display formatting.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// PricePlaceholder is rendered in place of an absent or falsy price.
const PricePlaceholder = "—"

// Product is one recommendation result. The backend assigns no identity, so
// callers key rendered cards by position within a single result set.
type Product struct {
	Title       string `json:"title" yaml:"title"`
	Brand       string `json:"brand" yaml:"brand"`
	Price       Price  `json:"price" yaml:"price"`
	Image       string `json:"image" yaml:"image"`
	Description string `json:"description" yaml:"description"`
}

// RecommendationResponse is the body of POST /recommend. Recommendations are
// in rank order and must never be re-sorted.
type RecommendationResponse struct {
	Query           string    `json:"query,omitempty"`
	Recommendations []Product `json:"recommendations"`
}

// Price is a product price as sent by the backend: a string, a number, or
// nothing at all. Falsy values (absent, null, "", 0, false) are unset.
type Price struct {
	text string
	set  bool
}

// PriceOf wraps a textual price. The empty string is unset.
func PriceOf(s string) Price {
	return Price{text: s, set: s != ""}
}

// NumericPrice wraps a numeric price. Zero and NaN are unset.
func NumericPrice(v float64) Price {
	if v == 0 || math.IsNaN(v) {
		return Price{text: formatNumber(v)}
	}
	return Price{text: formatNumber(v), set: true}
}

// IsSet reports whether the price carries a truthy value.
func (p Price) IsSet() bool { return p.set }

// String returns the raw price text, which may be empty.
func (p Price) String() string { return p.text }

// Display returns the price text or PricePlaceholder when unset.
func (p Price) Display() string {
	if !p.set {
		return PricePlaceholder
	}
	return p.text
}

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")),
		bytes.Equal(data, []byte("false")), bytes.Equal(data, []byte("true")):
		*p = Price{}
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("price: %w", err)
		}
		*p = PriceOf(s)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("price: unsupported value %s", data)
	}
	*p = NumericPrice(v)
	return nil
}

// MarshalJSON emits the price text as a JSON string, matching the backend.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.text)
}

// UnmarshalYAML lets fixture files spell prices as plain scalars.
func (p *Price) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("price: line %d: expected a scalar", value.Line)
	}
	if value.Tag == "!!null" {
		*p = Price{}
		return nil
	}
	*p = PriceOf(value.Value)
	return nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
