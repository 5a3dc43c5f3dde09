// Package fixture is a deterministic stand-in for the recommendation backend.
// It serves the same two endpoints from a small YAML catalog so the client can
// be developed and tested without the embedding service.
package fixture

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"furnish/internal/catalog"

	"gopkg.in/yaml.v3"
)

// topStats is how many brands and categories /analytics reports.
const topStats = 5

// Item is one catalog row.
type Item struct {
	catalog.Product `yaml:",inline"`
	Category        string `yaml:"category"`
}

// Data is a fixture catalog.
type Data struct {
	Products []Item `yaml:"products"`
}

// Load reads a YAML fixture file.
func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &d, nil
}

// Default returns the built-in catalog.
func Default() *Data {
	return &Data{Products: []Item{
		{Category: "Living Room Furniture And Decor", Product: catalog.Product{
			Title: "Modern Wooden Dining Chair", Brand: "Acme", Price: catalog.PriceOf("$89.99"),
			Image:       "https://images.example.com/acme-dining-chair.jpg",
			Description: "A solid oak chair with a curved backrest."}},
		{Category: "Living Room Furniture And Decor", Product: catalog.Product{
			Title: "Mid-Century Accent Chair", Brand: "Zen", Price: catalog.PriceOf("$149.00"),
			Image:       "https://images.example.com/zen-accent-chair.jpg",
			Description: "Walnut legs and a tufted linen seat."}},
		{Category: "Bedroom", Product: catalog.Product{
			Title: "Wooden Nightstand With Drawer", Brand: "Acme", Price: catalog.PriceOf("$59.50"),
			Image:       "https://images.example.com/acme-nightstand.jpg",
			Description: "<p>Compact pine nightstand.</p><p>Soft-close drawer.</p>"}},
		{Category: "Office", Product: catalog.Product{
			Title: "Ergonomic Mesh Office Chair", Brand: "Birch & Co", Price: catalog.PriceOf("$219.99"),
			Image:       "https://images.example.com/birch-office-chair.jpg",
			Description: "Adjustable lumbar support and armrests."}},
		{Category: "Outdoor", Product: catalog.Product{
			Title: "Teak Garden Bench", Brand: "Zen",
			Image:       "",
			Description: "Weather resistant teak for patios."}},
		{Category: "Living Room Furniture And Decor", Product: catalog.Product{
			Title: "Velvet Three Seat Sofa", Brand: "Nordhaus", Price: catalog.PriceOf("$799.00"),
			Image:       "https://images.example.com/nordhaus-sofa.jpg",
			Description: "Deep seats in emerald velvet."}},
	}}
}

// Recommend ranks products by how many query terms they contain. Title hits
// count double; ties keep catalog order. At most topN products are returned.
func (d *Data) Recommend(query string, topN int) []catalog.Product {
	terms := tokenize(query)
	type scored struct {
		item  Item
		score int
	}
	ranked := make([]scored, 0, len(d.Products))
	for _, it := range d.Products {
		title := toSet(tokenize(it.Title))
		rest := toSet(tokenize(it.Brand + " " + it.Category + " " + it.Description))
		score := 0
		for _, term := range terms {
			if title[term] {
				score += 2
			} else if rest[term] {
				score++
			}
		}
		ranked = append(ranked, scored{item: it, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if topN > len(ranked) {
		topN = len(ranked)
	}
	out := make([]catalog.Product, 0, topN)
	for _, r := range ranked[:topN] {
		out = append(out, r.item.Product)
	}
	return out
}

// Snapshot aggregates the catalog. ok is false for an empty catalog.
func (d *Data) Snapshot() (snap catalog.AnalyticsSnapshot, ok bool) {
	if len(d.Products) == 0 {
		return catalog.AnalyticsSnapshot{}, false
	}

	var sum float64
	var priced int
	brands := make([]string, 0, len(d.Products))
	categories := make([]string, 0, len(d.Products))
	for _, it := range d.Products {
		if v, ok := parsePrice(it.Price.String()); ok {
			sum += v
			priced++
		}
		brands = append(brands, it.Brand)
		categories = append(categories, it.Category)
	}

	snap.TotalProducts = len(d.Products)
	if priced > 0 {
		snap.AvgPrice = sum / float64(priced)
	}
	snap.TopBrands = valueCounts(brands, topStats)
	snap.TopCategories = valueCounts(categories, topStats)
	return snap, true
}

// valueCounts counts occurrences, most frequent first; ties keep first
// appearance. Empty names are skipped.
func valueCounts(values []string, limit int) catalog.Counts {
	counts := make(catalog.Counts, 0)
	index := make(map[string]int)
	for _, v := range values {
		if v == "" {
			continue
		}
		if i, ok := index[v]; ok {
			counts[i].Value++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, catalog.Count{Name: v, Value: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Value > counts[j].Value })
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

func parsePrice(s string) (float64, bool) {
	s = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
