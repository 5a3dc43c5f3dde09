package catalog

import (
	"math"
	"strconv"
)

const (
	// CategoryLabelLimit is the number of runes kept from a category name.
	CategoryLabelLimit = 30
	// LabelEllipsis is appended to every category label.
	LabelEllipsis = "..."
)

// Point is one bar of a chart.
type Point struct {
	Label string
	Value int
}

// ChartSeries is derived, chart-ready data. Order follows the source mapping.
type ChartSeries []Point

// SeriesFrom converts counts to a series, relabelling each name with label
// when it is non-nil. No sorting is applied.
func SeriesFrom(counts Counts, label func(string) string) ChartSeries {
	series := make(ChartSeries, 0, len(counts))
	for _, entry := range counts {
		name := entry.Name
		if label != nil {
			name = label(name)
		}
		series = append(series, Point{Label: name, Value: entry.Value})
	}
	return series
}

// BrandSeries is the top-brands chart data.
func BrandSeries(s AnalyticsSnapshot) ChartSeries {
	return SeriesFrom(s.TopBrands, nil)
}

// CategorySeries is the top-categories chart data with truncated labels.
func CategorySeries(s AnalyticsSnapshot) ChartSeries {
	return SeriesFrom(s.TopCategories, TruncateCategoryLabel)
}

// TruncateCategoryLabel keeps the first CategoryLabelLimit runes of name and
// always appends LabelEllipsis, even when nothing was cut.
//
// The unconditional ellipsis matches the labels the web dashboard has always
// shown; short names therefore render as "Sofas...".
func TruncateCategoryLabel(name string) string {
	runes := []rune(name)
	if len(runes) > CategoryLabelLimit {
		runes = runes[:CategoryLabelLimit]
	}
	return string(runes) + LabelEllipsis
}

// Max returns the largest value in the series, or 0 when empty.
func (s ChartSeries) Max() int {
	max := 0
	for _, p := range s {
		if p.Value > max {
			max = p.Value
		}
	}
	return max
}

// Labels returns the labels in order.
func (s ChartSeries) Labels() []string {
	labels := make([]string, len(s))
	for i, p := range s {
		labels[i] = p.Label
	}
	return labels
}

// FormatAveragePrice renders an average price with a dollar prefix and
// exactly two decimals, e.g. 12.5 -> "$12.50".
func FormatAveragePrice(v float64) string {
	return "$" + toFixed2(v)
}

// toFixed2 follows Number.prototype.toFixed(2): when the binary value sits
// exactly halfway between two cents it rounds away from zero, where strconv
// would round to even. Only multiples of 1/8 can be exact ties.
func toFixed2(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	if eighths := v * 8; eighths == math.Trunc(eighths) && math.Abs(v) < 1<<40 {
		cents := math.Round(v * 100)
		return strconv.FormatFloat(cents/100, 'f', 2, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
