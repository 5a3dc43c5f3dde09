package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// AnalyticsSnapshot is the body of GET /analytics. Once a screen holds a
// snapshot it is never mutated.
type AnalyticsSnapshot struct {
	TotalProducts int     `json:"total_products"`
	AvgPrice      float64 `json:"avg_price"`
	TopBrands     Counts  `json:"top_brands"`
	TopCategories Counts  `json:"top_categories"`
}

// Count is one name/occurrence pair of a frequency mapping.
type Count struct {
	Name  string
	Value int
}

// Counts is a name to count mapping that keeps the member order of the JSON
// object it was decoded from.
type Counts []Count

var errNotObject = errors.New("counts: expected a JSON object")

// UnmarshalJSON decodes an object while preserving member order. A repeated
// name keeps its first position and takes the last value.
func (c *Counts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("counts: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errNotObject
	}

	out := make(Counts, 0)
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("counts: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return errNotObject
		}

		var num json.Number
		if err := dec.Decode(&num); err != nil {
			return fmt.Errorf("counts: value for %q: %w", name, err)
		}
		value, err := countValue(num)
		if err != nil {
			return fmt.Errorf("counts: value for %q: %w", name, err)
		}

		if i, seen := index[name]; seen {
			out[i].Value = value
			continue
		}
		index[name] = len(out)
		out = append(out, Count{Name: name, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("counts: %w", err)
	}
	*c = out
	return nil
}

// MarshalJSON writes the counts as an object in slice order.
func (c Counts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(fmt.Sprintf("%d", entry.Value))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Names returns the names in mapping order.
func (c Counts) Names() []string {
	names := make([]string, len(c))
	for i, entry := range c {
		names[i] = entry.Name
	}
	return names
}

func countValue(num json.Number) (int, error) {
	if n, err := num.Int64(); err == nil {
		return int(n), nil
	}
	f, err := num.Float64()
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("count %s is not an integer", num)
	}
	return int(f), nil
}
