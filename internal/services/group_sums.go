package services

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"sales-dashboard/internal/models"
)

// GroupSums accumulates revenue per key. Keys are unique and iterate in
// the order they were first added. The zero value is ready to use.
type GroupSums struct {
	keys   []string
	values map[string]float64
}

func (g *GroupSums) Add(key string, amount float64) {
	if g.values == nil {
		g.values = make(map[string]float64)
	}
	if _, ok := g.values[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.values[key] += amount
}

func (g GroupSums) Get(key string) (float64, bool) {
	v, ok := g.values[key]
	return v, ok
}

func (g GroupSums) Len() int {
	return len(g.keys)
}

func (g GroupSums) Keys() []string {
	return slices.Clone(g.keys)
}

func (g GroupSums) Values() []float64 {
	values := make([]float64, len(g.keys))
	for i, k := range g.keys {
		values[i] = g.values[k]
	}
	return values
}

// Entries returns the groups in insertion order.
func (g GroupSums) Entries() []models.GroupTotal {
	entries := make([]models.GroupTotal, len(g.keys))
	for i, k := range g.keys {
		entries[i] = models.GroupTotal{Key: k, Revenue: g.values[k]}
	}
	return entries
}

// SortedEntries returns the groups ordered by key ascending.
func (g GroupSums) SortedEntries() []models.GroupTotal {
	entries := g.Entries()
	slices.SortFunc(entries, func(a, b models.GroupTotal) int {
		return strings.Compare(a.Key, b.Key)
	})
	return entries
}

func (g GroupSums) Total() float64 {
	var total float64
	for _, k := range g.keys {
		total += g.values[k]
	}
	return total
}

// MarshalJSON writes the groups as a JSON object, preserving key order.
func (g GroupSums) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range g.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(g.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
