package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/mindfiredigital/PivotHead-sub001/schema"
)

// ============================================================================
// AGGREGATORS — Grouping, cell lookup and ordering via RecordView
// ============================================================================
// Grouping produces SubViews (index lists into the parent view) in
// first-seen order. The default cell lookup is built on the same groups.
// ============================================================================

// Group is the set of records sharing one field value.
type Group struct {
	Key   string
	Count int
	View  RecordView
}

// ============================================================================
// GROUPING
// ============================================================================

// groupBySingle buckets records by one field. Null values are skipped.
func groupBySingle(view RecordView, field string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, field)
		if key == "" {
			continue
		}
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Count: len(grouped[key]),
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// UniqueValues returns distinct non-null values of a field in first-seen order.
func UniqueValues(view RecordView, field string) []string {
	if field == "" {
		return []string{}
	}
	seen := make(map[string]bool)
	result := []string{}
	for i := 0; i < view.Len(); i++ {
		val := view.Dimension(i, field)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}

// ============================================================================
// AGGREGATION
// ============================================================================

// Aggregate reduces a view to one number with the measure's aggregation.
// Count counts records; the others skip non-numeric values.
func Aggregate(view RecordView, m schema.Measure) float64 {
	switch m.Aggregation {
	case schema.AggCount:
		return float64(view.Len())
	case schema.AggAvg:
		return AvgMeasure(view, m.UniqueName)
	case schema.AggMax:
		return MaxMeasure(view, m.UniqueName)
	case schema.AggMin:
		return MinMeasure(view, m.UniqueName)
	default:
		return SumMeasure(view, m.UniqueName)
	}
}

func measureValues(view RecordView, measure string) []float64 {
	out := make([]float64, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Measure(i, measure); ok {
			out = append(out, v)
		}
	}
	return out
}

// SumMeasure sums a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	return floats.Sum(measureValues(view, measure))
}

// AvgMeasure averages the numeric values of a measure; 0 when none.
func AvgMeasure(view RecordView, measure string) float64 {
	vals := measureValues(view, measure)
	if len(vals) == 0 {
		return 0
	}
	return floats.Sum(vals) / float64(len(vals))
}

// MaxMeasure returns the largest value of a named measure; 0 when none.
func MaxMeasure(view RecordView, measure string) float64 {
	vals := measureValues(view, measure)
	if len(vals) == 0 {
		return 0
	}
	return floats.Max(vals)
}

// MinMeasure returns the smallest value of a named measure; 0 when none.
func MinMeasure(view RecordView, measure string) float64 {
	vals := measureValues(view, measure)
	if len(vals) == 0 {
		return 0
	}
	return floats.Min(vals)
}

// ============================================================================
// DEFAULT CELL LOOKUP
// ============================================================================

// NewRecordLookup builds a CellValueFunc that aggregates raw records per
// (row, column) pair. An empty colField aggregates the whole row. Missing
// combinations resolve to 0. Indexes are built lazily per field pair and
// the returned function is safe for concurrent use.
func NewRecordLookup(records []schema.Record) schema.CellValueFunc {
	view := NewSliceView(records)

	type fieldPair struct{ row, col string }
	var mu sync.Mutex
	indexes := make(map[fieldPair]map[string]RecordView)

	index := func(rowField, colField string) map[string]RecordView {
		mu.Lock()
		defer mu.Unlock()
		key := fieldPair{rowField, colField}
		if idx, ok := indexes[key]; ok {
			return idx
		}
		idx := make(map[string]RecordView)
		for _, g := range groupBySingle(view, rowField) {
			if colField == "" {
				idx[cellKey(g.Key, "")] = g.View
				continue
			}
			for _, sub := range groupBySingle(g.View, colField) {
				idx[cellKey(g.Key, sub.Key)] = sub.View
			}
		}
		indexes[key] = idx
		return idx
	}

	return func(rowValue, colValue string, m schema.Measure, rowField, colField string) float64 {
		if rowField == "" {
			return 0
		}
		cell, ok := index(rowField, colField)[cellKey(rowValue, colValue)]
		if !ok {
			return 0
		}
		return Aggregate(cell, m)
	}
}

func cellKey(row, col string) string {
	return row + "\x00" + col
}

// ============================================================================
// ORDERING
// ============================================================================

// SortKey selects what categories are ordered by.
type SortKey string

// Direction is ascending or descending.
type Direction string

const (
	SortByValue SortKey = "value"
	SortByLabel SortKey = "label"

	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// rankedOrder returns label positions ordered by key and direction.
// totals[i] is the value of labels[i]. The sort is stable, so ties keep
// their original order.
func rankedOrder(labels []string, totals []float64, key SortKey, dir Direction) []int {
	idx := make([]int, len(labels))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		i, j := idx[a], idx[b]
		if key == SortByLabel {
			li, lj := strings.ToLower(labels[i]), strings.ToLower(labels[j])
			if dir == Asc {
				return li < lj
			}
			return li > lj
		}
		if dir == Asc {
			return totals[i] < totals[j]
		}
		return totals[i] > totals[j]
	})
	return idx
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatNumber formats a value with comma separators and two decimals.
// Whole numbers print without decimals.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return FormatInt(int(v))
	}
	negative := v < 0
	if negative {
		v = -v
	}
	intPart := int64(v)
	decPart := int64((v-float64(intPart))*100 + 0.5)
	if decPart >= 100 {
		intPart++
		decPart -= 100
	}
	out := fmt.Sprintf("%s.%02d", FormatInt(int(intPart)), decPart)
	if negative {
		out = "-" + out
	}
	return out
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LabelForDimension returns a readable label for a field key.
// "order_stage" → "Order Stage".
func LabelForDimension(field string) string {
	if field == "" {
		return ""
	}
	parts := strings.FieldsFunc(field, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// LabelForAggregation returns a human-readable label for an aggregation.
func LabelForAggregation(agg schema.Aggregation) string {
	switch agg {
	case schema.AggSum, "":
		return "Total"
	case schema.AggCount:
		return "Count"
	case schema.AggAvg:
		return "Average"
	case schema.AggMax:
		return "Maximum"
	case schema.AggMin:
		return "Minimum"
	default:
		return "Value"
	}
}

// measureAxisLabel names the value axis, e.g. "Total Sales".
func measureAxisLabel(m schema.Measure) string {
	if m.UniqueName == "" {
		return "Value"
	}
	return LabelForAggregation(m.Aggregation) + " " + m.Label()
}
