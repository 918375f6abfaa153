package engine

import (
	"strings"
)

// ============================================================================
// FILTERS — Value filters on row/column fields via RecordView
// ============================================================================
// Single-pass filter: checks ALL field constraints per record in one loop.
// Returns a SubView (index list into parent) — zero data copy.
// ============================================================================

// Filters restrict records by field value.
// OR within a field, AND across fields. Matching is case-insensitive.
type Filters struct {
	Fields map[string][]string `json:"fields"`
}

// HasFilter returns true if a specific field filter is set.
func (f Filters) HasFilter(field string) bool {
	if f.Fields == nil {
		return false
	}
	vals, ok := f.Fields[field]
	return ok && len(vals) > 0
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Fields {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// only returns a Filters holding just one field's constraint.
func (f Filters) only(field string) Filters {
	if !f.HasFilter(field) {
		return Filters{}
	}
	return Filters{Fields: map[string][]string{field: f.Fields[field]}}
}

// ApplyFilters returns a view of records matching all field filters.
// Empty filter = no restriction (returns original view).
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	// Pre-build lowercase lookup sets for each field filter
	sets := make(map[string]map[string]bool)
	for field, allowed := range filters.Fields {
		if len(allowed) > 0 {
			sets[field] = toLowerSet(allowed)
		}
	}

	// Single pass — record passes if it matches ALL field filters
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for field, set := range sets {
			val := strings.ToLower(view.Dimension(i, field))
			if !set[val] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
