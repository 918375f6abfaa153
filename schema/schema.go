package schema

// ============================================================================
// DISCOVERED SCHEMA — Dataset shape inferred from a flat file
// ============================================================================
// Used when no pivot engine is present (CLI, HTTP adapter): the discovered
// Config tells the pipeline which columns are grouping dimensions and which
// are numeric measures, and suggests a default row/column layout.
// ============================================================================

// Config describes the discovered shape of a dataset.
type Config struct {
	Name string `json:"name"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`

	DiscoveredFrom string `json:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty"`

	// Columns skipped during auto-discovery
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty"`
}

// DimensionMeta describes a column used for grouping rows or columns.
type DimensionMeta struct {
	Key             string   `json:"key"`
	DisplayName     string   `json:"displayName"`
	SampleValues    []string `json:"sampleValues"`
	UniqueCount     int      `json:"uniqueCount"`
	Parent          string   `json:"parent,omitempty"` // Parent dimension key for hierarchies
	IsTemporal      bool     `json:"isTemporal,omitempty"`
	TemporalFormat  string   `json:"temporalFormat,omitempty"`
	CardinalityHint string   `json:"cardinalityHint,omitempty"` // "low", "medium", "high"
}

// MeasureMeta describes a numeric column.
type MeasureMeta struct {
	Key                string      `json:"key"`
	DisplayName        string      `json:"displayName"`
	DefaultAggregation Aggregation `json:"defaultAggregation"`
}

// SkippedColumn records why a column was excluded during auto-discovery.
type SkippedColumn struct {
	Column      string `json:"column"`
	Reason      string `json:"reason"`
	Recoverable bool   `json:"recoverable"` // Can be restored if consumer overrides
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// Axis returns the pivot axis for a dimension key.
func (c Config) Axis(key string) (Axis, bool) {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return Axis{UniqueName: d.Key, Caption: d.DisplayName}, true
		}
	}
	return Axis{}, false
}

// PivotMeasures converts every discovered measure into a pivot measure.
func (c Config) PivotMeasures() []Measure {
	out := make([]Measure, 0, len(c.Measures))
	for _, m := range c.Measures {
		agg := m.DefaultAggregation
		if agg == "" {
			agg = AggSum
		}
		out = append(out, Measure{UniqueName: m.Key, Caption: m.DisplayName, Aggregation: agg})
	}
	return out
}

// SuggestLayout picks default row and column axes.
// A detected hierarchy becomes the row chain (parent first); otherwise the
// lowest-cardinality dimension goes on rows. A second low-cardinality
// dimension, if any, goes on columns.
func (c Config) SuggestLayout() (rows, cols []Axis) {
	if len(c.Dimensions) == 0 {
		return nil, nil
	}

	byKey := make(map[string]DimensionMeta, len(c.Dimensions))
	for _, d := range c.Dimensions {
		byKey[d.Key] = d
	}

	// Longest parent chain wins.
	var chain []DimensionMeta
	for _, d := range c.Dimensions {
		if d.Parent == "" {
			continue
		}
		path := []DimensionMeta{d}
		seen := map[string]bool{d.Key: true}
		for p, ok := byKey[d.Parent]; ok && !seen[p.Key]; p, ok = byKey[p.Parent] {
			seen[p.Key] = true
			path = append([]DimensionMeta{p}, path...)
		}
		if len(path) > len(chain) {
			chain = path
		}
	}

	used := make(map[string]bool)
	if len(chain) >= 2 {
		for _, d := range chain {
			rows = append(rows, Axis{UniqueName: d.Key, Caption: d.DisplayName})
			used[d.Key] = true
		}
		return rows, nil
	}

	primary := c.Dimensions[0]
	for _, d := range c.Dimensions[1:] {
		if d.IsTemporal && !primary.IsTemporal {
			primary = d
			continue
		}
		if d.IsTemporal == primary.IsTemporal && d.UniqueCount < primary.UniqueCount {
			primary = d
		}
	}
	rows = []Axis{{UniqueName: primary.Key, Caption: primary.DisplayName}}
	used[primary.Key] = true

	for _, d := range c.Dimensions {
		if used[d.Key] || d.CardinalityHint != "low" {
			continue
		}
		cols = []Axis{{UniqueName: d.Key, Caption: d.DisplayName}}
		break
	}
	return rows, cols
}
