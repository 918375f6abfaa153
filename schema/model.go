package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ============================================================================
// PIVOT MODEL — What the pivot engine hands to the chart pipeline
// ============================================================================
// Records are raw rows keyed by field name. Axes and measures describe how
// the pivot engine groups and aggregates them. Nothing in this package
// mutates a Record.
// ============================================================================

// Record is a single raw data row. Values are string, numeric, bool or nil.
type Record map[string]any

// Axis identifies a row or column grouping field.
type Axis struct {
	UniqueName string `json:"uniqueName" yaml:"unique_name"`
	Caption    string `json:"caption" yaml:"caption"`
}

// Aggregation is how a measure is reduced within a pivot cell.
type Aggregation string

const (
	AggSum   Aggregation = "sum"
	AggAvg   Aggregation = "avg"
	AggMin   Aggregation = "min"
	AggMax   Aggregation = "max"
	AggCount Aggregation = "count"
)

// Measure identifies a numeric field and its aggregation.
type Measure struct {
	UniqueName  string      `json:"uniqueName" yaml:"unique_name"`
	Caption     string      `json:"caption" yaml:"caption"`
	Aggregation Aggregation `json:"aggregation" yaml:"aggregation"`
}

// Label returns the caption, or the unique name when no caption is set.
func (m Measure) Label() string {
	if m.Caption != "" {
		return m.Caption
	}
	return m.UniqueName
}

// Label returns the caption, or the unique name when no caption is set.
func (a Axis) Label() string {
	if a.Caption != "" {
		return a.Caption
	}
	return a.UniqueName
}

// State mirrors the pivot engine's getState() payload.
type State struct {
	Rows     []Axis    `json:"rows"`
	Columns  []Axis    `json:"columns"`
	Measures []Measure `json:"measures"`
	RawData  []Record  `json:"rawData"`
}

// CellValueFunc resolves the aggregated value of one pivot cell.
// Implementations return 0 for combinations that do not exist.
type CellValueFunc func(rowValue, colValue string, measure Measure, rowField, colField string) float64

// Normalized returns a copy of the state with synthetic "all" axes removed.
func (s State) Normalized() State {
	out := s
	out.Rows = FilterAxes(s.Rows)
	out.Columns = FilterAxes(s.Columns)
	return out
}

// RowField returns the first row axis name, or "".
func (s State) RowField() string {
	if len(s.Rows) == 0 {
		return ""
	}
	return s.Rows[0].UniqueName
}

// ColumnField returns the first column axis name, or "".
func (s State) ColumnField() string {
	if len(s.Columns) == 0 {
		return ""
	}
	return s.Columns[0].UniqueName
}

// ============================================================================
// SYNTHETIC AXES
// ============================================================================

// SyntheticAxisName is the pivot engine's "all columns" placeholder.
const SyntheticAxisName = "__all__"

// IsSyntheticAxis reports whether an axis is the placeholder rather than a
// real field. A field literally named "all" is real.
func IsSyntheticAxis(a Axis) bool {
	return strings.EqualFold(strings.TrimSpace(a.UniqueName), SyntheticAxisName)
}

// FilterAxes drops synthetic placeholders and axes with no name.
func FilterAxes(axes []Axis) []Axis {
	out := make([]Axis, 0, len(axes))
	for _, a := range axes {
		if a.UniqueName == "" || IsSyntheticAxis(a) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ============================================================================
// VALUE COERCION
// ============================================================================

// IsNull reports whether a record value is absent for profiling purposes.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// StringValue renders a record value as a category label.
// Whole numbers print without decimals; nil prints as "".
func StringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return formatFloat(t)
	case float32:
		return formatFloat(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// NumberValue extracts a finite number from a record value.
// Numeric strings are accepted; booleans, empty strings and NaN/Inf are not.
func NumberValue(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
