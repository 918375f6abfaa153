package helpers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mindfiredigital/PivotHead-sub001/schema"
)

// ============================================================================
// DATASET — Typed records plus the schema they were typed with
// ============================================================================
// Dimensions become strings (nil for null tokens), measures become float64
// (nil when the cell is not numeric). Skipped columns are dropped. The
// synthetic record_count measure is 1 on every record.
// ============================================================================

// ErrUnknownField is returned when a layout names a column the schema does
// not know.
var ErrUnknownField = errors.New("unknown field")

// Dataset is a typed, schema-backed set of records.
type Dataset struct {
	Schema  *schema.Config
	Records []schema.Record
}

// NewDataset discovers the schema of t and types its rows with it.
func NewDataset(t *Table, opts ...schema.DiscoverOptions) (*Dataset, error) {
	sch, err := t.Discover(opts...)
	if err != nil {
		return nil, err
	}
	return &Dataset{Schema: sch, Records: Records(t, *sch)}, nil
}

// Records types every row of t according to sch.
func Records(t *Table, sch schema.Config) []schema.Record {
	type mapping struct {
		key       string
		dimension bool
		measure   bool
	}

	dims := make(map[string]bool, len(sch.Dimensions))
	for _, d := range sch.Dimensions {
		dims[d.Key] = true
	}
	measures := make(map[string]bool, len(sch.Measures))
	for _, m := range sch.Measures {
		measures[m.Key] = true
	}
	hasCount := measures[schema.RecordCountKey]

	mappings := make([]mapping, len(t.Headers))
	for i, h := range t.Headers {
		key := schema.ColumnKey(h)
		mappings[i] = mapping{key: key, dimension: dims[key], measure: measures[key]}
	}

	records := make([]schema.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(schema.Record, len(mappings)+1)
		for i, m := range mappings {
			if !m.dimension && !m.measure {
				continue
			}
			var cell string
			if i < len(row) {
				cell = strings.TrimSpace(row[i])
			}
			if schema.IsNullToken(cell) {
				rec[m.key] = nil
				continue
			}
			if m.dimension {
				rec[m.key] = cell
			} else if f, ok := schema.ParseNumber(cell); ok {
				rec[m.key] = f
			} else {
				rec[m.key] = nil
			}
		}
		if hasCount {
			rec[schema.RecordCountKey] = 1.0
		}
		records = append(records, rec)
	}
	return records
}

// State builds a pivot state over the dataset. Fields are column keys or
// headers. With no rows given, the schema's suggested layout is used; with
// no measures given, every measure is included.
func (d *Dataset) State(rows, cols, measures []string) (schema.State, error) {
	state := schema.State{RawData: d.Records}

	if len(rows) == 0 && len(cols) == 0 {
		state.Rows, state.Columns = d.Schema.SuggestLayout()
	} else {
		var err error
		if state.Rows, err = d.axes(rows); err != nil {
			return schema.State{}, err
		}
		if state.Columns, err = d.axes(cols); err != nil {
			return schema.State{}, err
		}
	}

	all := d.Schema.PivotMeasures()
	if len(measures) == 0 {
		state.Measures = all
		return state, nil
	}
	for _, name := range measures {
		key := schema.ColumnKey(name)
		found := false
		for _, m := range all {
			if m.UniqueName == key {
				state.Measures = append(state.Measures, m)
				found = true
				break
			}
		}
		if !found {
			return schema.State{}, fmt.Errorf("%w: measure %q", ErrUnknownField, name)
		}
	}
	return state, nil
}

func (d *Dataset) axes(fields []string) ([]schema.Axis, error) {
	out := make([]schema.Axis, 0, len(fields))
	for _, f := range fields {
		a, ok := d.Schema.Axis(schema.ColumnKey(f))
		if !ok {
			return nil, fmt.Errorf("%w: dimension %q", ErrUnknownField, f)
		}
		out = append(out, a)
	}
	return out, nil
}
