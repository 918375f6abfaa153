package engine

import "github.com/mindfiredigital/PivotHead-sub001/schema"

// ============================================================================
// RECORD VIEW — Zero-copy access to raw pivot records
// ============================================================================
// The engine never owns caller data. Grouping and filtering produce
// SubViews (index lists into the parent) instead of copying records.
//
// Implementations:
//   SliceView — wraps []schema.Record
//   SubView   — filtered/grouped subset of a parent view
// ============================================================================

// RecordView provides indexed access to a dataset.
type RecordView interface {
	Len() int
	Value(index int, key string) any
	// Dimension renders a field as a category label; "" for null or absent.
	Dimension(index int, key string) string
	// Measure returns a field as a finite number; false when not numeric.
	Measure(index int, key string) (float64, bool)
}

// ============================================================================
// SLICE VIEW
// ============================================================================

// SliceView wraps a []schema.Record slice as a RecordView.
type SliceView struct {
	records []schema.Record
}

// NewSliceView creates a RecordView over records. The slice is not copied.
func NewSliceView(records []schema.Record) RecordView {
	return &SliceView{records: records}
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Value(i int, key string) any {
	if i < 0 || i >= len(v.records) {
		return nil
	}
	return v.records[i][key]
}

func (v *SliceView) Dimension(i int, key string) string {
	val := v.Value(i, key)
	if schema.IsNull(val) {
		return ""
	}
	return schema.StringValue(val)
}

func (v *SliceView) Measure(i int, key string) (float64, bool) {
	return schema.NumberValue(v.Value(i, key))
}

// ============================================================================
// SUB VIEW
// ============================================================================

// SubView is a subset of a parent RecordView. Holds indices, not records.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Value(i int, key string) any {
	if i < 0 || i >= len(v.indices) {
		return nil
	}
	return v.parent.Value(v.indices[i], key)
}

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.indices) {
		return 0, false
	}
	return v.parent.Measure(v.indices[i], key)
}
