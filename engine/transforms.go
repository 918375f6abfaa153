package engine

import (
	"gonum.org/v1/gonum/floats"
)

// ============================================================================
// TRANSFORMS — Cross-cutting operations on built chart data
// ============================================================================
// Each returns a new ChartData; the input is left untouched.
// ============================================================================

// NormalizeMode selects which totals values are rescaled against.
type NormalizeMode string

const (
	// ByRow rescales each label's values across series to percentages.
	ByRow NormalizeMode = "row"
	// ByColumn rescales each series' values to percentages of its total.
	ByColumn NormalizeMode = "column"
)

func (cd *ChartData) clone() *ChartData {
	out := *cd
	out.Labels = append([]string{}, cd.Labels...)
	out.Series = make([]Series, len(cd.Series))
	for i, s := range cd.Series {
		s.Data = append([]float64{}, s.Data...)
		out.Series[i] = s
	}
	return &out
}

// Transpose swaps the row and column axes: series names become labels and
// labels become series.
func Transpose(cd *ChartData) *ChartData {
	out := cd.clone()
	out.RowField, out.ColumnField = cd.ColumnField, cd.RowField
	out.AllRowValues, out.AllColumnValues = cd.AllColumnValues, cd.AllRowValues
	out.FilteredRowValues, out.FilteredColumnValues = cd.FilteredColumnValues, cd.FilteredRowValues

	out.Labels = make([]string, len(cd.Series))
	for i, s := range cd.Series {
		out.Labels[i] = s.Name
	}
	out.Series = make([]Series, len(cd.Labels))
	for j, label := range cd.Labels {
		data := make([]float64, len(cd.Series))
		for i, s := range cd.Series {
			if j < len(s.Data) {
				data[i] = s.Data[j]
			}
		}
		out.Series[j] = Series{Name: label, Data: data}
	}
	return out
}

// Normalize rescales values to percentages of their row or column total.
// A zero total yields 0 for every value in it.
func Normalize(cd *ChartData, mode NormalizeMode) *ChartData {
	out := cd.clone()
	switch mode {
	case ByColumn:
		for i := range out.Series {
			total := floats.Sum(out.Series[i].Data)
			for j, v := range out.Series[i].Data {
				out.Series[i].Data[j] = percent(v, total)
			}
		}
	default:
		for j := range out.Labels {
			var total float64
			for _, s := range out.Series {
				if j < len(s.Data) {
					total += s.Data[j]
				}
			}
			for i := range out.Series {
				if j < len(out.Series[i].Data) {
					out.Series[i].Data[j] = percent(out.Series[i].Data[j], total)
				}
			}
		}
	}
	return out
}

func percent(v, total float64) float64 {
	if total == 0 {
		return 0
	}
	return v / total * 100
}

// Stack tags every series with a stack group. Values are unchanged.
func Stack(cd *ChartData, group string) *ChartData {
	if group == "" {
		group = DefaultStack
	}
	out := cd.clone()
	for i := range out.Series {
		out.Series[i].Stack = group
	}
	return out
}

// Combo renders the first series as bars and the rest as lines.
func Combo(cd *ChartData) *ChartData {
	out := cd.clone()
	for i := range out.Series {
		if i == 0 {
			out.Series[i].Kind = KindBar
		} else {
			out.Series[i].Kind = KindLine
		}
	}
	return out
}

// WithKind tags every series with a rendering kind.
func WithKind(cd *ChartData, kind string) *ChartData {
	out := cd.clone()
	for i := range out.Series {
		out.Series[i].Kind = kind
	}
	return out
}

// TopN orders labels by total value (summed across series) or by label,
// then keeps the first n. n <= 0 keeps all. Ties keep their order.
func TopN(cd *ChartData, n int, key SortKey, dir Direction) *ChartData {
	totals := make([]float64, len(cd.Labels))
	for j := range cd.Labels {
		for _, s := range cd.Series {
			if j < len(s.Data) {
				totals[j] += s.Data[j]
			}
		}
	}

	order := rankedOrder(cd.Labels, totals, key, dir)
	if n > 0 && n < len(order) {
		order = order[:n]
	}

	out := cd.clone()
	out.Labels = make([]string, len(order))
	for k, j := range order {
		out.Labels[k] = cd.Labels[j]
	}
	for i, s := range cd.Series {
		data := make([]float64, len(order))
		for k, j := range order {
			if j < len(s.Data) {
				data[k] = s.Data[j]
			}
		}
		out.Series[i].Data = data
	}
	return out
}
