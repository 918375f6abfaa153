package engine

import (
	"go.uber.org/zap"

	"github.com/mindfiredigital/PivotHead-sub001/schema"
)

// ============================================================================
// CHART BUILDER — Reshapes pivot cells into chart data
// ============================================================================
// Pipeline shared by every builder:
//   1. Unique row/column values in first-seen order (All*Values)
//   2. Row/column value filters (Filtered*Values)
//   3. Top-N limit by row total, then optional sort
//   4. Optional sampling of row categories
//   5. Cell lookup per (row, column, measure)
//
// Missing cells resolve to 0. Empty or malformed axes produce empty but
// well-formed shapes, never an error.
// ============================================================================

// frame is the resolved category grid a builder works on.
type frame struct {
	base    ChartData
	rows    []string
	cols    []string // [""] when there is no column field
	measure schema.Measure
	cell    schema.CellValueFunc
	cfg     *config
}

func prepare(in Input, opts []Option) *frame {
	cfg := applyOptions(opts)
	f := &frame{cfg: cfg}

	measure, _ := in.selected()
	f.measure = measure

	f.cell = in.CellValue
	if f.cell == nil {
		f.cell = NewRecordLookup(in.Records)
	}

	view := NewSliceView(in.Records)
	filters := cfg.filtersFor(in.RowField, in.ColumnField)

	allRows := UniqueValues(view, in.RowField)
	allCols := UniqueValues(view, in.ColumnField)
	rows := UniqueValues(ApplyFilters(view, filters.only(in.RowField)), in.RowField)
	cols := UniqueValues(ApplyFilters(view, filters.only(in.ColumnField)), in.ColumnField)

	measures := in.Measures
	if measures == nil {
		measures = []schema.Measure{}
	}
	f.base = ChartData{
		Labels:               []string{},
		Series:               []Series{},
		RowField:             in.RowField,
		ColumnField:          in.ColumnField,
		Measures:             measures,
		SelectedMeasure:      measure,
		AllRowValues:         allRows,
		AllColumnValues:      allCols,
		FilteredRowValues:    rows,
		FilteredColumnValues: cols,
	}

	if in.ColumnField == "" {
		cols = []string{""}
	}
	f.cols = cols

	if in.RowField == "" || measure.UniqueName == "" {
		f.rows = []string{}
		return f
	}

	if cfg.limit > 0 && len(rows) > cfg.limit {
		totals := f.rowTotals(rows, measure)
		order := rankedOrder(rows, totals, SortByValue, Desc)
		limited := make([]string, cfg.limit)
		for i := range limited {
			limited[i] = rows[order[i]]
		}
		cfg.logger.Debug("limited row categories", zap.Int("from", len(rows)), zap.Int("to", cfg.limit))
		rows = limited
	}

	if cfg.sortKey != "" {
		var totals []float64
		if cfg.sortKey == SortByValue {
			totals = f.rowTotals(rows, measure)
		}
		dir := cfg.sortDir
		if dir == "" {
			dir = Desc
		}
		order := rankedOrder(rows, totals, cfg.sortKey, dir)
		sorted := make([]string, len(rows))
		for i, j := range order {
			sorted[i] = rows[j]
		}
		rows = sorted
	}

	if cfg.sampler != nil && cfg.sampler.NeedsSampling(len(rows)) {
		// LTTB needs one numeric series to measure; with several it steps.
		var values []float64
		if len(f.cols) == 1 {
			values = f.rowTotals(rows, measure)
		}
		idx := cfg.sampler.Indices(len(rows), cfg.sampler.Config().MaxPoints, values)
		sampled := make([]string, len(idx))
		for i, j := range idx {
			sampled[i] = rows[j]
		}
		cfg.logger.Debug("sampled row categories",
			zap.String("method", string(cfg.sampler.Config().Method)),
			zap.Int("from", len(rows)),
			zap.Int("to", len(sampled)))
		rows = sampled
	}

	f.rows = rows
	return f
}

func (f *frame) value(row, col string, m schema.Measure) float64 {
	return f.cell(row, col, m, f.base.RowField, f.base.ColumnField)
}

func (f *frame) rowTotals(rows []string, m schema.Measure) []float64 {
	totals := make([]float64, len(rows))
	for i, r := range rows {
		for _, c := range f.cols {
			totals[i] += f.value(r, c, m)
		}
	}
	return totals
}

func (f *frame) seriesName(col string) string {
	if col == "" {
		return f.measure.Label()
	}
	return col
}

func (f *frame) chartData(t ChartType) ChartData {
	cd := f.base
	cd.ChartType = t
	return cd
}

// ============================================================================
// CATEGORICAL — one series per column value
// ============================================================================

// BuildCategorical builds the row × column matrix for the selected measure.
func BuildCategorical(in Input, opts ...Option) *ChartData {
	f := prepare(in, opts)
	return f.categorical(ChartColumn)
}

func (f *frame) categorical(t ChartType) *ChartData {
	cd := f.chartData(t)
	if len(f.rows) == 0 {
		return &cd
	}
	cd.Labels = f.rows
	cd.Series = make([]Series, 0, len(f.cols))
	for _, c := range f.cols {
		data := make([]float64, len(f.rows))
		for i, r := range f.rows {
			data[i] = f.value(r, c, f.measure)
		}
		cd.Series = append(cd.Series, Series{Name: f.seriesName(c), Data: data})
	}
	return &cd
}

// ============================================================================
// AGGREGATED — single series folded across columns
// ============================================================================

// BuildAggregated folds every column series into one value per row, by sum
// or average (WithAggregateMode). Used by pie, doughnut and funnel.
func BuildAggregated(in Input, opts ...Option) *ChartData {
	f := prepare(in, opts)
	return f.aggregated(ChartPie)
}

func (f *frame) aggregated(t ChartType) *ChartData {
	cd := f.chartData(t)
	if len(f.rows) == 0 {
		return &cd
	}
	data := f.rowTotals(f.rows, f.measure)
	if f.cfg.aggregate == AggregateAvg && len(f.cols) > 0 {
		for i := range data {
			data[i] /= float64(len(f.cols))
		}
	}
	cd.Labels = f.rows
	cd.Series = []Series{{Name: f.measure.Label(), Data: data}}
	return &cd
}

// ============================================================================
// MEASURE SERIES — one series per measure
// ============================================================================

// BuildMeasureSeries builds one series per measure, each folded across
// columns. Combo charts render these as bars plus lines.
func BuildMeasureSeries(in Input, opts ...Option) *ChartData {
	f := prepare(in, opts)
	return f.measureSeries(ChartCombo)
}

func (f *frame) measureSeries(t ChartType) *ChartData {
	cd := f.chartData(t)
	if len(f.rows) == 0 {
		return &cd
	}
	cd.Labels = f.rows
	cd.Series = make([]Series, 0, len(f.base.Measures))
	for _, m := range f.base.Measures {
		cd.Series = append(cd.Series, Series{Name: m.Label(), Data: f.rowTotals(f.rows, m)})
	}
	return &cd
}

// ============================================================================
// SCATTER — selected measure (x) against a second measure (y)
// ============================================================================

// BuildScatter pairs the selected measure with the next measure, or with
// itself when only one exists. One point per row value per column series.
func BuildScatter(in Input, opts ...Option) *ScatterData {
	f := prepare(in, opts)
	return f.scatter()
}

func (f *frame) scatter() *ScatterData {
	out := &ScatterData{
		ChartData: f.chartData(ChartScatter),
		Points:    []ScatterSeries{},
		XMeasure:  f.measure,
		YMeasure:  f.measure,
	}
	for _, m := range f.base.Measures {
		if m.UniqueName != f.measure.UniqueName {
			out.YMeasure = m
			break
		}
	}
	if len(f.rows) == 0 {
		return out
	}

	out.Labels = f.rows
	for _, c := range f.cols {
		pts := make([]ScatterPoint, 0, len(f.rows))
		for _, r := range f.rows {
			pts = append(pts, ScatterPoint{
				X:     f.value(r, c, out.XMeasure),
				Y:     f.value(r, c, out.YMeasure),
				Label: r,
			})
		}
		out.Points = append(out.Points, ScatterSeries{Name: f.seriesName(c), Points: pts})
	}
	return out
}

// ============================================================================
// HEATMAP — one cell per (row, column)
// ============================================================================

// BuildHeatmap emits every row × column cell with the value range.
func BuildHeatmap(in Input, opts ...Option) *HeatmapData {
	f := prepare(in, opts)
	return f.heatmap()
}

func (f *frame) heatmap() *HeatmapData {
	out := &HeatmapData{
		ChartData: f.chartData(ChartHeatmap),
		Cells:     []HeatmapCell{},
	}
	if len(f.rows) == 0 {
		return out
	}

	out.Labels = f.rows
	out.Cells = make([]HeatmapCell, 0, len(f.rows)*len(f.cols))
	for _, r := range f.rows {
		for _, c := range f.cols {
			v := f.value(r, c, f.measure)
			if len(out.Cells) == 0 || v < out.MinValue {
				out.MinValue = v
			}
			if len(out.Cells) == 0 || v > out.MaxValue {
				out.MaxValue = v
			}
			out.Cells = append(out.Cells, HeatmapCell{Row: r, Col: f.seriesName(c), Value: v})
		}
	}
	return out
}

// ============================================================================
// SANKEY — positive row → column flows
// ============================================================================

// BuildSankey emits one flow per (row, column) with a strictly positive value.
func BuildSankey(in Input, opts ...Option) *SankeyData {
	f := prepare(in, opts)
	return f.sankey()
}

func (f *frame) sankey() *SankeyData {
	out := &SankeyData{
		ChartData: f.chartData(ChartSankey),
		Flows:     []Flow{},
	}
	if len(f.rows) == 0 {
		return out
	}

	out.Labels = f.rows
	for _, r := range f.rows {
		for _, c := range f.cols {
			if v := f.value(r, c, f.measure); v > 0 {
				out.Flows = append(out.Flows, Flow{From: r, To: f.seriesName(c), Value: v})
			}
		}
	}
	return out
}
