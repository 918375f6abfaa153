package recommend

import (
	"fmt"

	"github.com/mindfiredigital/PivotHead-sub001/engine"
	"github.com/mindfiredigital/PivotHead-sub001/profile"
)

// ============================================================================
// RULE TABLE — Independent triggers, each emitting scored candidates
// ============================================================================
// Rules are evaluated in order and never see each other's output. Scoring
// constants live in Thresholds so alternative curves are a config change.
// ============================================================================

// Rule is one trigger → candidates entry.
type Rule struct {
	Name string
	When func(p profile.Profile, t Thresholds) bool
	Emit func(p profile.Profile, t Thresholds) []Recommendation
}

// DefaultRules returns the standard rule table.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "pie", When: pieWhen, Emit: pieEmit},
		{Name: "matrix", When: matrixWhen, Emit: matrixEmit},
		{Name: "matrix-heatmap", When: matrixHeatmapWhen, Emit: matrixHeatmapEmit},
		{Name: "time", When: timeWhen, Emit: timeEmit},
		{Name: "multi-measure", When: multiMeasureWhen, Emit: multiMeasureEmit},
		{Name: "hierarchy", When: hierarchyWhen, Emit: hierarchyEmit},
		{Name: "many-rows", When: manyRowsWhen, Emit: manyRowsEmit},
		{Name: "dense", When: denseWhen, Emit: denseEmit},
		{Name: "funnel", When: funnelWhen, Emit: funnelEmit},
		{Name: "histogram", When: histogramWhen, Emit: histogramEmit},
	}
}

// ============================================================================
// PIE / DOUGHNUT — few positive categories, nothing on columns
// ============================================================================

func pieWhen(p profile.Profile, t Thresholds) bool {
	return len(p.RowDimensions) == 1 && len(p.ColumnDimensions) == 0 &&
		p.RowCardinality >= t.Pie.MinCategories &&
		p.RowCardinality <= t.Pie.MaxCategories &&
		p.AllPositive
}

func pieEmit(p profile.Profile, t Thresholds) []Recommendation {
	r := float64(p.RowCardinality)
	pie := t.Pie.Base - t.Pie.Step*(r-2)
	column := min(t.Pie.ColumnBase+t.Pie.ColumnStep*r, t.Pie.ColumnMax)
	slices := fmt.Sprintf("%d slices", p.RowCardinality)

	return []Recommendation{
		newRec(engine.ChartPie, pie, p,
			fmt.Sprintf("%d positive %s values read well as parts of a whole", p.RowCardinality, rowName(p)),
			slices),
		newRec(engine.ChartDoughnut, pie-t.Pie.DoughnutGap, p,
			fmt.Sprintf("Part-to-whole view of %s with room for a center total", rowName(p)),
			slices),
		newRec(engine.ChartColumn, column, p,
			fmt.Sprintf("Column bars compare %d %s values precisely", p.RowCardinality, rowName(p)),
			fmt.Sprintf("%d bars", p.RowCardinality)),
	}
}

// ============================================================================
// MATRIX — exactly one row and one column dimension
// ============================================================================

func isMatrix(p profile.Profile) bool {
	return len(p.RowDimensions) == 1 && len(p.ColumnDimensions) == 1
}

func matrixWhen(p profile.Profile, t Thresholds) bool {
	m := p.MatrixSize()
	return isMatrix(p) && m > 0 && m <= t.Matrix.GroupedMax
}

func matrixEmit(p profile.Profile, t Thresholds) []Recommendation {
	m := float64(p.MatrixSize())
	grid := fmt.Sprintf("%d×%d grid", p.RowCardinality, p.ColumnCardinality)
	return []Recommendation{
		newRec(engine.ChartColumn, t.Matrix.ColumnBase-t.Matrix.Decay*m, p,
			fmt.Sprintf("Grouped columns compare %s across each %s", colName(p), rowName(p)),
			grid),
		newRec(engine.ChartStackedColumn, t.Matrix.StackedBase-t.Matrix.Decay*m, p,
			fmt.Sprintf("Stacked columns show each %s's total and its %s breakdown", rowName(p), colName(p)),
			grid),
	}
}

func matrixHeatmapWhen(p profile.Profile, t Thresholds) bool {
	return isMatrix(p) && p.MatrixSize() >= t.Matrix.HeatmapMin
}

func matrixHeatmapEmit(p profile.Profile, t Thresholds) []Recommendation {
	m := p.MatrixSize()
	return []Recommendation{
		newRec(engine.ChartHeatmap, min(t.Matrix.HeatmapBase+t.Matrix.HeatmapStep*float64(m), t.Matrix.HeatmapMax), p,
			fmt.Sprintf("A %d-cell matrix is easier to scan as color intensity", m),
			fmt.Sprintf("%d cells", m)),
		newRec(engine.ChartBar, t.Matrix.BarAlternate, p,
			fmt.Sprintf("Horizontal bars keep %d %s labels readable", p.RowCardinality, rowName(p)),
			fmt.Sprintf("%d rows", p.RowCardinality)),
	}
}

// ============================================================================
// TIME — trends over a temporal axis
// ============================================================================

func timeWhen(p profile.Profile, _ Thresholds) bool {
	return p.HasTimeField
}

func timeEmit(p profile.Profile, t Thresholds) []Recommendation {
	line := min(t.Time.Base+t.Time.Step*float64(p.RowCardinality), t.Time.Max)
	points := fmt.Sprintf("%d points", p.RowCardinality)
	recs := []Recommendation{
		newRec(engine.ChartLine, line, p,
			fmt.Sprintf("%s is time-like; a line shows the trend", p.TimeField),
			points),
		newRec(engine.ChartArea, line-t.Time.AreaGap, p,
			fmt.Sprintf("Area emphasises volume over %s", p.TimeField),
			points),
	}
	if p.ColumnCardinality > 1 {
		recs = append(recs, newRec(engine.ChartStackedArea, line-t.Time.StackedGap, p,
			fmt.Sprintf("Stacked areas show how %d %s series add up over time", p.ColumnCardinality, colName(p)),
			fmt.Sprintf("%d series", p.ColumnCardinality)))
	}
	return recs
}

// ============================================================================
// MULTI-MEASURE — combo and correlation views
// ============================================================================

func multiMeasureWhen(p profile.Profile, _ Thresholds) bool {
	return p.MeasureCount > 1
}

func multiMeasureEmit(p profile.Profile, t Thresholds) []Recommendation {
	m := float64(p.MeasureCount)
	combo := min(t.MultiMeasure.ComboBase+t.MultiMeasure.ComboStep*(m-1), t.MultiMeasure.ComboMax)
	scatter := t.MultiMeasure.ScatterOther
	if p.MeasureCount == 2 {
		scatter = t.MultiMeasure.ScatterPair
	}
	return []Recommendation{
		newRec(engine.ChartCombo, combo, p,
			fmt.Sprintf("%d measures with different scales fit bars plus lines", p.MeasureCount),
			fmt.Sprintf("%d measures", p.MeasureCount)),
		newRec(engine.ChartScatter, scatter, p,
			"A scatter plot reveals correlation between measures",
			fmt.Sprintf("%d points", p.RowCardinality)),
	}
}

// ============================================================================
// HIERARCHY — nested row dimensions
// ============================================================================

func hierarchyWhen(p profile.Profile, t Thresholds) bool {
	return p.HasHierarchy && len(p.RowDimensions) >= t.Hierarchy.MinRowCount
}

func hierarchyEmit(p profile.Profile, t Thresholds) []Recommendation {
	treemap := min(t.Hierarchy.Base+t.Hierarchy.Step*float64(p.HierarchyDepth), t.Hierarchy.Max)
	levels := fmt.Sprintf("%d levels", p.HierarchyDepth)
	return []Recommendation{
		newRec(engine.ChartTreemap, treemap, p,
			fmt.Sprintf("%d nested row dimensions map naturally onto a treemap", p.HierarchyDepth),
			levels),
		newRec(engine.ChartStackedColumn, t.Hierarchy.StackedAlt, p,
			"Stacked columns show the top level with its breakdown",
			levels),
	}
}

// ============================================================================
// CARDINALITY — long category lists and dense matrices
// ============================================================================

func manyRowsWhen(p profile.Profile, t Thresholds) bool {
	return p.RowCardinality > t.ManyRows.MinRows
}

func manyRowsEmit(p profile.Profile, t Thresholds) []Recommendation {
	bar := min(t.ManyRows.Base+t.ManyRows.Step*float64(p.RowCardinality-t.ManyRows.MinRows), t.ManyRows.Max)
	return []Recommendation{
		newRec(engine.ChartBar, bar, p,
			fmt.Sprintf("%d %s values; horizontal bars avoid label overlap", p.RowCardinality, rowName(p)),
			fmt.Sprintf("%d bars", p.RowCardinality)),
	}
}

func denseWhen(p profile.Profile, t Thresholds) bool {
	return p.RowCardinality > t.Dense.MinRows || p.ColumnCardinality > t.Dense.MinColumns
}

func denseEmit(p profile.Profile, t Thresholds) []Recommendation {
	cells := p.RowCardinality * max(p.ColumnCardinality, 1)
	score := min(t.Dense.Base+float64(cells)/t.Dense.CellDivisor, t.Dense.Max)
	return []Recommendation{
		newRec(engine.ChartHeatmap, score, p,
			fmt.Sprintf("%d cells are too many for bars; a heatmap shows the pattern", cells),
			fmt.Sprintf("%d cells", cells)),
	}
}

// ============================================================================
// FUNNEL / HISTOGRAM
// ============================================================================

func funnelWhen(p profile.Profile, _ Thresholds) bool {
	return p.IsFunnelLike
}

func funnelEmit(p profile.Profile, t Thresholds) []Recommendation {
	score := t.Funnel.OutRange
	if p.RowCardinality >= t.Funnel.MinStages && p.RowCardinality <= t.Funnel.MaxStages {
		score = t.Funnel.InRange
	}
	return []Recommendation{
		newRec(engine.ChartFunnel, score, p,
			fmt.Sprintf("%s looks like sequential stages with falling volume", rowName(p)),
			fmt.Sprintf("%d stages", p.RowCardinality)),
	}
}

func histogramWhen(p profile.Profile, t Thresholds) bool {
	return p.IsContinuous && p.RecordCount >= t.Histogram.MinRecords
}

func histogramEmit(p profile.Profile, t Thresholds) []Recommendation {
	return []Recommendation{
		newRec(engine.ChartHistogram, t.Histogram.Score, p,
			fmt.Sprintf("%s is continuous; a histogram shows its distribution", measureName(p)),
			fmt.Sprintf("%d records", p.RecordCount)),
	}
}

// ============================================================================
// HELPERS
// ============================================================================

func rowName(p profile.Profile) string {
	if p.RowLabel != "" {
		return p.RowLabel
	}
	return "category"
}

func colName(p profile.Profile) string {
	if p.ColumnLabel != "" {
		return p.ColumnLabel
	}
	return "series"
}

func measureName(p profile.Profile) string {
	if len(p.MeasureLabels) > 0 {
		return p.MeasureLabels[0]
	}
	return "value"
}

func newRec(t engine.ChartType, score float64, p profile.Profile, reason, preview string) Recommendation {
	return Recommendation{
		ChartType: t,
		Score:     score,
		Reason:    reason,
		Preview:   preview,
		Config:    configFor(t, p),
	}
}

func configFor(t engine.ChartType, p profile.Profile) engine.ChartConfig {
	title := measureName(p)
	if p.RowLabel != "" {
		title = fmt.Sprintf("%s by %s", title, p.RowLabel)
	}
	cfg := engine.NewChartConfig(t, title, p.RowLabel, measureName(p))
	series := max(p.ColumnCardinality, 1)
	switch t {
	case engine.ChartPie, engine.ChartDoughnut, engine.ChartFunnel:
		series = max(p.RowCardinality, 1)
	case engine.ChartCombo:
		series = max(p.MeasureCount, 1)
	}
	return cfg.WithColors(series)
}
