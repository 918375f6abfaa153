package engine

import (
	"errors"

	"github.com/mindfiredigital/PivotHead-sub001/schema"
)

// ============================================================================
// CHART DATA TYPES — Neutral shapes handed to rendering backends
// ============================================================================
// Every builder returns a ChartData (labels + series) or a specialisation
// that embeds it. Backends pick the payload matching ChartType and ignore
// the rest. Nothing here knows how to draw.
// ============================================================================

// ChartType names a chart family.
type ChartType string

const (
	ChartColumn        ChartType = "column"
	ChartBar           ChartType = "bar"
	ChartStackedColumn ChartType = "stackedColumn"
	ChartStackedBar    ChartType = "stackedBar"
	ChartLine          ChartType = "line"
	ChartArea          ChartType = "area"
	ChartStackedArea   ChartType = "stackedArea"
	ChartPie           ChartType = "pie"
	ChartDoughnut      ChartType = "doughnut"
	ChartFunnel        ChartType = "funnel"
	ChartCombo         ChartType = "combo"
	ChartScatter       ChartType = "scatter"
	ChartHeatmap       ChartType = "heatmap"
	ChartSankey        ChartType = "sankey"
	ChartHistogram     ChartType = "histogram"
	ChartTreemap       ChartType = "treemap"
)

// ChartTypes lists every type Build understands.
var ChartTypes = []ChartType{
	ChartColumn, ChartBar, ChartStackedColumn, ChartStackedBar,
	ChartLine, ChartArea, ChartStackedArea,
	ChartPie, ChartDoughnut, ChartFunnel, ChartCombo,
	ChartScatter, ChartHeatmap, ChartSankey, ChartHistogram, ChartTreemap,
}

// ErrUnknownChartType is returned by Build for unsupported chart names.
var ErrUnknownChartType = errors.New("unknown chart type")

// ParseChartType validates a chart type name.
func ParseChartType(name string) (ChartType, error) {
	for _, t := range ChartTypes {
		if string(t) == name {
			return t, nil
		}
	}
	return "", ErrUnknownChartType
}

// ============================================================================
// INPUT
// ============================================================================

// Input is what the pivot engine hands over once a chart type is chosen.
type Input struct {
	RowField    string
	ColumnField string
	// RowFields is the ordered hierarchy for treemaps. Defaults to [RowField].
	RowFields       []string
	Measures        []schema.Measure
	SelectedMeasure string
	Records         []schema.Record
	// CellValue resolves aggregated cells. Nil means NewRecordLookup(Records).
	CellValue schema.CellValueFunc
}

// InputFromState derives builder input from a pivot state, dropping
// synthetic axes.
func InputFromState(state schema.State, cell schema.CellValueFunc) Input {
	state = state.Normalized()
	in := Input{
		RowField:    state.RowField(),
		ColumnField: state.ColumnField(),
		Measures:    state.Measures,
		Records:     state.RawData,
		CellValue:   cell,
	}
	for _, a := range state.Rows {
		in.RowFields = append(in.RowFields, a.UniqueName)
	}
	if len(state.Measures) > 0 {
		in.SelectedMeasure = state.Measures[0].UniqueName
	}
	return in
}

// selected returns the measure named by SelectedMeasure, or the first one.
func (in Input) selected() (schema.Measure, bool) {
	for _, m := range in.Measures {
		if m.UniqueName == in.SelectedMeasure {
			return m, true
		}
	}
	if len(in.Measures) > 0 {
		return in.Measures[0], true
	}
	return schema.Measure{}, false
}

// ============================================================================
// CHART DATA
// ============================================================================

// Series kinds and stack hints.
const (
	KindBar  = "bar"
	KindLine = "line"
	KindArea = "area"

	DefaultStack = "total"
)

// Series is one named sequence aligned with ChartData.Labels.
type Series struct {
	Name  string    `json:"name"`
	Data  []float64 `json:"data"`
	Kind  string    `json:"kind,omitempty"`
	Stack string    `json:"stack,omitempty"`
}

// ChartData is the base shape: category labels and aligned series.
type ChartData struct {
	ChartType ChartType `json:"chartType"`
	Labels    []string  `json:"labels"`
	Series    []Series  `json:"series"`

	RowField        string           `json:"rowField"`
	ColumnField     string           `json:"columnField"`
	Measures        []schema.Measure `json:"measures"`
	SelectedMeasure schema.Measure   `json:"selectedMeasure"`

	AllRowValues         []string `json:"allRowValues"`
	AllColumnValues      []string `json:"allColumnValues"`
	FilteredRowValues    []string `json:"filteredRowValues"`
	FilteredColumnValues []string `json:"filteredColumnValues"`
}

// HeatmapCell is one (row, column) intersection.
type HeatmapCell struct {
	Row   string  `json:"row"`
	Col   string  `json:"col"`
	Value float64 `json:"value"`
}

// HeatmapData holds every cell of the matrix. MinValue and MaxValue are 0
// when there are no cells; use Range to tell that apart from real zeros.
type HeatmapData struct {
	ChartData
	Cells    []HeatmapCell `json:"cells"`
	MinValue float64       `json:"minValue"`
	MaxValue float64       `json:"maxValue"`
}

// Range returns the value range and false when there are no cells.
func (h *HeatmapData) Range() (lo, hi float64, ok bool) {
	if len(h.Cells) == 0 {
		return 0, 0, false
	}
	return h.MinValue, h.MaxValue, true
}

// Flow is one sankey link. Only strictly positive values are emitted.
type Flow struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Value float64 `json:"value"`
}

// SankeyData holds row→column flows.
type SankeyData struct {
	ChartData
	Flows []Flow `json:"flows"`
}

// HistogramData holds frequency bins of positive values.
type HistogramData struct {
	ChartData
	BinLabels []string `json:"binLabels"`
	BinCounts []int    `json:"binCounts"`
	NumBins   int      `json:"numBins"`
	BinWidth  float64  `json:"binWidth"`
	Min       float64  `json:"min"`
	Max       float64  `json:"max"`
}

// TreeNode is one node of a treemap. Path is the "/"-joined chain of names
// from the root level down to this node.
type TreeNode struct {
	Name     string      `json:"name"`
	Value    float64     `json:"value"`
	Path     string      `json:"path"`
	Depth    int         `json:"depth"`
	Children []*TreeNode `json:"children,omitempty"`
}

// TreemapData holds the top-level nodes of the hierarchy.
type TreemapData struct {
	ChartData
	Tree       []*TreeNode `json:"tree"`
	TotalValue float64     `json:"totalValue"`
	MaxDepth   int         `json:"maxDepth"`
}

// ScatterPoint is one (x, y) observation labelled by its row value.
type ScatterPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

// ScatterSeries groups points of one column value.
type ScatterSeries struct {
	Name   string         `json:"name"`
	Points []ScatterPoint `json:"points"`
}

// ScatterData pairs two measures per row value.
type ScatterData struct {
	ChartData
	Points   []ScatterSeries `json:"points"`
	XMeasure schema.Measure  `json:"xMeasure"`
	YMeasure schema.Measure  `json:"yMeasure"`
}

// ============================================================================
// RESULT — Build output, exactly one payload populated
// ============================================================================

// Result is what Build returns for a chart type.
type Result struct {
	ChartType ChartType   `json:"chartType"`
	Config    ChartConfig `json:"config"`

	Data      *ChartData     `json:"data,omitempty"`
	Heatmap   *HeatmapData   `json:"heatmap,omitempty"`
	Sankey    *SankeyData    `json:"sankey,omitempty"`
	Histogram *HistogramData `json:"histogram,omitempty"`
	Treemap   *TreemapData   `json:"treemap,omitempty"`
	Scatter   *ScatterData   `json:"scatter,omitempty"`
}

// Base returns the embedded ChartData of whichever payload is set.
func (r *Result) Base() *ChartData {
	switch {
	case r == nil:
		return nil
	case r.Data != nil:
		return r.Data
	case r.Heatmap != nil:
		return &r.Heatmap.ChartData
	case r.Sankey != nil:
		return &r.Sankey.ChartData
	case r.Histogram != nil:
		return &r.Histogram.ChartData
	case r.Treemap != nil:
		return &r.Treemap.ChartData
	case r.Scatter != nil:
		return &r.Scatter.ChartData
	}
	return nil
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData is a flat rendering of a Result for CSV or terminal output.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}
