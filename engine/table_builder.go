package engine

import (
	"fmt"
	"strconv"
)

// ============================================================================
// TABLE BUILDER — Flattens any Result into headers + rows
// ============================================================================
// Used for CSV output and terminal tables. One row per label, cell, flow,
// bin, tree node or scatter point depending on the payload.
// ============================================================================

// BuildTable flattens a build result into a table.
func BuildTable(r *Result) *TableData {
	if r == nil {
		return emptyTable("")
	}
	title := r.Config.Title

	switch {
	case r.Heatmap != nil:
		return buildHeatmapTable(title, r.Heatmap)
	case r.Sankey != nil:
		return buildSankeyTable(title, r.Sankey)
	case r.Histogram != nil:
		return buildHistogramTable(title, r.Histogram)
	case r.Treemap != nil:
		return buildTreemapTable(title, r.Treemap)
	case r.Scatter != nil:
		return buildScatterTable(title, r.Scatter)
	case r.Data != nil:
		return buildSeriesTable(title, r.Data)
	}
	return emptyTable(title)
}

// Header returns the column labels, for CSV writers.
func (t *TableData) Header() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Label
	}
	return out
}

func emptyTable(title string) *TableData {
	return &TableData{
		Title:   title,
		Columns: []Column{},
		Rows:    [][]string{},
	}
}

func textColumn(key, label string) Column {
	return Column{Key: key, Label: label, Type: "text", Align: "left"}
}

func numberColumn(key, label string) Column {
	return Column{Key: key, Label: label, Type: "number", Align: "right"}
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// ============================================================================
// SERIES TABLE — label per row, series per column
// ============================================================================

func buildSeriesTable(title string, cd *ChartData) *TableData {
	if len(cd.Labels) == 0 {
		return emptyTable(title)
	}

	groupLabel := LabelForDimension(cd.RowField)
	if groupLabel == "" {
		groupLabel = "Group"
	}
	columns := []Column{textColumn("label", groupLabel)}
	for i, s := range cd.Series {
		columns = append(columns, numberColumn(fmt.Sprintf("s%d", i), s.Name))
	}

	totals := make([]float64, len(cd.Series))
	rows := make([][]string, 0, len(cd.Labels))
	for j, label := range cd.Labels {
		row := make([]string, 0, len(columns))
		row = append(row, label)
		for i, s := range cd.Series {
			var v float64
			if j < len(s.Data) {
				v = s.Data[j]
			}
			totals[i] += v
			row = append(row, formatValue(v))
		}
		rows = append(rows, row)
	}

	values := make(map[string]string, len(totals))
	for i, v := range totals {
		values[fmt.Sprintf("s%d", i)] = FormatNumber(v)
	}
	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{Label: "Total", Values: values},
	}
}

// ============================================================================
// SPECIALISED TABLES
// ============================================================================

func buildHeatmapTable(title string, h *HeatmapData) *TableData {
	rows := make([][]string, 0, len(h.Cells))
	for _, c := range h.Cells {
		rows = append(rows, []string{c.Row, c.Col, formatValue(c.Value)})
	}
	t := &TableData{
		Title: title,
		Columns: []Column{
			textColumn("row", orDefault(LabelForDimension(h.RowField), "Row")),
			textColumn("col", orDefault(LabelForDimension(h.ColumnField), "Column")),
			numberColumn("value", "Value"),
		},
		Rows: rows,
	}
	if lo, hi, ok := h.Range(); ok {
		t.Summary = &Summary{
			Label:  "Range",
			Values: map[string]string{"value": FormatNumber(lo) + " to " + FormatNumber(hi)},
		}
	}
	return t
}

func buildSankeyTable(title string, s *SankeyData) *TableData {
	rows := make([][]string, 0, len(s.Flows))
	var total float64
	for _, f := range s.Flows {
		rows = append(rows, []string{f.From, f.To, formatValue(f.Value)})
		total += f.Value
	}
	return &TableData{
		Title: title,
		Columns: []Column{
			textColumn("from", "From"),
			textColumn("to", "To"),
			numberColumn("value", "Value"),
		},
		Rows: rows,
		Summary: &Summary{
			Label:  fmt.Sprintf("Total (%d flows)", len(s.Flows)),
			Values: map[string]string{"value": FormatNumber(total)},
		},
	}
}

func buildHistogramTable(title string, h *HistogramData) *TableData {
	rows := make([][]string, 0, len(h.BinCounts))
	total := 0
	for i, c := range h.BinCounts {
		rows = append(rows, []string{h.BinLabels[i], strconv.Itoa(c)})
		total += c
	}
	return &TableData{
		Title: title,
		Columns: []Column{
			textColumn("bin", "Bin"),
			numberColumn("count", "Count"),
		},
		Rows: rows,
		Summary: &Summary{
			Label:  "Total",
			Values: map[string]string{"count": FormatInt(total)},
		},
	}
}

func buildTreemapTable(title string, tm *TreemapData) *TableData {
	var rows [][]string
	var walk func(n *TreeNode)
	walk = func(n *TreeNode) {
		rows = append(rows, []string{n.Path, strconv.Itoa(n.Depth), formatValue(n.Value)})
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, root := range tm.Tree {
		walk(root)
	}
	if rows == nil {
		rows = [][]string{}
	}
	return &TableData{
		Title: title,
		Columns: []Column{
			textColumn("path", "Path"),
			numberColumn("depth", "Depth"),
			numberColumn("value", "Value"),
		},
		Rows: rows,
		Summary: &Summary{
			Label:  "Total",
			Values: map[string]string{"value": FormatNumber(tm.TotalValue)},
		},
	}
}

func buildScatterTable(title string, s *ScatterData) *TableData {
	rows := [][]string{}
	for _, series := range s.Points {
		for _, p := range series.Points {
			rows = append(rows, []string{series.Name, p.Label, formatValue(p.X), formatValue(p.Y)})
		}
	}
	return &TableData{
		Title: title,
		Columns: []Column{
			textColumn("series", "Series"),
			textColumn("label", orDefault(LabelForDimension(s.RowField), "Label")),
			numberColumn("x", s.XMeasure.Label()),
			numberColumn("y", s.YMeasure.Label()),
		},
		Rows: rows,
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
