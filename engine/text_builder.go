package engine

import (
	"fmt"
)

// ============================================================================
// TEXT BUILDER — One-line summaries of built chart data
// ============================================================================

// TextData is a plain-language summary of a Result.
type TextData struct {
	Value    string   `json:"value"`
	RawValue float64  `json:"rawValue"`
	Count    int      `json:"count"`
	Top      string   `json:"top,omitempty"`
	TopValue float64  `json:"topValue,omitempty"`
	Lines    []string `json:"lines"`
}

// BuildText summarizes a build result: the headline total, the number of
// categories and the largest one.
func BuildText(r *Result) *TextData {
	if r == nil || r.Base() == nil {
		return &TextData{Value: "0", Lines: []string{"No data"}}
	}

	switch {
	case r.Heatmap != nil:
		return heatmapText(r.Heatmap)
	case r.Sankey != nil:
		return sankeyText(r.Sankey)
	case r.Histogram != nil:
		return histogramText(r.Histogram)
	case r.Treemap != nil:
		return treemapText(r.Treemap)
	case r.Scatter != nil:
		return scatterText(r.Scatter)
	}
	return seriesText(r.Data)
}

func seriesText(cd *ChartData) *TextData {
	if len(cd.Labels) == 0 {
		return &TextData{Value: "0", Lines: []string{"No data"}}
	}

	totals := make([]float64, len(cd.Labels))
	var grand float64
	for j := range cd.Labels {
		for _, s := range cd.Series {
			if j < len(s.Data) {
				totals[j] += s.Data[j]
			}
		}
		grand += totals[j]
	}

	top := rankedOrder(cd.Labels, totals, SortByValue, Desc)[0]
	lines := make([]string, 0, len(cd.Labels)+1)
	lines = append(lines, fmt.Sprintf("%d categories, total %s", len(cd.Labels), FormatNumber(grand)))
	for j, label := range cd.Labels {
		lines = append(lines, fmt.Sprintf("%s: %s", label, FormatNumber(totals[j])))
	}

	return &TextData{
		Value:    FormatNumber(grand),
		RawValue: grand,
		Count:    len(cd.Labels),
		Top:      cd.Labels[top],
		TopValue: totals[top],
		Lines:    lines,
	}
}

func heatmapText(h *HeatmapData) *TextData {
	lo, hi, ok := h.Range()
	if !ok {
		return &TextData{Value: "0", Lines: []string{"No cells"}}
	}
	out := &TextData{
		Value: fmt.Sprintf("%s to %s", FormatNumber(lo), FormatNumber(hi)),
		Count: len(h.Cells),
	}
	for _, c := range h.Cells {
		if out.Top == "" || c.Value > out.TopValue {
			out.Top = c.Row + " × " + c.Col
			out.TopValue = c.Value
		}
	}
	out.RawValue = hi
	out.Lines = []string{
		fmt.Sprintf("%d cells ranging %s", len(h.Cells), out.Value),
		fmt.Sprintf("Highest: %s (%s)", out.Top, FormatNumber(out.TopValue)),
	}
	return out
}

func sankeyText(s *SankeyData) *TextData {
	out := &TextData{Count: len(s.Flows)}
	for _, f := range s.Flows {
		out.RawValue += f.Value
		if out.Top == "" || f.Value > out.TopValue {
			out.Top = f.From + " → " + f.To
			out.TopValue = f.Value
		}
	}
	out.Value = FormatNumber(out.RawValue)
	out.Lines = []string{fmt.Sprintf("%d flows, total %s", len(s.Flows), out.Value)}
	if out.Top != "" {
		out.Lines = append(out.Lines, fmt.Sprintf("Largest: %s (%s)", out.Top, FormatNumber(out.TopValue)))
	}
	return out
}

func histogramText(h *HistogramData) *TextData {
	out := &TextData{}
	for i, c := range h.BinCounts {
		out.Count += c
		if float64(c) > out.TopValue {
			out.Top = h.BinLabels[i]
			out.TopValue = float64(c)
		}
	}
	out.RawValue = float64(out.Count)
	out.Value = FormatInt(out.Count)
	out.Lines = []string{fmt.Sprintf("%d values in %d bins of width %s", out.Count, h.NumBins, FormatNumber(RoundTo2(h.BinWidth)))}
	if out.Top != "" {
		out.Lines = append(out.Lines, fmt.Sprintf("Most frequent: %s (%d)", out.Top, int(out.TopValue)))
	}
	return out
}

func treemapText(tm *TreemapData) *TextData {
	out := &TextData{
		Value:    FormatNumber(tm.TotalValue),
		RawValue: tm.TotalValue,
		Count:    len(tm.Tree),
	}
	for _, n := range tm.Tree {
		if out.Top == "" || n.Value > out.TopValue {
			out.Top = n.Name
			out.TopValue = n.Value
		}
	}
	out.Lines = []string{fmt.Sprintf("%d top-level nodes, depth %d, total %s", len(tm.Tree), tm.MaxDepth, out.Value)}
	return out
}

func scatterText(s *ScatterData) *TextData {
	out := &TextData{}
	for _, series := range s.Points {
		out.Count += len(series.Points)
	}
	out.RawValue = float64(out.Count)
	out.Value = FormatInt(out.Count)
	out.Lines = []string{fmt.Sprintf("%d points of %s against %s", out.Count, s.YMeasure.Label(), s.XMeasure.Label())}
	return out
}
