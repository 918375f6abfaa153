package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// ============================================================================
// EXECUTOR — Dispatcher keyed by chart type
// ============================================================================
// Entry point: Build(chartType, input, opts...)
//
// Pipeline:
//   1. Validate chart type
//   2. Resolve the category grid (filters, limit, sort, sampling)
//   3. Dispatch to the family builder
//   4. Apply rendering hints (stack / combo / series kind)
//   5. Attach a ChartConfig skeleton
//
// Unknown chart types are the only error. Everything else degrades to an
// empty but well-formed payload.
// ============================================================================

// Build produces the chart data shape required by chartType.
func Build(chartType ChartType, in Input, opts ...Option) (*Result, error) {
	t, err := ParseChartType(string(chartType))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, chartType)
	}

	f := prepare(in, opts)
	result := &Result{ChartType: t}

	switch t {
	case ChartColumn, ChartBar:
		result.Data = WithKind(f.categorical(t), KindBar)
	case ChartLine:
		result.Data = WithKind(f.categorical(t), KindLine)
	case ChartArea:
		result.Data = WithKind(f.categorical(t), KindArea)
	case ChartStackedColumn, ChartStackedBar:
		result.Data = Stack(WithKind(f.categorical(t), KindBar), DefaultStack)
	case ChartStackedArea:
		result.Data = Stack(WithKind(f.categorical(t), KindArea), DefaultStack)
	case ChartPie, ChartDoughnut, ChartFunnel:
		result.Data = f.aggregated(t)
	case ChartCombo:
		if len(in.Measures) > 1 {
			result.Data = Combo(f.measureSeries(t))
		} else {
			result.Data = Combo(f.categorical(t))
		}
	case ChartScatter:
		result.Scatter = f.scatter()
	case ChartHeatmap:
		result.Heatmap = f.heatmap()
	case ChartSankey:
		result.Sankey = f.sankey()
	case ChartHistogram:
		result.Histogram = f.histogram()
	case ChartTreemap:
		result.Treemap = BuildTreemap(in, opts...)
	}

	base := result.Base()
	result.Config = f.config(t, base)

	f.cfg.logger.Debug("built chart data",
		zap.String("chartType", string(t)),
		zap.Int("labels", len(base.Labels)),
		zap.Int("series", len(base.Series)),
	)
	return result, nil
}

// config builds the render skeleton for a built payload.
func (f *frame) config(t ChartType, base *ChartData) ChartConfig {
	x := LabelForDimension(f.base.RowField)
	y := measureAxisLabel(f.measure)
	title := y
	if x != "" {
		title = fmt.Sprintf("%s by %s", y, x)
	}
	if t == ChartHistogram {
		x = f.measure.Label()
		y = "Frequency"
		title = fmt.Sprintf("Distribution of %s", f.measure.Label())
	}

	n := len(base.Series)
	switch t {
	case ChartPie, ChartDoughnut, ChartFunnel, ChartTreemap:
		n = len(base.Labels)
	}
	return NewChartConfig(t, title, x, y).WithColors(n)
}
