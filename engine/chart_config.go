package engine

// ============================================================================
// CHART CONFIG — Render-config skeletons
// ============================================================================
// Plain value records built by NewChartConfig. Each chart family only
// differs in a handful of flags, so one constructor covers all of them.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ChartConfig is the rendering skeleton attached to recommendations and
// build results.
type ChartConfig struct {
	ChartType  ChartType `json:"chartType"`
	Title      string    `json:"title"`
	XAxis      string    `json:"xAxis,omitempty"`
	YAxis      string    `json:"yAxis,omitempty"`
	Stacked    bool      `json:"stacked,omitempty"`
	Horizontal bool      `json:"horizontal,omitempty"`
	Colors     []string  `json:"colors,omitempty"`
	ShowLegend bool      `json:"showLegend"`
	ShowGrid   bool      `json:"showGrid"`
}

// NewChartConfig builds the skeleton for a chart type.
func NewChartConfig(t ChartType, title, xAxis, yAxis string) ChartConfig {
	cfg := ChartConfig{
		ChartType:  t,
		Title:      title,
		XAxis:      xAxis,
		YAxis:      yAxis,
		ShowLegend: true,
		ShowGrid:   true,
	}

	switch t {
	case ChartStackedColumn, ChartStackedArea:
		cfg.Stacked = true
	case ChartStackedBar:
		cfg.Stacked = true
		cfg.Horizontal = true
	case ChartBar:
		cfg.Horizontal = true
	case ChartPie, ChartDoughnut, ChartFunnel, ChartTreemap, ChartSankey:
		cfg.ShowGrid = false
		cfg.XAxis = ""
		cfg.YAxis = ""
	case ChartHeatmap:
		cfg.ShowGrid = false
	case ChartHistogram:
		cfg.ShowLegend = false
	}
	return cfg
}

// WithColors returns a copy of the config carrying n palette colors.
func (c ChartConfig) WithColors(n int) ChartConfig {
	c.Colors = assignColors(n)
	return c
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
