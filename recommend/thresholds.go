package recommend

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Thresholds holds every constant the rule table scores with. Defaults come
// from DefaultThresholds; a YAML file may override any subset.
type Thresholds struct {
	// Cap is the highest score any rule may emit.
	Cap      float64 `yaml:"cap" json:"cap"`
	Fallback float64 `yaml:"fallback" json:"fallback"`

	Pie          PieThresholds          `yaml:"pie" json:"pie"`
	Matrix       MatrixThresholds       `yaml:"matrix" json:"matrix"`
	Time         TimeThresholds         `yaml:"time" json:"time"`
	MultiMeasure MultiMeasureThresholds `yaml:"multi_measure" json:"multiMeasure"`
	Hierarchy    HierarchyThresholds    `yaml:"hierarchy" json:"hierarchy"`
	ManyRows     ManyRowsThresholds     `yaml:"many_rows" json:"manyRows"`
	Dense        DenseThresholds        `yaml:"dense" json:"dense"`
	Funnel       FunnelThresholds       `yaml:"funnel" json:"funnel"`
	Histogram    HistogramThresholds    `yaml:"histogram" json:"histogram"`
}

// PieThresholds: pie = Base - Step*(r-2); doughnut = pie - DoughnutGap;
// column = min(ColumnBase + ColumnStep*r, ColumnMax). MinCategories is 0 by
// default, so a single category still gets a pie.
type PieThresholds struct {
	MinCategories int     `yaml:"min_categories" json:"minCategories"`
	MaxCategories int     `yaml:"max_categories" json:"maxCategories"`
	Base          float64 `yaml:"base" json:"base"`
	Step          float64 `yaml:"step" json:"step"`
	DoughnutGap   float64 `yaml:"doughnut_gap" json:"doughnutGap"`
	ColumnBase    float64 `yaml:"column_base" json:"columnBase"`
	ColumnStep    float64 `yaml:"column_step" json:"columnStep"`
	ColumnMax     float64 `yaml:"column_max" json:"columnMax"`
}

// MatrixThresholds covers one row × one column layouts of size m.
type MatrixThresholds struct {
	GroupedMax   int     `yaml:"grouped_max" json:"groupedMax"`
	ColumnBase   float64 `yaml:"column_base" json:"columnBase"`
	StackedBase  float64 `yaml:"stacked_base" json:"stackedBase"`
	Decay        float64 `yaml:"decay" json:"decay"`
	HeatmapMin   int     `yaml:"heatmap_min" json:"heatmapMin"`
	HeatmapBase  float64 `yaml:"heatmap_base" json:"heatmapBase"`
	HeatmapStep  float64 `yaml:"heatmap_step" json:"heatmapStep"`
	HeatmapMax   float64 `yaml:"heatmap_max" json:"heatmapMax"`
	BarAlternate float64 `yaml:"bar_alternate" json:"barAlternate"`
}

// TimeThresholds: line = min(Base + Step*r, Max).
type TimeThresholds struct {
	Base       float64 `yaml:"base" json:"base"`
	Step       float64 `yaml:"step" json:"step"`
	Max        float64 `yaml:"max" json:"max"`
	AreaGap    float64 `yaml:"area_gap" json:"areaGap"`
	StackedGap float64 `yaml:"stacked_gap" json:"stackedGap"`
}

// MultiMeasureThresholds: combo = min(ComboBase + ComboStep*(m-1), ComboMax).
type MultiMeasureThresholds struct {
	ComboBase    float64 `yaml:"combo_base" json:"comboBase"`
	ComboStep    float64 `yaml:"combo_step" json:"comboStep"`
	ComboMax     float64 `yaml:"combo_max" json:"comboMax"`
	ScatterPair  float64 `yaml:"scatter_pair" json:"scatterPair"`
	ScatterOther float64 `yaml:"scatter_other" json:"scatterOther"`
}

// HierarchyThresholds: treemap = min(Base + Step*depth, Max).
type HierarchyThresholds struct {
	Base        float64 `yaml:"base" json:"base"`
	Step        float64 `yaml:"step" json:"step"`
	Max         float64 `yaml:"max" json:"max"`
	StackedAlt  float64 `yaml:"stacked_alternate" json:"stackedAlternate"`
	MinRowCount int     `yaml:"min_row_dimensions" json:"minRowDimensions"`
}

// ManyRowsThresholds: bar = min(Base + Step*(r-MinRows), Max) when r > MinRows.
type ManyRowsThresholds struct {
	MinRows int     `yaml:"min_rows" json:"minRows"`
	Base    float64 `yaml:"base" json:"base"`
	Step    float64 `yaml:"step" json:"step"`
	Max     float64 `yaml:"max" json:"max"`
}

// DenseThresholds: heatmap = min(Base + cells/CellDivisor, Max).
type DenseThresholds struct {
	MinRows     int     `yaml:"min_rows" json:"minRows"`
	MinColumns  int     `yaml:"min_columns" json:"minColumns"`
	Base        float64 `yaml:"base" json:"base"`
	CellDivisor float64 `yaml:"cell_divisor" json:"cellDivisor"`
	Max         float64 `yaml:"max" json:"max"`
}

// FunnelThresholds scores higher when the stage count is in [MinStages, MaxStages].
type FunnelThresholds struct {
	MinStages int     `yaml:"min_stages" json:"minStages"`
	MaxStages int     `yaml:"max_stages" json:"maxStages"`
	InRange   float64 `yaml:"in_range" json:"inRange"`
	OutRange  float64 `yaml:"out_of_range" json:"outOfRange"`
}

// HistogramThresholds needs a continuous first measure over MinRecords.
type HistogramThresholds struct {
	MinRecords int     `yaml:"min_records" json:"minRecords"`
	Score      float64 `yaml:"score" json:"score"`
}

// DefaultThresholds returns the built-in scoring constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Cap:      0.97,
		Fallback: 0.7,
		Pie: PieThresholds{
			MaxCategories: 7,
			Base: 0.95, Step: 0.02, DoughnutGap: 0.05,
			ColumnBase: 0.75, ColumnStep: 0.02, ColumnMax: 0.9,
		},
		Matrix: MatrixThresholds{
			GroupedMax: 50, ColumnBase: 0.92, StackedBase: 0.88, Decay: 0.005,
			HeatmapMin: 20, HeatmapBase: 0.7, HeatmapStep: 0.003, HeatmapMax: 0.92,
			BarAlternate: 0.75,
		},
		Time: TimeThresholds{
			Base: 0.8, Step: 0.01, Max: 0.95, AreaGap: 0.05, StackedGap: 0.08,
		},
		MultiMeasure: MultiMeasureThresholds{
			ComboBase: 0.75, ComboStep: 0.05, ComboMax: 0.92,
			ScatterPair: 0.78, ScatterOther: 0.72,
		},
		Hierarchy: HierarchyThresholds{
			Base: 0.78, Step: 0.04, Max: 0.94, StackedAlt: 0.74, MinRowCount: 2,
		},
		ManyRows: ManyRowsThresholds{
			MinRows: 10, Base: 0.8, Step: 0.005, Max: 0.9,
		},
		Dense: DenseThresholds{
			MinRows: 20, MinColumns: 10, Base: 0.75, CellDivisor: 2000, Max: 0.93,
		},
		Funnel: FunnelThresholds{
			MinStages: 3, MaxStages: 8, InRange: 0.9, OutRange: 0.78,
		},
		Histogram: HistogramThresholds{
			MinRecords: 20, Score: 0.8,
		},
	}
}

// ParseThresholds overlays YAML onto the defaults. Keys absent from the
// document keep their default value.
func ParseThresholds(data []byte) (Thresholds, error) {
	t := DefaultThresholds()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Thresholds{}, fmt.Errorf("parse thresholds: %w", err)
	}
	return t, nil
}

// LoadThresholds reads a YAML thresholds file.
func LoadThresholds(path string) (Thresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Thresholds{}, fmt.Errorf("read thresholds %s: %w", path, err)
	}
	return ParseThresholds(data)
}
