package profile

import (
	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/mindfiredigital/PivotHead-sub001/schema"
)

// ============================================================================
// DATA PROFILE — Fixed-shape summary of a pivot state
// ============================================================================
// Built fresh per call from the raw records and axis/measure descriptors.
// Profiling only looks at the head of the dataset (50 records for time
// detection, 200 for positivity/continuity) so latency stays bounded on
// large inputs. Results are approximate by construction.
// ============================================================================

const (
	valueSampleSize   = 200
	continuityRatio   = 0.8
	funnelMinStages   = 3
	funnelMaxStages   = 12
	funnelMinDecrease = 0.7
	funnelMaxIncrease = 1
	lowCardinality    = 10
	mediumCardinality = 100
)

// Cardinality classes.
const (
	CardinalityLow    = "low"
	CardinalityMedium = "medium"
	CardinalityHigh   = "high"
)

// Profile summarizes the dimensional and statistical shape of a dataset.
type Profile struct {
	RowCardinality    int `json:"rowCardinality"`
	ColumnCardinality int `json:"columnCardinality"`
	MeasureCount      int `json:"measureCount"`
	TotalDataPoints   int `json:"totalDataPoints"`
	RecordCount       int `json:"recordCount"`

	RowDimensions    []string `json:"rowDimensions"`
	ColumnDimensions []string `json:"columnDimensions"`
	RowLabel         string   `json:"rowLabel,omitempty"`
	ColumnLabel      string   `json:"columnLabel,omitempty"`
	MeasureLabels    []string `json:"measureLabels"`

	HasTimeField   bool   `json:"hasTimeField"`
	TimeField      string `json:"timeField,omitempty"`
	HasHierarchy   bool   `json:"hasHierarchy"`
	HierarchyDepth int    `json:"hierarchyDepth"`
	IsFunnelLike   bool   `json:"isFunnelLike"`

	AllPositive     bool    `json:"allPositive"`
	IsContinuous    bool    `json:"isContinuous"`
	MeasureVariance float64 `json:"measureVariance"`
	Cardinality     string  `json:"cardinality"`
}

// MatrixSize is the number of row × column cells.
func (p Profile) MatrixSize() int {
	return p.RowCardinality * p.ColumnCardinality
}

// Option configures profiling.
type Option func(*config)

type config struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Build computes the profile of a pivot state. Synthetic "all" axes are
// ignored. An empty dataset yields a zero profile with AllPositive set.
func Build(state schema.State, opts ...Option) Profile {
	cfg := config{logger: zap.NewNop()}
	for _, o := range opts {
		o(&cfg)
	}
	log := cfg.logger.Named("profile")

	state = state.Normalized()
	records := state.RawData

	if len(records) == 0 {
		log.Debug("empty dataset")
		return Profile{
			AllPositive:      true,
			Cardinality:      CardinalityLow,
			RowDimensions:    []string{},
			ColumnDimensions: []string{},
			MeasureLabels:    []string{},
		}
	}

	p := Profile{
		RecordCount:      len(records),
		MeasureCount:     len(state.Measures),
		RowDimensions:    axisNames(state.Rows),
		ColumnDimensions: axisNames(state.Columns),
		MeasureLabels:    make([]string, 0, len(state.Measures)),
	}
	for _, m := range state.Measures {
		p.MeasureLabels = append(p.MeasureLabels, m.Label())
	}

	if len(state.Rows) > 0 {
		p.RowCardinality = UniqueCount(records, state.Rows[0].UniqueName)
		p.RowLabel = state.Rows[0].Label()
	}
	if len(state.Columns) > 0 {
		p.ColumnCardinality = UniqueCount(records, state.Columns[0].UniqueName)
		p.ColumnLabel = state.Columns[0].Label()
	}

	cols := p.ColumnCardinality
	if cols < 1 {
		cols = 1
	}
	p.TotalDataPoints = p.RowCardinality * cols * p.MeasureCount

	if len(state.Rows) >= 2 {
		p.HasHierarchy = true
		p.HierarchyDepth = len(state.Rows)
	}

	for _, a := range append(append([]schema.Axis{}, state.Rows...), state.Columns...) {
		if IsTimeLike(a, records) {
			p.HasTimeField = true
			p.TimeField = a.UniqueName
			break
		}
	}

	var first *schema.Measure
	if len(state.Measures) > 0 {
		first = &state.Measures[0]
	}
	if len(state.Rows) > 0 {
		p.IsFunnelLike = IsFunnelLike(state.Rows[0], first, records)
	}

	p.AllPositive = allPositive(records, state.Measures)

	if first != nil {
		samples := numericSamples(records, first.UniqueName)
		p.IsContinuous = isContinuous(samples)
		p.MeasureVariance = variance(samples)
	}

	p.Cardinality = classify(max(p.RowCardinality, p.ColumnCardinality))

	log.Debug("profiled dataset",
		zap.Int("records", p.RecordCount),
		zap.Int("rowCardinality", p.RowCardinality),
		zap.Int("columnCardinality", p.ColumnCardinality),
		zap.Int("measures", p.MeasureCount),
		zap.Bool("time", p.HasTimeField),
		zap.Bool("funnel", p.IsFunnelLike),
		zap.Bool("continuous", p.IsContinuous),
		zap.Float64("variance", p.MeasureVariance),
		zap.String("cardinality", p.Cardinality),
	)
	return p
}

// UniqueCount returns the number of distinct non-null values of a field.
func UniqueCount(records []schema.Record, field string) int {
	if field == "" {
		return 0
	}
	seen := make(map[string]struct{})
	for _, r := range records {
		v, ok := r[field]
		if !ok || schema.IsNull(v) {
			continue
		}
		seen[schema.StringValue(v)] = struct{}{}
	}
	return len(seen)
}

// IsTimeLike reports whether an axis looks temporal, by name/caption keyword
// or by the share of leading values that parse as a date-ish literal.
func IsTimeLike(a schema.Axis, records []schema.Record) bool {
	if schema.IsTimeName(a.UniqueName, a.Caption) {
		return true
	}

	n := min(len(records), schema.TimeSampleSize)
	values := make([]string, 0, n)
	for _, r := range records[:n] {
		v, ok := r[a.UniqueName]
		if !ok || schema.IsNull(v) {
			continue
		}
		values = append(values, schema.StringValue(v))
	}
	ok, _ := schema.MatchTimeValues(values)
	return ok
}

// IsFunnelLike reports whether the row axis represents ordered stages.
// The name/caption is checked first; otherwise the first measure's totals
// per category (in first-seen order) must be mostly non-increasing.
func IsFunnelLike(row schema.Axis, measure *schema.Measure, records []schema.Record) bool {
	if containsKeyword(row.UniqueName, funnelKeywords) || containsKeyword(row.Caption, funnelKeywords) {
		return true
	}
	if measure == nil {
		return false
	}

	totals := make(map[string]float64)
	var order []string
	for _, r := range records {
		v, ok := r[row.UniqueName]
		if !ok || schema.IsNull(v) {
			continue
		}
		key := schema.StringValue(v)
		if _, exists := totals[key]; !exists {
			order = append(order, key)
			totals[key] = 0
		}
		if f, ok := schema.NumberValue(r[measure.UniqueName]); ok {
			totals[key] += f
		}
	}

	if len(order) < funnelMinStages || len(order) > funnelMaxStages {
		return false
	}

	steps := len(order) - 1
	decreasing, increasing := 0, 0
	for i := 1; i < len(order); i++ {
		if totals[order[i]] <= totals[order[i-1]] {
			decreasing++
		} else {
			increasing++
		}
	}
	return float64(decreasing)/float64(steps) >= funnelMinDecrease && increasing <= funnelMaxIncrease
}

// ============================================================================
// VALUE STATISTICS
// ============================================================================

func allPositive(records []schema.Record, measures []schema.Measure) bool {
	n := min(len(records), valueSampleSize)
	for _, r := range records[:n] {
		for _, m := range measures {
			if f, ok := schema.NumberValue(r[m.UniqueName]); ok && f < 0 {
				return false
			}
		}
	}
	return true
}

func numericSamples(records []schema.Record, field string) []float64 {
	n := min(len(records), valueSampleSize)
	out := make([]float64, 0, n)
	for _, r := range records[:n] {
		if f, ok := schema.NumberValue(r[field]); ok {
			out = append(out, f)
		}
	}
	return out
}

func isContinuous(samples []float64) bool {
	if len(samples) == 0 {
		return false
	}
	distinct := make(map[float64]struct{}, len(samples))
	for _, f := range samples {
		distinct[f] = struct{}{}
	}
	return float64(len(distinct))/float64(len(samples)) > continuityRatio
}

// variance is the population variance, 0 when there are no samples.
func variance(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	v, err := stats.PopulationVariance(samples)
	if err != nil {
		return 0
	}
	return v
}

func classify(card int) string {
	switch {
	case card <= lowCardinality:
		return CardinalityLow
	case card <= mediumCardinality:
		return CardinalityMedium
	default:
		return CardinalityHigh
	}
}

func axisNames(axes []schema.Axis) []string {
	out := make([]string, len(axes))
	for i, a := range axes {
		out[i] = a.UniqueName
	}
	return out
}
