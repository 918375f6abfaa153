package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mindfiredigital/PivotHead-sub001/sampler"
	"github.com/mindfiredigital/PivotHead-sub001/schema"
)

var (
	salesMeasure = schema.Measure{UniqueName: "sales", Caption: "Sales", Aggregation: schema.AggSum}
	unitsMeasure = schema.Measure{UniqueName: "units", Caption: "Units", Aggregation: schema.AggSum}
)

func salesRecords() []schema.Record {
	return []schema.Record{
		{"region": "North", "product": "A", "sales": 120.0, "units": 12},
		{"region": "North", "product": "B", "sales": 80.0, "units": 8},
		{"region": "South", "product": "A", "sales": 95.0, "units": 10},
		{"region": "South", "product": "B", "sales": 140.0, "units": 14},
		{"region": "East", "product": "A", "sales": 60.0, "units": 6},
	}
}

func salesInput() Input {
	return Input{
		RowField:        "region",
		ColumnField:     "product",
		Measures:        []schema.Measure{salesMeasure, unitsMeasure},
		SelectedMeasure: "sales",
		Records:         salesRecords(),
	}
}

func TestBuildCategorical(t *testing.T) {
	cd := BuildCategorical(salesInput(), WithLogger(zap.NewNop()))

	assert.Equal(t, []string{"North", "South", "East"}, cd.Labels)
	require.Len(t, cd.Series, 2)
	assert.Equal(t, "A", cd.Series[0].Name)
	assert.Equal(t, []float64{120, 95, 60}, cd.Series[0].Data)
	assert.Equal(t, "B", cd.Series[1].Name)
	// East × B does not exist and resolves to 0.
	assert.Equal(t, []float64{80, 140, 0}, cd.Series[1].Data)

	assert.Equal(t, []string{"North", "South", "East"}, cd.AllRowValues)
	assert.Equal(t, []string{"A", "B"}, cd.AllColumnValues)
	assert.Equal(t, "region", cd.RowField)
	assert.Equal(t, "product", cd.ColumnField)
	assert.Equal(t, salesMeasure, cd.SelectedMeasure)
}

func TestBuildCategoricalWithoutColumns(t *testing.T) {
	in := salesInput()
	in.ColumnField = ""

	cd := BuildCategorical(in)
	require.Len(t, cd.Series, 1)
	assert.Equal(t, "Sales", cd.Series[0].Name)
	assert.Equal(t, []float64{200, 235, 60}, cd.Series[0].Data)
	assert.Empty(t, cd.AllColumnValues)
}

func TestBuildCategoricalEmptyInput(t *testing.T) {
	for name, in := range map[string]Input{
		"zero":        {},
		"no records":  {RowField: "region", Measures: []schema.Measure{salesMeasure}},
		"no measures": {RowField: "region", Records: salesRecords()},
		"no row":      {ColumnField: "product", Measures: []schema.Measure{salesMeasure}, Records: salesRecords()},
	} {
		t.Run(name, func(t *testing.T) {
			cd := BuildCategorical(in)
			require.NotNil(t, cd)
			assert.NotNil(t, cd.Labels)
			assert.Empty(t, cd.Labels)
			assert.NotNil(t, cd.Series)
			assert.Empty(t, cd.Series)
		})
	}
}

func TestBuildCategoricalLimit(t *testing.T) {
	cd := BuildCategorical(salesInput(), WithLimit(2))
	// Totals: North 200, South 235, East 60.
	assert.Equal(t, []string{"South", "North"}, cd.Labels)
	assert.Equal(t, []float64{95, 120}, cd.Series[0].Data)
	// All values still report the full axis.
	assert.Len(t, cd.AllRowValues, 3)
}

func TestBuildCategoricalLimitTiesKeepOrder(t *testing.T) {
	in := Input{
		RowField: "k",
		Measures: []schema.Measure{salesMeasure},
		Records: []schema.Record{
			{"k": "a", "sales": 5}, {"k": "b", "sales": 9}, {"k": "c", "sales": 5}, {"k": "d", "sales": 5},
		},
	}
	cd := BuildCategorical(in, WithLimit(3))
	assert.Equal(t, []string{"b", "a", "c"}, cd.Labels)
}

func TestBuildCategoricalSort(t *testing.T) {
	cd := BuildCategorical(salesInput(), WithSort(SortByLabel, Asc))
	assert.Equal(t, []string{"East", "North", "South"}, cd.Labels)

	cd = BuildCategorical(salesInput(), WithSort(SortByValue, Asc))
	assert.Equal(t, []string{"East", "North", "South"}, cd.Labels)

	cd = BuildCategorical(salesInput(), WithSort(SortByValue, Desc))
	assert.Equal(t, []string{"South", "North", "East"}, cd.Labels)
	assert.Equal(t, []float64{140, 80, 0}, cd.Series[1].Data)
}

func TestBuildCategoricalFilters(t *testing.T) {
	cd := BuildCategorical(salesInput(), WithRowFilter("north", "EAST"), WithColumnFilter("a"))

	assert.Equal(t, []string{"North", "East"}, cd.Labels)
	assert.Equal(t, []string{"North", "East"}, cd.FilteredRowValues)
	assert.Equal(t, []string{"A"}, cd.FilteredColumnValues)
	assert.Equal(t, []string{"North", "South", "East"}, cd.AllRowValues)
	require.Len(t, cd.Series, 1)
	assert.Equal(t, []float64{120, 60}, cd.Series[0].Data)
}

func TestBuildCategoricalSampling(t *testing.T) {
	records := make([]schema.Record, 100)
	for i := range records {
		records[i] = schema.Record{"day": fmt.Sprintf("d%03d", i), "sales": float64(i)}
	}
	in := Input{RowField: "day", Measures: []schema.Measure{salesMeasure}, Records: records}
	s := sampler.NewSeeded(sampler.Config{MaxPoints: 10, Method: sampler.MethodLTTB}, 1)

	cd := BuildCategorical(in, WithSampler(s))
	require.Len(t, cd.Labels, 10)
	require.Len(t, cd.Series[0].Data, 10)
	assert.Equal(t, "d000", cd.Labels[0])
	for i := 1; i < len(cd.Labels); i++ {
		assert.Less(t, cd.Labels[i-1], cd.Labels[i])
	}
	// Series values follow their sampled labels.
	for i, l := range cd.Labels {
		var n int
		_, err := fmt.Sscanf(l, "d%03d", &n)
		require.NoError(t, err)
		assert.Equal(t, float64(n), cd.Series[0].Data[i])
	}
}

func spikeInput() Input {
	records := make([]schema.Record, 100)
	for i := range records {
		v := 0.0
		if i == 37 {
			v = 1000
		}
		records[i] = schema.Record{"day": fmt.Sprintf("d%03d", i), "sales": v}
	}
	return Input{RowField: "day", Measures: []schema.Measure{salesMeasure}, Records: records}
}

func TestBuildCategoricalLTTBKeepsSpike(t *testing.T) {
	s := sampler.NewSeeded(sampler.Config{MaxPoints: 10, Method: sampler.MethodLTTB}, 1)

	cd := BuildCategorical(spikeInput(), WithSampler(s))
	require.Len(t, cd.Labels, 10)
	assert.Contains(t, cd.Labels, "d037")
	assert.Contains(t, cd.Series[0].Data, 1000.0)
	assert.Equal(t, "d000", cd.Labels[0])
	assert.Equal(t, "d099", cd.Labels[9])
}

func TestBuildCategoricalSamplingHonoursMethod(t *testing.T) {
	for _, m := range []sampler.Method{sampler.MethodRandom, sampler.MethodStratified, sampler.MethodSystematic} {
		t.Run(string(m), func(t *testing.T) {
			s := sampler.NewSeeded(sampler.Config{MaxPoints: 10, Method: m}, 7)
			cd := BuildCategorical(spikeInput(), WithSampler(s))
			require.Len(t, cd.Labels, 10)
			for i := 1; i < len(cd.Labels); i++ {
				assert.Less(t, cd.Labels[i-1], cd.Labels[i], "sampled rows keep their order")
			}

			again := BuildCategorical(spikeInput(), WithSampler(sampler.NewSeeded(sampler.Config{MaxPoints: 10, Method: m}, 7)))
			assert.Equal(t, cd.Labels, again.Labels)
		})
	}
}

func TestBuildCategoricalSamplingWithColumns(t *testing.T) {
	records := make([]schema.Record, 0, 60)
	for i := 0; i < 30; i++ {
		day := fmt.Sprintf("d%03d", i)
		records = append(records,
			schema.Record{"day": day, "product": "A", "sales": float64(i)},
			schema.Record{"day": day, "product": "B", "sales": float64(2 * i)},
		)
	}
	in := Input{RowField: "day", ColumnField: "product", Measures: []schema.Measure{salesMeasure}, Records: records}
	s := sampler.NewSeeded(sampler.Config{MaxPoints: 5, Method: sampler.MethodLTTB}, 1)

	cd := BuildCategorical(in, WithSampler(s))
	require.Len(t, cd.Labels, 5)
	require.Len(t, cd.Series, 2)
	for i, l := range cd.Labels {
		var n int
		_, err := fmt.Sscanf(l, "d%03d", &n)
		require.NoError(t, err)
		assert.Equal(t, float64(n), cd.Series[0].Data[i])
		assert.Equal(t, float64(2*n), cd.Series[1].Data[i])
	}
}

func TestBuildCategoricalExternalLookup(t *testing.T) {
	in := salesInput()
	calls := 0
	in.CellValue = func(row, col string, m schema.Measure, rowField, colField string) float64 {
		calls++
		assert.Equal(t, "region", rowField)
		assert.Equal(t, "product", colField)
		if row == "North" && col == "A" {
			return 7
		}
		return 0
	}
	cd := BuildCategorical(in)
	assert.Equal(t, 7.0, cd.Series[0].Data[0])
	assert.Equal(t, 6, calls)
}

func TestBuildAggregated(t *testing.T) {
	cd := BuildAggregated(salesInput())
	assert.Equal(t, []string{"North", "South", "East"}, cd.Labels)
	require.Len(t, cd.Series, 1)
	assert.Equal(t, []float64{200, 235, 60}, cd.Series[0].Data)

	cd = BuildAggregated(salesInput(), WithAggregateMode(AggregateAvg))
	assert.Equal(t, []float64{100, 117.5, 30}, cd.Series[0].Data)
}

func TestBuildMeasureSeries(t *testing.T) {
	cd := BuildMeasureSeries(salesInput())
	require.Len(t, cd.Series, 2)
	assert.Equal(t, "Sales", cd.Series[0].Name)
	assert.Equal(t, []float64{200, 235, 60}, cd.Series[0].Data)
	assert.Equal(t, "Units", cd.Series[1].Name)
	assert.Equal(t, []float64{20, 24, 6}, cd.Series[1].Data)
}

func TestBuildScatter(t *testing.T) {
	sd := BuildScatter(salesInput())
	assert.Equal(t, salesMeasure, sd.XMeasure)
	assert.Equal(t, unitsMeasure, sd.YMeasure)
	require.Len(t, sd.Points, 2)
	assert.Equal(t, "A", sd.Points[0].Name)
	assert.Equal(t, ScatterPoint{X: 120, Y: 12, Label: "North"}, sd.Points[0].Points[0])
	assert.Len(t, sd.Points[1].Points, 3)

	in := salesInput()
	in.Measures = []schema.Measure{salesMeasure}
	sd = BuildScatter(in)
	assert.Equal(t, salesMeasure, sd.YMeasure)
	assert.Equal(t, sd.Points[0].Points[0].X, sd.Points[0].Points[0].Y)
}

func TestBuildHeatmap(t *testing.T) {
	h := BuildHeatmap(salesInput())
	rows, cols := len(h.FilteredRowValues), len(h.FilteredColumnValues)
	assert.Len(t, h.Cells, rows*cols)
	assert.Equal(t, 0.0, h.MinValue)
	assert.Equal(t, 140.0, h.MaxValue)

	lo, hi, ok := h.Range()
	assert.True(t, ok)
	assert.LessOrEqual(t, lo, hi)
	assert.Contains(t, h.Cells, HeatmapCell{Row: "East", Col: "B", Value: 0})
}

func TestBuildHeatmapEmpty(t *testing.T) {
	h := BuildHeatmap(Input{RowField: "region", ColumnField: "product", Measures: []schema.Measure{salesMeasure}})
	assert.Empty(t, h.Cells)
	assert.Equal(t, 0.0, h.MinValue)
	assert.Equal(t, 0.0, h.MaxValue)
	_, _, ok := h.Range()
	assert.False(t, ok)
}

func TestBuildHeatmapNegativeRange(t *testing.T) {
	in := Input{
		RowField: "r", ColumnField: "c", Measures: []schema.Measure{salesMeasure},
		Records: []schema.Record{
			{"r": "x", "c": "1", "sales": -5}, {"r": "x", "c": "2", "sales": -2},
			{"r": "y", "c": "1", "sales": -9}, {"r": "y", "c": "2", "sales": -1},
		},
	}
	h := BuildHeatmap(in)
	assert.Equal(t, -9.0, h.MinValue)
	assert.Equal(t, -1.0, h.MaxValue)
}

func TestBuildSankey(t *testing.T) {
	in := salesInput()
	in.Records = append(in.Records, schema.Record{"region": "West", "product": "A", "sales": -10.0})

	s := BuildSankey(in)
	require.Len(t, s.Flows, 5)
	for _, f := range s.Flows {
		assert.Greater(t, f.Value, 0.0)
		assert.False(t, f.From == "East" && f.To == "B")
		assert.NotEqual(t, "West", f.From)
	}
	assert.Equal(t, Flow{From: "North", To: "A", Value: 120}, s.Flows[0])
}
