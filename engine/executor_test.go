package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindfiredigital/PivotHead-sub001/schema"
)

func TestBuildDispatchesEveryType(t *testing.T) {
	for _, ct := range ChartTypes {
		t.Run(string(ct), func(t *testing.T) {
			res, err := Build(ct, salesInput())
			require.NoError(t, err)
			assert.Equal(t, ct, res.ChartType)
			assert.Equal(t, ct, res.Config.ChartType)
			require.NotNil(t, res.Base())
			assert.Equal(t, ct, res.Base().ChartType)
		})
	}
}

func TestBuildUnknownChartType(t *testing.T) {
	res, err := Build("radar", salesInput())
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, ErrUnknownChartType))
	assert.Contains(t, err.Error(), "radar")
}

func TestBuildPayloads(t *testing.T) {
	res, err := Build(ChartPie, salesInput())
	require.NoError(t, err)
	require.NotNil(t, res.Data)
	assert.Len(t, res.Data.Series, 1)
	assert.Len(t, res.Config.Colors, 3)
	assert.False(t, res.Config.ShowGrid)
	assert.Equal(t, "Total Sales by Region", res.Config.Title)

	res, err = Build(ChartStackedColumn, salesInput())
	require.NoError(t, err)
	assert.True(t, res.Config.Stacked)
	for _, s := range res.Data.Series {
		assert.Equal(t, DefaultStack, s.Stack)
		assert.Equal(t, KindBar, s.Kind)
	}

	res, err = Build(ChartLine, salesInput())
	require.NoError(t, err)
	assert.Equal(t, KindLine, res.Data.Series[0].Kind)

	res, err = Build(ChartCombo, salesInput())
	require.NoError(t, err)
	require.Len(t, res.Data.Series, 2)
	assert.Equal(t, "Sales", res.Data.Series[0].Name)
	assert.Equal(t, KindBar, res.Data.Series[0].Kind)
	assert.Equal(t, "Units", res.Data.Series[1].Name)
	assert.Equal(t, KindLine, res.Data.Series[1].Kind)

	res, err = Build(ChartHeatmap, salesInput())
	require.NoError(t, err)
	assert.Nil(t, res.Data)
	require.NotNil(t, res.Heatmap)
	assert.Len(t, res.Heatmap.Cells, 6)

	res, err = Build(ChartHistogram, salesInput(), WithBins(4))
	require.NoError(t, err)
	require.NotNil(t, res.Histogram)
	assert.Equal(t, "Frequency", res.Config.YAxis)

	res, err = Build(ChartTreemap, financeInput())
	require.NoError(t, err)
	require.NotNil(t, res.Treemap)
	assert.Equal(t, 2, res.Treemap.MaxDepth)
}

func TestBuildEmptyInputNeverFails(t *testing.T) {
	for _, ct := range ChartTypes {
		res, err := Build(ct, Input{})
		require.NoError(t, err, "%s", ct)
		require.NotNil(t, res.Base(), "%s", ct)
		if ct == ChartHistogram {
			// Bins exist even with nothing to count.
			assert.Equal(t, make([]int, DefaultBins), res.Histogram.BinCounts)
			continue
		}
		assert.Empty(t, res.Base().Labels, "%s", ct)
	}
}

func TestInputFromState(t *testing.T) {
	state := schema.State{
		Rows:     []schema.Axis{{UniqueName: "category"}, {UniqueName: "field"}},
		Columns:  []schema.Axis{{UniqueName: "__all__"}},
		Measures: []schema.Measure{{UniqueName: "amount"}},
		RawData:  []schema.Record{{"category": "Income", "field": "Salary", "amount": 1}},
	}
	in := InputFromState(state, nil)
	assert.Equal(t, "category", in.RowField)
	assert.Equal(t, "", in.ColumnField)
	assert.Equal(t, []string{"category", "field"}, in.RowFields)
	assert.Equal(t, "amount", in.SelectedMeasure)
	assert.Len(t, in.Records, 1)
}

func TestParseChartType(t *testing.T) {
	ct, err := ParseChartType("stackedArea")
	require.NoError(t, err)
	assert.Equal(t, ChartStackedArea, ct)

	_, err = ParseChartType("Pie")
	assert.ErrorIs(t, err, ErrUnknownChartType)
}
