package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTableSeries(t *testing.T) {
	res, err := Build(ChartColumn, salesInput())
	require.NoError(t, err)

	tbl := BuildTable(res)
	assert.Equal(t, []string{"Region", "A", "B"}, tbl.Header())
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, []string{"North", "120.00", "80.00"}, tbl.Rows[0])
	require.NotNil(t, tbl.Summary)
	assert.Equal(t, "275", tbl.Summary.Values["s0"])
}

func TestBuildTableSpecialised(t *testing.T) {
	tests := []struct {
		chart  ChartType
		in     Input
		header []string
		rows   int
	}{
		{ChartHeatmap, salesInput(), []string{"Region", "Product", "Value"}, 6},
		{ChartSankey, salesInput(), []string{"From", "To", "Value"}, 5},
		{ChartHistogram, salesInput(), []string{"Bin", "Count"}, DefaultBins},
		{ChartTreemap, financeInput(), []string{"Path", "Depth", "Value"}, 6},
		{ChartScatter, salesInput(), []string{"Series", "Region", "Sales", "Units"}, 6},
	}
	for _, tc := range tests {
		t.Run(string(tc.chart), func(t *testing.T) {
			res, err := Build(tc.chart, tc.in)
			require.NoError(t, err)
			tbl := BuildTable(res)
			assert.Equal(t, tc.header, tbl.Header())
			assert.Len(t, tbl.Rows, tc.rows)
			for _, row := range tbl.Rows {
				assert.Len(t, row, len(tc.header))
			}
		})
	}
}

func TestBuildTableEmpty(t *testing.T) {
	tbl := BuildTable(nil)
	assert.Empty(t, tbl.Columns)
	assert.Empty(t, tbl.Rows)

	res, err := Build(ChartColumn, Input{})
	require.NoError(t, err)
	tbl = BuildTable(res)
	assert.Empty(t, tbl.Rows)
}

func TestBuildText(t *testing.T) {
	res, err := Build(ChartColumn, salesInput())
	require.NoError(t, err)

	txt := BuildText(res)
	assert.Equal(t, "495", txt.Value)
	assert.Equal(t, 3, txt.Count)
	assert.Equal(t, "South", txt.Top)
	assert.Equal(t, 235.0, txt.TopValue)
	assert.Len(t, txt.Lines, 4)

	res, err = Build(ChartHeatmap, salesInput())
	require.NoError(t, err)
	txt = BuildText(res)
	assert.Equal(t, "South × B", txt.Top)

	res, err = Build(ChartHistogram, salesInput(), WithBins(4))
	require.NoError(t, err)
	txt = BuildText(res)
	assert.Equal(t, 5, txt.Count)

	assert.Equal(t, []string{"No data"}, BuildText(nil).Lines)
}
