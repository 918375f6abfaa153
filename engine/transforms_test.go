package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranspose(t *testing.T) {
	cd := BuildCategorical(salesInput())
	tr := Transpose(cd)

	assert.Equal(t, []string{"A", "B"}, tr.Labels)
	require.Len(t, tr.Series, 3)
	assert.Equal(t, "North", tr.Series[0].Name)
	assert.Equal(t, []float64{120, 80}, tr.Series[0].Data)
	assert.Equal(t, []float64{60, 0}, tr.Series[2].Data)
	assert.Equal(t, "product", tr.RowField)
	assert.Equal(t, "region", tr.ColumnField)
	assert.Equal(t, cd.AllColumnValues, tr.AllRowValues)

	// Round trip restores the original.
	back := Transpose(tr)
	assert.Equal(t, cd.Labels, back.Labels)
	assert.Equal(t, cd.Series[1].Data, back.Series[1].Data)

	// Input untouched.
	assert.Equal(t, []string{"North", "South", "East"}, cd.Labels)
}

func TestNormalizeByRow(t *testing.T) {
	n := Normalize(BuildCategorical(salesInput()), ByRow)
	assert.InDelta(t, 60.0, n.Series[0].Data[0], 1e-9)
	assert.InDelta(t, 40.0, n.Series[1].Data[0], 1e-9)
	assert.InDelta(t, 100.0, n.Series[0].Data[2], 1e-9)
	assert.InDelta(t, 0.0, n.Series[1].Data[2], 1e-9)
}

func TestNormalizeByColumn(t *testing.T) {
	n := Normalize(BuildCategorical(salesInput()), ByColumn)
	// Column A total 275.
	assert.InDelta(t, 120.0/275*100, n.Series[0].Data[0], 1e-9)
	var sum float64
	for _, v := range n.Series[1].Data {
		sum += v
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestNormalizeZeroTotal(t *testing.T) {
	cd := &ChartData{
		Labels: []string{"x", "y"},
		Series: []Series{{Name: "s", Data: []float64{0, 0}}},
	}
	for _, mode := range []NormalizeMode{ByRow, ByColumn} {
		n := Normalize(cd, mode)
		assert.Equal(t, []float64{0, 0}, n.Series[0].Data)
	}
}

func TestStackAndCombo(t *testing.T) {
	cd := BuildCategorical(salesInput())

	st := Stack(cd, "")
	for _, s := range st.Series {
		assert.Equal(t, DefaultStack, s.Stack)
	}
	assert.Equal(t, cd.Series[0].Data, st.Series[0].Data)
	assert.Empty(t, cd.Series[0].Stack)

	co := Combo(cd)
	assert.Equal(t, KindBar, co.Series[0].Kind)
	assert.Equal(t, KindLine, co.Series[1].Kind)
	assert.Equal(t, cd.Series[1].Data, co.Series[1].Data)
}

func TestTopN(t *testing.T) {
	cd := BuildCategorical(salesInput())

	top := TopN(cd, 2, SortByValue, Desc)
	assert.Equal(t, []string{"South", "North"}, top.Labels)
	assert.Equal(t, []float64{140, 80}, top.Series[1].Data)

	byLabel := TopN(cd, 0, SortByLabel, Asc)
	assert.Equal(t, []string{"East", "North", "South"}, byLabel.Labels)
	assert.Equal(t, []float64{60, 120, 95}, byLabel.Series[0].Data)

	bottom := TopN(cd, 1, SortByValue, Asc)
	assert.Equal(t, []string{"East"}, bottom.Labels)

	all := TopN(cd, 10, SortByLabel, Desc)
	assert.Len(t, all.Labels, 3)
}

func TestTransformsOnEmptyData(t *testing.T) {
	empty := BuildCategorical(Input{})
	assert.Empty(t, Transpose(empty).Labels)
	assert.Empty(t, Normalize(empty, ByRow).Series)
	assert.Empty(t, TopN(empty, 3, SortByValue, Desc).Labels)
}
