package engine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Histogram bins the strictly positive values into numBins equal-width
// bins between their min and max. The maximum always lands in the last bin.
// A zero range uses width 1. With no positive values every bin is empty.
func Histogram(values []float64, numBins int) *HistogramData {
	if numBins <= 0 {
		numBins = DefaultBins
	}

	positive := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 && !math.IsInf(v, 0) {
			positive = append(positive, v)
		}
	}

	out := &HistogramData{
		BinLabels: make([]string, numBins),
		BinCounts: make([]int, numBins),
		NumBins:   numBins,
		BinWidth:  1,
	}
	if len(positive) > 0 {
		out.Min = floats.Min(positive)
		out.Max = floats.Max(positive)
		if w := (out.Max - out.Min) / float64(numBins); w > 0 {
			out.BinWidth = w
		}
	}

	for _, v := range positive {
		idx := int(math.Floor((v - out.Min) / out.BinWidth))
		if idx < 0 {
			idx = 0
		}
		if idx >= numBins {
			idx = numBins - 1
		}
		out.BinCounts[idx]++
	}

	for i := range out.BinLabels {
		lo := out.Min + float64(i)*out.BinWidth
		out.BinLabels[i] = fmt.Sprintf("[%.2f, %.2f)", lo, lo+out.BinWidth)
	}
	return out
}

// BuildHistogram bins the positive cell values of the categorical matrix.
func BuildHistogram(in Input, opts ...Option) *HistogramData {
	f := prepare(in, opts)
	return f.histogram()
}

func (f *frame) histogram() *HistogramData {
	matrix := f.categorical(ChartHistogram)

	var values []float64
	for _, s := range matrix.Series {
		values = append(values, s.Data...)
	}

	out := Histogram(values, f.cfg.bins)
	out.ChartData = *matrix
	out.Labels = out.BinLabels
	out.Series = []Series{{Name: f.measure.Label(), Data: countsAsFloats(out.BinCounts), Kind: KindBar}}
	return out
}

func countsAsFloats(counts []int) []float64 {
	out := make([]float64, len(counts))
	for i, c := range counts {
		out[i] = float64(c)
	}
	return out
}
