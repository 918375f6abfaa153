package sampler

import "math"

// Point is an (x, y) pair for shape-preserving downsampling.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LTTBValues downsamples an index-addressed series (x = position).
func LTTBValues(values []float64, target int) []float64 {
	idx := lttbIndices(len(values), target, func(i int) (float64, float64) {
		return float64(i), values[i]
	})
	if idx == nil {
		return values
	}
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}

// LTTB downsamples ordered points with Largest-Triangle-Three-Buckets.
// The first and last points are always kept. The input is returned
// unchanged when target >= len(points) or target < 3.
func LTTB(points []Point, target int) []Point {
	idx := lttbIndices(len(points), target, func(i int) (float64, float64) {
		return points[i].X, points[i].Y
	})
	if idx == nil {
		return points
	}
	out := make([]Point, len(idx))
	for i, j := range idx {
		out[i] = points[j]
	}
	return out
}

// lttbAny runs LTTB when T is a numeric payload the algorithm understands.
func lttbAny[T any](data []T, target int) ([]T, bool) {
	switch v := any(data).(type) {
	case []float64:
		return any(LTTBValues(v, target)).([]T), true
	case []Point:
		return any(LTTB(v, target)).([]T), true
	case []int:
		idx := lttbIndices(len(v), target, func(i int) (float64, float64) {
			return float64(i), float64(v[i])
		})
		if idx == nil {
			return data, true
		}
		return pick(data, idx), true
	}
	return nil, false
}

// lttbIndices returns the positions LTTB keeps, or nil when the input must be
// returned as is.
func lttbIndices(n, target int, xy func(i int) (float64, float64)) []int {
	if target >= n || target < 3 {
		return nil
	}

	out := make([]int, 0, target)
	out = append(out, 0)

	every := float64(n-2) / float64(target-2)
	a := 0
	for i := 0; i < target-2; i++ {
		start := int(math.Floor(float64(i)*every)) + 1
		end := int(math.Floor(float64(i+1)*every)) + 1
		if end > n-1 {
			end = n - 1
		}
		if end <= start {
			end = start + 1
		}

		// Centroid of the next bucket, or the last point after the final bucket.
		var avgX, avgY float64
		if i == target-3 {
			avgX, avgY = xy(n - 1)
		} else {
			nextStart := end
			nextEnd := int(math.Floor(float64(i+2)*every)) + 1
			if nextEnd > n-1 {
				nextEnd = n - 1
			}
			if nextEnd <= nextStart {
				nextEnd = nextStart + 1
			}
			count := 0
			for j := nextStart; j < nextEnd; j++ {
				x, y := xy(j)
				avgX += x
				avgY += y
				count++
			}
			avgX /= float64(count)
			avgY /= float64(count)
		}

		ax, ay := xy(a)
		maxArea := -1.0
		maxIdx := start
		for j := start; j < end; j++ {
			x, y := xy(j)
			// Twice the triangle area; the constant factor does not change the argmax.
			area := math.Abs((ax-avgX)*(y-ay) - (ax-x)*(avgY-ay))
			if area > maxArea {
				maxArea = area
				maxIdx = j
			}
		}

		out = append(out, maxIdx)
		a = maxIdx
	}

	out = append(out, n-1)
	return out
}
