package sampler

import (
	"math"
	"math/rand"
	"sort"
	"time"
)

// ============================================================================
// SAMPLER — Bounds oversized ordered sequences before rendering
// ============================================================================
// Four interchangeable reductions, selected by Config.Method:
//
//   random      partial Fisher–Yates shuffle, order not preserved
//   stratified  ≤10 contiguous buckets, proportional random share per bucket
//   systematic  fixed step with a random first offset, order preserved
//   lttb        Largest-Triangle-Three-Buckets, numeric payloads only
//
// Randomness comes from an injected *rand.Rand so tests can pin the output.
// A Sampler is not safe for concurrent use; create one per goroutine.
// ============================================================================

// Method names a sampling algorithm.
type Method string

const (
	MethodRandom     Method = "random"
	MethodStratified Method = "stratified"
	MethodSystematic Method = "systematic"
	MethodLTTB       Method = "lttb"
)

// DefaultMaxPoints is used when Config.MaxPoints is not set.
const DefaultMaxPoints = 1000

const maxStrata = 10

// Config selects the target cardinality and algorithm.
type Config struct {
	MaxPoints int    `json:"maxPoints" yaml:"max_points" env:"SAMPLER_MAX_POINTS" env-default:"1000"`
	Method    Method `json:"method" yaml:"method" env:"SAMPLER_METHOD" env-default:"lttb"`
}

// Valid reports whether the method is one of the known algorithms.
func (m Method) Valid() bool {
	switch m {
	case MethodRandom, MethodStratified, MethodSystematic, MethodLTTB:
		return true
	}
	return false
}

// Sampler applies one configured algorithm with its own random source.
type Sampler struct {
	cfg Config
	rng *rand.Rand
}

// New creates a Sampler. A nil rng is replaced by a time-seeded source.
func New(cfg Config, rng *rand.Rand) *Sampler {
	if cfg.MaxPoints <= 0 {
		cfg.MaxPoints = DefaultMaxPoints
	}
	if !cfg.Method.Valid() {
		cfg.Method = MethodLTTB
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{cfg: cfg, rng: rng}
}

// NewSeeded creates a Sampler with a deterministic random source.
func NewSeeded(cfg Config, seed int64) *Sampler {
	return New(cfg, rand.New(rand.NewSource(seed)))
}

// Config returns the effective configuration.
func (s *Sampler) Config() Config { return s.cfg }

// NeedsSampling reports whether n items exceed MaxPoints.
func (s *Sampler) NeedsSampling(n int) bool {
	return n > s.cfg.MaxPoints
}

// ============================================================================
// GENERIC ENTRY POINTS
// ============================================================================

// Sample reduces data to the sampler's MaxPoints.
func Sample[T any](s *Sampler, data []T) []T {
	return SampleTo(s, data, s.cfg.MaxPoints)
}

// SampleTo reduces data to target items with the configured method.
// Returns the input unchanged when target >= len(data) or target <= 0.
func SampleTo[T any](s *Sampler, data []T, target int) []T {
	n := len(data)
	if target <= 0 || target >= n {
		return data
	}

	switch s.cfg.Method {
	case MethodRandom:
		return pick(data, s.randomIndices(n, target))
	case MethodStratified:
		return pick(data, s.stratifiedIndices(n, target))
	case MethodLTTB:
		if out, ok := lttbAny(data, target); ok {
			return out
		}
		// Non-numeric payloads have no triangle to measure.
		return pick(data, s.systematicIndices(n, target))
	default:
		return pick(data, s.systematicIndices(n, target))
	}
}

// Indexed pairs a sampled element with its position in the input.
type Indexed[T any] struct {
	Index int `json:"index"`
	Value T   `json:"value"`
}

// SampleWithIndices reduces data to target items with systematic stepping,
// keeping each element's original position. Indices are unique and ascending.
func SampleWithIndices[T any](data []T, target int) []Indexed[T] {
	n := len(data)
	if target <= 0 || target >= n {
		out := make([]Indexed[T], n)
		for i, v := range data {
			out[i] = Indexed[T]{Index: i, Value: v}
		}
		return out
	}

	step := float64(n) / float64(target)
	seen := make(map[int]bool, target)
	out := make([]Indexed[T], 0, target)
	for k := 0; k < target; k++ {
		idx := int(math.Floor(float64(k) * step))
		if idx >= n {
			idx = n - 1
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, Indexed[T]{Index: idx, Value: data[idx]})
	}
	return out
}

// Indices picks target positions out of n with the configured method and
// returns them ascending. values, when it holds n entries, is the series LTTB
// measures; otherwise lttb falls back to systematic stepping.
func (s *Sampler) Indices(n, target int, values []float64) []int {
	if target <= 0 || target >= n {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all
	}

	var idx []int
	switch s.cfg.Method {
	case MethodRandom:
		idx = s.randomIndices(n, target)
	case MethodStratified:
		idx = s.stratifiedIndices(n, target)
	case MethodLTTB:
		if len(values) == n {
			idx = lttbIndices(n, target, func(i int) (float64, float64) {
				return float64(i), values[i]
			})
		}
		if idx == nil {
			idx = s.systematicIndices(n, target)
		}
	default:
		idx = s.systematicIndices(n, target)
	}
	sort.Ints(idx)
	return idx
}

// ============================================================================
// INDEX SELECTION
// ============================================================================

func pick[T any](data []T, indices []int) []T {
	out := make([]T, len(indices))
	for i, idx := range indices {
		out[i] = data[idx]
	}
	return out
}

// randomIndices runs a partial Fisher–Yates shuffle over [0,n) and returns
// the first target positions.
func (s *Sampler) randomIndices(n, target int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < target; i++ {
		j := i + s.rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:target]
}

// stratifiedIndices splits [0,n) into at most ten contiguous buckets and draws
// a share from each proportional to its size. Shares are allocated from the
// cumulative target so they always add up to target exactly.
func (s *Sampler) stratifiedIndices(n, target int) []int {
	buckets := maxStrata
	if target < buckets {
		buckets = target
	}

	out := make([]int, 0, target)
	for b := 0; b < buckets; b++ {
		start := b * n / buckets
		end := (b + 1) * n / buckets
		size := end - start
		if size <= 0 {
			continue
		}

		share := target*end/n - target*start/n
		if share > size {
			share = size
		}
		if share <= 0 {
			continue
		}

		for _, local := range s.randomIndices(size, share) {
			out = append(out, start+local)
		}
	}
	return out
}

// systematicIndices takes one element every n/target positions, starting at a
// random offset inside the first interval.
func (s *Sampler) systematicIndices(n, target int) []int {
	step := float64(n) / float64(target)
	offset := s.rng.Float64() * step

	out := make([]int, 0, target)
	for k := 0; k < target; k++ {
		idx := int(math.Floor(offset + float64(k)*step))
		if idx >= n {
			idx = n - 1
		}
		out = append(out, idx)
	}
	return out
}
