package engine

import (
	"go.uber.org/zap"

	"github.com/mindfiredigital/PivotHead-sub001/sampler"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Build() and the builders
// ============================================================================

// DefaultBins is the histogram bin count when WithBins is not given.
const DefaultBins = 10

// AggregateMode selects how BuildAggregated folds column series.
type AggregateMode string

const (
	AggregateSum AggregateMode = "sum"
	AggregateAvg AggregateMode = "avg"
)

// Option configures builder behavior via functional options pattern.
type Option func(*config)

type config struct {
	limit     int
	sortKey   SortKey
	sortDir   Direction
	rowFilter []string
	colFilter []string
	sampler   *sampler.Sampler
	bins      int
	aggregate AggregateMode
	logger    *zap.Logger
}

// WithLimit keeps the top n rows ranked by their total across columns.
// Ties keep their original order. n <= 0 disables the limit.
func WithLimit(n int) Option {
	return func(c *config) {
		c.limit = n
	}
}

// WithSort orders row categories by value total or label.
func WithSort(key SortKey, dir Direction) Option {
	return func(c *config) {
		c.sortKey = key
		c.sortDir = dir
	}
}

// WithRowFilter restricts row categories to the given values
// (case-insensitive).
func WithRowFilter(values ...string) Option {
	return func(c *config) {
		c.rowFilter = values
	}
}

// WithColumnFilter restricts column categories to the given values
// (case-insensitive).
func WithColumnFilter(values ...string) Option {
	return func(c *config) {
		c.colFilter = values
	}
}

// WithSampler bounds the number of row categories to the sampler's
// MaxPoints. Order is preserved.
func WithSampler(s *sampler.Sampler) Option {
	return func(c *config) {
		c.sampler = s
	}
}

// WithBins sets the histogram bin count.
func WithBins(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.bins = n
		}
	}
}

// WithAggregateMode selects sum or average for BuildAggregated.
func WithAggregateMode(m AggregateMode) Option {
	return func(c *config) {
		c.aggregate = m
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// filtersFor binds the row/column value filters to concrete field names.
func (c *config) filtersFor(rowField, colField string) Filters {
	f := Filters{Fields: make(map[string][]string)}
	if rowField != "" && len(c.rowFilter) > 0 {
		f.Fields[rowField] = c.rowFilter
	}
	if colField != "" && len(c.colFilter) > 0 {
		f.Fields[colField] = c.colFilter
	}
	return f
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		bins:      DefaultBins,
		aggregate: AggregateSum,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.logger = cfg.logger.Named("engine")
	return cfg
}
