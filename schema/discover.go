package schema

import (
	"bytes"
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ============================================================================
// AUTO-DISCOVERY — Flat file columns to pivot axes and measures
// ============================================================================
// Each column is inspected once:
//   1. Non-null cells → value kind (bool, number, text)
//   2. Leading cells → temporal family (shared with the profiler)
//   3. Kind + distinct count → axis, measure, or skipped
//   4. Axis pairs → parent/child links for a row hierarchy
//
// A file without any numeric column still pivots: discovery adds a
// record_count measure so every cell can show how many rows fall in it.
// ============================================================================

// RecordCountKey is the synthetic measure added when a file has no numeric columns.
const RecordCountKey = "record_count"

const (
	defaultSampleRows   = 1000
	maxSampleRows       = 100000
	kindMatchRatio      = 0.8
	maxSampleValues     = 10
	codedMaxDistinct    = 20
	codedMaxRatio       = 0.3
	identifierMinRows   = 10
	freeTextMinDistinct = 50
)

var (
	ErrNoColumns  = errors.New("no columns")
	ErrNoDataRows = errors.New("no data rows")
)

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize     int      // Max rows to inspect (0 = all). Default: 1000
	RecoverColumns []string // Force-include columns that were auto-skipped
	Name           string   // Dataset name override
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{SampleSize: defaultSampleRows}
}

// DiscoverFromCSV generates a Config by inspecting CSV data.
// Rows the CSV reader rejects are ignored.
func DiscoverFromCSV(data []byte, opts ...DiscoverOptions) (*Config, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err == nil {
			rows = append(rows, row)
		}
	}

	cfg, err := DiscoverFromRows(headers, rows, opts...)
	if err != nil {
		return nil, err
	}
	cfg.DiscoveredFrom = "CSV"
	return cfg, nil
}

// DiscoverFromRows generates a Config from a header row and string cells.
// Any tabular source (CSV, XLSX sheet) can feed it.
func DiscoverFromRows(headers []string, allRows [][]string, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if len(headers) == 0 {
		return nil, ErrNoColumns
	}

	limit := opt.SampleSize
	if limit <= 0 {
		limit = maxSampleRows
	}
	rows := allRows[:min(len(allRows), limit)]
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}

	wanted := make(map[string]bool, len(opt.RecoverColumns))
	for _, name := range opt.RecoverColumns {
		wanted[strings.ToLower(strings.TrimSpace(name))] = true
	}

	cfg := &Config{Name: cmp.Or(opt.Name, "Auto-discovered Dataset")}
	var axes []*column
	for i, header := range headers {
		c := inspectColumn(header, i, rows)
		if c.role == roleSkipped && (wanted[strings.ToLower(c.header)] || wanted[c.key]) {
			c.role, c.recovered = roleDimension, true
		}

		switch c.role {
		case roleDimension:
			axes = append(axes, c)
		case roleMeasure:
			cfg.Measures = append(cfg.Measures, MeasureMeta{
				Key:                c.key,
				DisplayName:        toDisplayName(c.header),
				DefaultAggregation: AggSum,
			})
		default:
			cfg.SkippedColumns = append(cfg.SkippedColumns, SkippedColumn{
				Column:      c.header,
				Reason:      c.skipReason,
				Recoverable: c.recoverable,
			})
		}
	}

	if len(cfg.Measures) == 0 {
		cfg.Measures = []MeasureMeta{{
			Key:                RecordCountKey,
			DisplayName:        "Record Count",
			DefaultAggregation: AggCount,
		}}
	}

	cfg.Dimensions = linkHierarchies(axes, rows)
	cfg.DiscoveredAt = time.Now().Format(time.RFC3339)
	return cfg, nil
}

// ============================================================================
// COLUMN INSPECTION
// ============================================================================

type columnRole int

const (
	roleDimension columnRole = iota
	roleMeasure
	roleSkipped
)

type valueKind int

const (
	kindText valueKind = iota
	kindNumber
	kindBool
)

type column struct {
	header string
	key    string
	index  int

	values   []string // non-null cells in row order
	distinct int
	samples  []string

	kind       valueKind
	fractional bool
	temporal   bool
	timeFormat string

	role        columnRole
	skipReason  string
	recoverable bool
	recovered   bool
}

func inspectColumn(header string, index int, rows [][]string) *column {
	c := &column{header: header, key: ColumnKey(header), index: index}

	seen := make(map[string]struct{})
	var head []string
	for i, row := range rows {
		v := cell(row, index)
		if IsNullToken(v) {
			continue
		}
		c.values = append(c.values, v)
		seen[v] = struct{}{}
		if i < TimeSampleSize {
			head = append(head, v)
		}
	}
	c.distinct = len(seen)

	if len(c.values) == 0 {
		c.skip("All values are empty or null", false)
		return c
	}

	c.samples = slices.Sorted(maps.Keys(seen))
	c.samples = c.samples[:min(len(c.samples), maxSampleValues)]

	c.kind = inferKind(c.values)
	if c.kind == kindNumber {
		c.fractional = slices.ContainsFunc(c.values, func(v string) bool {
			return strings.Contains(v, ".")
		})
	}
	if c.kind != kindBool && !c.fractional {
		c.temporal, c.timeFormat = MatchTimeValues(head)
	}

	c.assignRole(len(rows))
	if c.role == roleDimension && !c.temporal && IsTimeName(c.header) {
		c.temporal = true
	}
	return c
}

// assignRole decides whether the column groups (axis), aggregates (measure)
// or is noise. Temporal columns always group, even when every value differs.
func (c *column) assignRole(rows int) {
	uniquePerRow := c.distinct == rows && rows > identifierMinRows

	switch {
	case c.temporal, c.kind == kindBool:
		c.role = roleDimension

	case c.fractional:
		c.role = roleMeasure

	case uniquePerRow:
		c.skip("Unique per row, likely an identifier", false)

	case c.kind == kindNumber:
		// Few small integers (priority 1-5, rating) read as codes, not amounts.
		coded := c.distinct < codedMaxDistinct &&
			float64(c.distinct)/float64(rows) < codedMaxRatio
		if coded {
			c.role = roleDimension
		} else {
			c.role = roleMeasure
		}

	case c.distinct > rows/2 && c.distinct > freeTextMinDistinct:
		c.skip(fmt.Sprintf("High cardinality (%d unique values), too many to group by", c.distinct), true)

	default:
		c.role = roleDimension
	}
}

func (c *column) skip(reason string, recoverable bool) {
	c.role = roleSkipped
	c.skipReason = reason
	c.recoverable = recoverable
}

func (c *column) dimension() DimensionMeta {
	return DimensionMeta{
		Key:             c.key,
		DisplayName:     toDisplayName(c.header),
		SampleValues:    c.samples,
		UniqueCount:     c.distinct,
		IsTemporal:      c.temporal,
		TemporalFormat:  c.timeFormat,
		CardinalityHint: cardinalityHint(c.distinct),
	}
}

func cardinalityHint(distinct int) string {
	switch {
	case distinct <= 10:
		return "low"
	case distinct <= 100:
		return "medium"
	}
	return "high"
}

// inferKind needs kindMatchRatio of the cells to agree before leaving text.
func inferKind(values []string) valueKind {
	var bools, numbers int
	for _, v := range values {
		if isBoolToken(v) {
			bools++
		}
		if _, ok := ParseNumber(v); ok {
			numbers++
		}
	}

	need := kindMatchRatio * float64(len(values))
	switch {
	case float64(bools) >= need:
		return kindBool
	case float64(numbers) >= need:
		return kindNumber
	}
	return kindText
}

func isBoolToken(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no", "1", "0":
		return true
	}
	return false
}

// ParseNumber parses a numeric cell, accepting thousands separators and a
// leading currency symbol ("$1,234.56", "-€12").
func ParseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	for _, sym := range []string{"$", "€", "£"} {
		s = strings.TrimPrefix(s, sym)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if negative {
		f = -f
	}
	return f, true
}

// IsNullToken reports whether a raw cell means "no value".
func IsNullToken(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "null", "NULL", "N/A", "n/a":
		return true
	}
	return false
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ============================================================================
// HIERARCHIES
// ============================================================================

// linkHierarchies converts axis columns to dimensions and sets Parent where
// one axis functionally determines another. Among valid parents the one with
// the most distinct values (the closest level) wins; ties keep column order.
// Recovered columns and columns unique on every row take no part: any axis
// trivially determines them.
func linkHierarchies(axes []*column, rows [][]string) []DimensionMeta {
	out := make([]DimensionMeta, len(axes))
	for i, a := range axes {
		out[i] = a.dimension()
	}

	for i, child := range axes {
		if child.recovered || child.distinct >= len(child.values) {
			continue
		}
		best := -1
		for j, parent := range axes {
			if i == j || parent.recovered || parent.distinct >= child.distinct {
				continue
			}
			if best >= 0 && parent.distinct <= axes[best].distinct {
				continue
			}
			if determines(rows, child.index, parent.index) {
				best = j
			}
		}
		if best >= 0 {
			out[i].Parent = axes[best].key
		}
	}
	return out
}

// determines reports whether each child value co-occurs with exactly one
// parent value, over at least two child values.
func determines(rows [][]string, child, parent int) bool {
	parentOf := make(map[string]string)
	for _, row := range rows {
		c, p := cell(row, child), cell(row, parent)
		if IsNullToken(c) || IsNullToken(p) {
			continue
		}
		if prev, ok := parentOf[c]; ok && prev != p {
			return false
		}
		parentOf[c] = p
	}
	return len(parentOf) > 1
}

// ============================================================================
// NAMES
// ============================================================================

// ColumnKey returns the record key discovery assigns to a header.
func ColumnKey(header string) string {
	return toSnakeCase(strings.TrimSpace(header))
}

// toSnakeCase maps "Unit Price", "unitPrice" and "unit-price" to "unit_price".
func toSnakeCase(s string) string {
	var b strings.Builder
	var prev rune
	for _, r := range s {
		switch {
		case r == ' ' || r == '-':
			r = '_'
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
		prev = r
	}
	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '_' })
	return strings.Join(parts, "_")
}

// toDisplayName title-cases key-like headers ("unit_price" → "Unit Price").
// Headers that already contain spaces are kept as written.
func toDisplayName(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, " ") {
		return s
	}
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
