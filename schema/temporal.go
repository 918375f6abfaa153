package schema

import (
	"regexp"
	"strings"
)

// ============================================================================
// TEMPORAL FIELDS — Shared by discovery and profiling
// ============================================================================
// A field is temporal when its name mentions a time unit, or when enough of
// its leading values look like date literals. Discovery and the profiler read
// the same keywords, patterns and ratio.
// ============================================================================

const (
	// TimeSampleSize bounds how many leading rows value matching reads.
	TimeSampleSize = 50
	// TimeMatchRatio is the share of sampled values that must match.
	TimeMatchRatio = 0.6
)

// TimeKeywords mark a field as temporal by name or caption.
var TimeKeywords = []string{
	"date", "time", "year", "month", "day", "week", "quarter", "period", "timestamp",
}

type timeFamily struct {
	format string
	re     *regexp.Regexp
}

var timeFamilies = []timeFamily{
	// 2024-03-01, 2024-03, 2024-03-01T10:00:00Z
	{"iso", regexp.MustCompile(`^\d{4}-\d{1,2}(-\d{1,2})?([T ]\d{1,2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:?\d{2})?)?$`)},
	// 03/01/2024, 3/1/24
	{"us-date", regexp.MustCompile(`^\d{1,2}/\d{1,2}/(\d{2}|\d{4})$`)},
	// 01-03-2024, 01.03.2024, 2024/03/01
	{"alt-date", regexp.MustCompile(`^(\d{1,2}[-.]\d{1,2}[-.](\d{2}|\d{4})|\d{4}/\d{1,2}/\d{1,2})$`)},
	// Jan, January 2024, Sep-24
	{"month", regexp.MustCompile(`(?i)^(jan(uary)?|feb(ruary)?|mar(ch)?|apr(il)?|may|june?|july?|aug(ust)?|sep(t(ember)?)?|oct(ober)?|nov(ember)?|dec(ember)?)\b`)},
	// Mon, Tuesday
	{"weekday", regexp.MustCompile(`(?i)^(mon(day)?|tue(s(day)?)?|wed(nesday)?|thu(r(s(day)?)?)?|fri(day)?|sat(urday)?|sun(day)?)\b`)},
	// Q1 2024, Q3-2024, 2024 Q1
	{"quarter", regexp.MustCompile(`(?i)^(q[1-4][\s\-/]*\d{4}|\d{4}[\s\-/]*q[1-4])$`)},
	// H1 2024, FY2024, FY24
	{"half-fiscal", regexp.MustCompile(`(?i)^(h[12][\s\-/]*\d{2,4}|fy[\s\-/]*\d{2,4}|\d{4}[\s\-/]*h[12])$`)},
	{"year", regexp.MustCompile(`^(1[89]|20|21)\d{2}$`)},
	// Spring 2024, Fall-23
	{"season", regexp.MustCompile(`(?i)^(spring|summer|autumn|fall|winter)[\s\-/]*(\d{2}|\d{4})$`)},
}

// IsTimeName reports whether any of the names contains a time keyword.
func IsTimeName(names ...string) bool {
	for _, n := range names {
		n = strings.ToLower(n)
		if n == "" {
			continue
		}
		for _, k := range TimeKeywords {
			if strings.Contains(n, k) {
				return true
			}
		}
	}
	return false
}

// TimeFormat returns the family a single value belongs to.
func TimeFormat(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	for _, f := range timeFamilies {
		if f.re.MatchString(v) {
			return f.format, true
		}
	}
	return "", false
}

// MatchTimeValues reports whether at least TimeMatchRatio of the non-null
// values are date literals, and names the most frequent family. Callers pass
// values from the first TimeSampleSize rows.
func MatchTimeValues(values []string) (bool, string) {
	counts := make(map[string]int)
	valid, matched := 0, 0
	for _, v := range values {
		if IsNullToken(v) {
			continue
		}
		valid++
		if format, ok := TimeFormat(v); ok {
			matched++
			counts[format]++
		}
	}
	if valid == 0 || float64(matched)/float64(valid) < TimeMatchRatio {
		return false, ""
	}

	best := ""
	for _, f := range timeFamilies {
		if counts[f.format] > counts[best] {
			best = f.format
		}
	}
	return true, best
}
