package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchTimeValues(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   bool
		format string
	}{
		{"month-year", []string{"Jan-2026", "Feb-2026", "Mar-2026"}, true, "month"},
		{"year-month", []string{"2025-01", "2025-02", "2025-03"}, true, "iso"},
		{"quarter", []string{"Q1-2026", "Q2-2026"}, true, "quarter"},
		{"years", []string{"2024", "2025", "2026"}, true, "year"},
		{"seasons", []string{"Spring 2024", "Summer 2024", "Fall-24"}, true, "season"},
		{"halves", []string{"H1 2024", "H2 2024", "FY2025"}, true, "half-fiscal"},
		{"mostly dates", []string{"2024-01-01", "2024-01-02", "2024-01-03", "North"}, true, "iso"},
		{"nulls ignored", []string{"2024-01-01", "n/a", "", "NULL"}, true, "iso"},
		{"sprints", []string{"Sprint 15", "Sprint 16", "Sprint 17"}, false, ""},
		{"words", []string{"Backend", "Frontend", "Mobile"}, false, ""},
		{"half words", []string{"2024-01-01", "North", "South"}, false, ""},
		{"empty", nil, false, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, format := MatchTimeValues(tc.values)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.format, format)
		})
	}
}

func TestIsTimeName(t *testing.T) {
	assert.True(t, IsTimeName("order_date"))
	assert.True(t, IsTimeName("c1", "Fiscal Quarter"))
	assert.False(t, IsTimeName("region", ""))
	assert.False(t, IsTimeName())
}

func TestTimeFormat(t *testing.T) {
	format, ok := TimeFormat(" 03/01/2024 ")
	assert.True(t, ok)
	assert.Equal(t, "us-date", format)

	_, ok = TimeFormat("")
	assert.False(t, ok)
}
