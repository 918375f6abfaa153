package schema

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// DISCOVERY TESTS
// ============================================================================

// Sample Jira CSV export
var jiraCSV = []byte(`Issue Key,Summary,Status,Priority,Issue Type,Assignee,Component,Sprint,Story Points,Time Spent Hours,Created,Resolved
PROJ-101,Login timeout on mobile,In Progress,P1 - Critical,Bug,alice@corp.com,Backend,Sprint 17,5,12.5,2026-01-15,
PROJ-102,Dashboard crash on Safari,To Do,P2 - High,Bug,bob@corp.com,Frontend,Sprint 17,3,0,2026-01-16,
PROJ-103,Add dark mode toggle,Done,P3 - Medium,Story,charlie@corp.com,Frontend,Sprint 16,8,16,2026-01-10,2026-01-20
PROJ-104,Update user docs,In Review,P4 - Low,Task,alice@corp.com,Documentation,Sprint 17,2,4,2026-01-18,
PROJ-105,Payment fails with expired card,In Progress,P1 - Critical,Bug,dave@corp.com,Backend,Sprint 17,8,20,2026-01-12,
PROJ-106,Optimize DB queries,Done,P2 - High,Task,eve@corp.com,Backend,Sprint 16,5,10,2026-01-08,2026-01-15
PROJ-107,Mobile push notifications,To Do,P2 - High,Story,frank@corp.com,Mobile,Sprint 18,13,0,2026-01-20,
PROJ-108,Fix memory leak in worker,In Progress,P1 - Critical,Bug,alice@corp.com,Infrastructure,Sprint 17,5,8,2026-01-14,
PROJ-109,Redesign settings page,Done,P3 - Medium,Story,bob@corp.com,Frontend,Sprint 15,8,14,2026-01-05,2026-01-12
PROJ-110,API rate limiting,Done,P2 - High,Story,charlie@corp.com,Backend,Sprint 16,5,9,2026-01-09,2026-01-18
PROJ-111,Add export to CSV,To Do,P3 - Medium,Story,dave@corp.com,Backend,Sprint 18,3,0,2026-01-22,
PROJ-112,Update SSL certs,Done,P1 - Critical,Task,eve@corp.com,Infrastructure,Sprint 16,1,2,2026-01-07,2026-01-07
`)

// Sample Finance CSV
var financeCSV = []byte(`Month,Location,Category,Field,Currency,Amount
Jan-2026,Singapore,Income,Salary,SGD,8500.00
Jan-2026,Singapore,Expense,Rent,SGD,2200.00
Jan-2026,Singapore,Expense,Groceries,SGD,450.00
Jan-2026,Singapore,Expense,Transport,SGD,120.00
Jan-2026,India,Income,Rental Income,INR,25000.00
Jan-2026,India,Expense,Property Tax,INR,5000.00
Feb-2026,Singapore,Income,Salary,SGD,8500.00
Feb-2026,Singapore,Expense,Rent,SGD,2200.00
Feb-2026,Singapore,Expense,Internet,SGD,49.90
Feb-2026,India,Transfer,ToIndia,INR,50000.00
`)

func TestDiscoverJiraCSV(t *testing.T) {
	config, err := DiscoverFromCSV(jiraCSV)
	require.NoError(t, err)

	dimKeys := config.DimensionKeys()
	for _, key := range []string{"status", "priority", "issue_type", "component", "sprint"} {
		assert.Contains(t, dimKeys, key, "%s should be a dimension", key)
	}

	measKeys := config.MeasureKeys()
	assert.Contains(t, measKeys, "story_points")
	assert.Contains(t, measKeys, "time_spent_hours")
	assert.NotContains(t, measKeys, RecordCountKey, "numeric columns exist, no synthetic count expected")

	skipped := make(map[string]SkippedColumn)
	for _, s := range config.SkippedColumns {
		skipped[s.Column] = s
	}
	require.Contains(t, skipped, "Issue Key")
	require.Contains(t, skipped, "Summary")
	assert.False(t, skipped["Issue Key"].Recoverable, "unique IDs are not recoverable")

	for _, d := range config.Dimensions {
		if d.Key == "created" {
			assert.True(t, d.IsTemporal, "Created holds ISO dates")
		}
	}
}

func TestDiscoverFinanceCSV(t *testing.T) {
	config, err := DiscoverFromCSV(financeCSV)
	require.NoError(t, err)
	assert.Equal(t, "CSV", config.DiscoveredFrom)

	dimKeys := config.DimensionKeys()
	for _, key := range []string{"month", "location", "category", "field", "currency"} {
		assert.Contains(t, dimKeys, key)
	}
	assert.Equal(t, []string{"amount"}, config.MeasureKeys())

	for _, d := range config.Dimensions {
		switch d.Key {
		case "month":
			assert.True(t, d.IsTemporal, "Month should be temporal")
		case "field":
			assert.Equal(t, "category", d.Parent, "Field rolls up into Category")
		}
	}

	measures := config.PivotMeasures()
	require.Len(t, measures, 1)
	assert.Equal(t, AggSum, measures[0].Aggregation)
	assert.Equal(t, "Amount", measures[0].Caption)
}

func TestDiscoverWithRecovery(t *testing.T) {
	config, err := DiscoverFromCSV(jiraCSV, DiscoverOptions{
		RecoverColumns: []string{"Summary"},
		Name:           "Jira with Summary",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jira with Summary", config.Name)
	assert.Contains(t, config.DimensionKeys(), "summary")
	for _, s := range config.SkippedColumns {
		assert.NotEqual(t, "Summary", s.Column, "recovered column must not stay skipped")
	}
}

func TestDiscoverWithoutNumericColumns(t *testing.T) {
	data := []byte("Stage,Owner\nVisit,ann\nSignup,bob\nVisit,cid\nPurchase,ann\n")
	config, err := DiscoverFromCSV(data)
	require.NoError(t, err)

	measures := config.PivotMeasures()
	require.Len(t, measures, 1)
	assert.Equal(t, RecordCountKey, measures[0].UniqueName)
	assert.Equal(t, AggCount, measures[0].Aggregation)
}

func TestDiscoverErrors(t *testing.T) {
	_, err := DiscoverFromCSV([]byte(""))
	assert.Error(t, err)

	_, err = DiscoverFromCSV([]byte("a,b\n"))
	assert.ErrorIs(t, err, ErrNoDataRows)

	_, err = DiscoverFromRows(nil, [][]string{{"x"}})
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestSuggestLayoutUsesHierarchy(t *testing.T) {
	config, err := DiscoverFromCSV(financeCSV)
	require.NoError(t, err)

	rows, cols := config.SuggestLayout()
	require.Len(t, rows, 2)
	assert.Equal(t, "category", rows[0].UniqueName)
	assert.Equal(t, "field", rows[1].UniqueName)
	assert.Empty(t, cols)
}

func TestSuggestLayoutFlat(t *testing.T) {
	config := Config{Dimensions: []DimensionMeta{
		{Key: "product", DisplayName: "Product", UniqueCount: 40, CardinalityHint: "medium"},
		{Key: "region", DisplayName: "Region", UniqueCount: 4, CardinalityHint: "low"},
		{Key: "quarter", DisplayName: "Quarter", UniqueCount: 8, CardinalityHint: "low", IsTemporal: true},
	}}

	rows, cols := config.SuggestLayout()
	require.Len(t, rows, 1)
	assert.Equal(t, "quarter", rows[0].UniqueName, "temporal dimensions go on rows first")
	require.Len(t, cols, 1)
	assert.Equal(t, "region", cols[0].UniqueName)

	rows, cols = Config{}.SuggestLayout()
	assert.Nil(t, rows)
	assert.Nil(t, cols)
}

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Story Points", "story_points"},
		{"Issue Key", "issue_key"},
		{"issueType", "issue_type"},
		{"StoryPoints", "story_points"},
		{"Time Spent Hours", "time_spent_hours"},
		{"ID", "id"},
		{"created_at", "created_at"},
		{"Sprint", "sprint"},
	}

	for _, tt := range tests {
		got := toSnakeCase(tt.input)
		if got != tt.expected {
			t.Errorf("toSnakeCase(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"story_points", "Story Points"},
		{"Sprint", "Sprint"},
		{"Issue Type", "Issue Type"},
		{"time_spent_hours", "Time Spent Hours"},
	}

	for _, tt := range tests {
		got := toDisplayName(tt.input)
		if got != tt.expected {
			t.Errorf("toDisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDiscoverTemporalColumns(t *testing.T) {
	data := []byte(`Season,Half,Year,Region,Revenue
Spring 2024,H1 2024,2023,North,10.5
Summer 2024,H1 2024,2023,South,12.25
Fall 2024,H2 2024,2024,North,9.75
Winter 2024,H2 2024,2024,South,11.0
`)
	config, err := DiscoverFromCSV(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"season", "half", "year", "region"}, config.DimensionKeys())
	assert.Equal(t, []string{"revenue"}, config.MeasureKeys())

	byKey := make(map[string]DimensionMeta)
	for _, d := range config.Dimensions {
		byKey[d.Key] = d
	}
	assert.True(t, byKey["season"].IsTemporal)
	assert.Equal(t, "season", byKey["season"].TemporalFormat)
	assert.True(t, byKey["half"].IsTemporal)
	assert.Equal(t, "half-fiscal", byKey["half"].TemporalFormat)
	assert.True(t, byKey["year"].IsTemporal, "integer years group instead of summing")
	assert.False(t, byKey["region"].IsTemporal)
}

func TestDiscoverUniqueDecimalsStayMeasures(t *testing.T) {
	data := []byte("Account,Balance
")
	for i := 0; i < 20; i++ {
		data = append(data, []byte(fmt.Sprintf("acct-%d,%d.%02d\n", i%4, 100+i, i))...)
	}
	config, err := DiscoverFromCSV(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"balance"}, config.MeasureKeys())
	assert.Empty(t, config.SkippedColumns)
}

func TestDiscoverSkipsTrivialHierarchies(t *testing.T) {
	config, err := DiscoverFromCSV(jiraCSV)
	require.NoError(t, err)
	for _, d := range config.Dimensions {
		if d.Key == "created" {
			assert.Empty(t, d.Parent, "values unique per row have no meaningful parent")
		}
	}
}
