package compare

import (
	"encoding/csv"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestComparisonSet(t *testing.T) *ComparisonSet {
	t.Helper()
	compSet, err := NewCompareEngine(nil).Compare(createTestCatalog(), createTestInputs(), CompareOptions{})
	require.NoError(t, err)
	compSet.CatalogPath = "catalog.yaml"
	return compSet
}

func TestTableFormatter_Format(t *testing.T) {
	result := (&TableFormatter{}).Format(createTestComparisonSet(t))

	assert.Contains(t, result, "ACME 2025 MEDICAL PLANS")
	assert.Contains(t, result, "Employer:      Acme")
	assert.Contains(t, result, "Coverage Tier: single")
	assert.Contains(t, result, "Catalog:       catalog.yaml")
	assert.Contains(t, result, "Simple HSA")
	assert.Contains(t, result, "$903.50")
	assert.Contains(t, result, "+$1,096.50")
	assert.Contains(t, result, "lowest")
	assert.Contains(t, result, "RECOMMENDATIONS")
	assert.Contains(t, result, "Lowest Cost: Simple HSA")

	assert.Less(t, strings.Index(result, "Simple HSA"), strings.Index(result, "Simple PPO"),
		"cheapest plan should be listed first")
}

func TestTableFormatter_Format_NoPlans(t *testing.T) {
	compSet := &ComparisonSet{CoverageYear: 2026}

	result := (&TableFormatter{}).Format(compSet)

	assert.Contains(t, result, "2026 MEDICAL PLAN COST COMPARISON")
	assert.Contains(t, result, "No plans to compare.")
	assert.NotContains(t, result, "RECOMMENDATIONS")
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	result := (&TableFormatter{}).FormatCompact(createTestComparisonSet(t))

	assert.Equal(t, "2025 single | 1. Simple HSA: $903.50 | 2. Simple PPO: $2,000.00", result)
}

func TestTableFormatter_truncate(t *testing.T) {
	tf := &TableFormatter{}
	assert.Equal(t, "short", tf.truncate("short", 20))
	assert.Equal(t, "A Very Long Plan ...", tf.truncate("A Very Long Plan Name Indeed", 20))
}

func TestCSVFormatter_Format(t *testing.T) {
	result, err := (&CSVFormatter{}).Format(createTestComparisonSet(t))
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(result)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus one row per plan")

	assert.Equal(t, "Rank", records[0][0])
	assert.Equal(t, []string{"1", "Simple HSA", "HSA", "single", "600.00", "1600.00", "1000.00", "1000.00",
		"296.50", "903.50", "75.29", "0.00", "false"}, records[1])
	assert.Equal(t, "Simple PPO", records[2][1])
	assert.Equal(t, "1096.50", records[2][11])
}

func TestJSONFormatter_Format(t *testing.T) {
	compSet := createTestComparisonSet(t)

	tests := []struct {
		name   string
		pretty bool
	}{
		{name: "compact", pretty: false},
		{name: "pretty", pretty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := (&JSONFormatter{Pretty: tt.pretty}).Format(compSet)
			require.NoError(t, err)
			assert.Equal(t, tt.pretty, strings.Contains(result, "\n  "))

			var decoded map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(result), &decoded))
			assert.EqualValues(t, 2025, decoded["coverageYear"])
			assert.Equal(t, "single", decoded["coverageTier"])

			results, ok := decoded["results"].([]interface{})
			require.True(t, ok)
			require.Len(t, results, 2)
			first := results[0].(map[string]interface{})
			assert.EqualValues(t, 1, first["rank"])
		})
	}
}
