package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()

	inputs, err := parser.LoadFromFile("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Nil(t, inputs, "Should return nil inputs")
	assert.Contains(t, err.Error(), "failed to read file", "Should have specific error message")
}

func TestInputParser_LoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	invalidFile := filepath.Join(tmpDir, "invalid.yaml")

	err := os.WriteFile(invalidFile, []byte("invalid: yaml: content: [unclosed"), 0644)
	require.NoError(t, err)

	inputs, err := NewInputParser().LoadFromFile(invalidFile)

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Nil(t, inputs)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestInputParser_LoadFromFile_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	validFile := filepath.Join(tmpDir, "inputs.yaml")

	validYAML := `
coverage_tier: two_party
age_group: 55_plus
tax_rate_percent: 24
hsa_contribution: 4000
fsa_contribution: 1200.50
category_estimates:
  - category_id: office_visit_pcp
    in_network:
      quantity: 3
      cost_per_visit: 150
    out_network:
      quantity: 1
      cost_per_visit: 220
    notes: "Checkups"
  - category_id: prescription_generic
    in_network:
      quantity: 12
      cost_per_visit: 18.75
`
	require.NoError(t, os.WriteFile(validFile, []byte(validYAML), 0644))

	inputs, err := NewInputParser().LoadFromFile(validFile)
	require.NoError(t, err)

	assert.Equal(t, domain.TierTwoParty, inputs.CoverageTier)
	assert.Equal(t, domain.Age55Plus, inputs.AgeGroup)
	assert.True(t, decimal.NewFromInt(24).Equal(inputs.TaxRatePercent))
	assert.True(t, decimal.RequireFromString("1200.50").Equal(inputs.FSAContribution))
	require.Len(t, inputs.CategoryEstimates, 2)
	assert.Equal(t, "office_visit_pcp", inputs.CategoryEstimates[0].CategoryID)
	assert.Equal(t, 3, inputs.CategoryEstimates[0].InNetwork.Quantity)
	assert.Equal(t, 1, inputs.CategoryEstimates[0].OutNetwork.Quantity)
	assert.Equal(t, "Checkups", inputs.CategoryEstimates[0].Notes)
	assert.True(t, decimal.RequireFromString("18.75").Equal(inputs.CategoryEstimates[1].InNetwork.CostPerVisit))
	assert.Equal(t, 0, inputs.CategoryEstimates[1].OutNetwork.Quantity)
}

func TestInputParser_Parse_AppliesDefaults(t *testing.T) {
	inputs, err := NewInputParser().Parse([]byte("hsa_contribution: 100\n"))
	require.NoError(t, err)

	assert.Equal(t, domain.TierSingle, inputs.CoverageTier)
	assert.Equal(t, domain.AgeUnder55, inputs.AgeGroup)
	assert.True(t, decimal.NewFromInt(22).Equal(inputs.TaxRatePercent))
}

func TestInputParser_ValidateInputs(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*domain.UserInputs)
		expectedErr string
	}{
		{
			name:        "unknown tier",
			mutate:      func(ui *domain.UserInputs) { ui.CoverageTier = "household" },
			expectedErr: "coverage tier must be",
		},
		{
			name:        "unknown age group",
			mutate:      func(ui *domain.UserInputs) { ui.AgeGroup = "65_plus" },
			expectedErr: "age group must be",
		},
		{
			name:        "tax rate above 100",
			mutate:      func(ui *domain.UserInputs) { ui.TaxRatePercent = decimal.NewFromInt(101) },
			expectedErr: "tax rate percent must be between 0 and 100",
		},
		{
			name:        "negative tax rate",
			mutate:      func(ui *domain.UserInputs) { ui.TaxRatePercent = decimal.NewFromInt(-1) },
			expectedErr: "tax rate percent must be between 0 and 100",
		},
		{
			name:        "negative HSA contribution",
			mutate:      func(ui *domain.UserInputs) { ui.HSAContribution = decimal.NewFromInt(-5) },
			expectedErr: "HSA contribution cannot be negative",
		},
		{
			name:        "negative FSA contribution",
			mutate:      func(ui *domain.UserInputs) { ui.FSAContribution = decimal.NewFromInt(-5) },
			expectedErr: "FSA contribution cannot be negative",
		},
		{
			name: "missing category id",
			mutate: func(ui *domain.UserInputs) {
				ui.CategoryEstimates = []domain.CategoryEstimate{{InNetwork: domain.NetworkUtilization{Quantity: 1}}}
			},
			expectedErr: "category id is required",
		},
		{
			name: "negative quantity",
			mutate: func(ui *domain.UserInputs) {
				ui.CategoryEstimates = []domain.CategoryEstimate{{CategoryID: "lab_work", OutNetwork: domain.NetworkUtilization{Quantity: -1}}}
			},
			expectedErr: "Out-of-Network quantity cannot be negative",
		},
		{
			name: "quantity above visit limit",
			mutate: func(ui *domain.UserInputs) {
				ui.CategoryEstimates = []domain.CategoryEstimate{{CategoryID: "lab_work", InNetwork: domain.NetworkUtilization{Quantity: domain.MaxVisitsPerNetwork + 1, CostPerVisit: decimal.NewFromInt(150)}}}
			},
			expectedErr: "In-Network quantity cannot exceed 10000",
		},
		{
			name: "negative cost",
			mutate: func(ui *domain.UserInputs) {
				ui.CategoryEstimates = []domain.CategoryEstimate{{CategoryID: "lab_work", InNetwork: domain.NetworkUtilization{Quantity: 1, CostPerVisit: decimal.NewFromInt(-10)}}}
			},
			expectedErr: "In-Network cost per visit cannot be negative",
		},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs := domain.DefaultUserInputs()
			tt.mutate(&inputs)

			err := parser.ValidateInputs(&inputs)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestUnknownCategories(t *testing.T) {
	catalog := &domain.PlanCatalog{
		Categories: map[string]domain.Category{"lab_work": {Name: "Lab Work"}},
	}
	inputs := &domain.UserInputs{
		CategoryEstimates: []domain.CategoryEstimate{
			{CategoryID: "lab_work"},
			{CategoryID: "acupuncture"},
			{CategoryID: "acupuncture"},
			{CategoryID: "chiropractic"},
		},
	}

	assert.Equal(t, []string{"acupuncture", "chiropractic"}, UnknownCategories(inputs, catalog))
}

func TestInputParser_ExampleInputsFile(t *testing.T) {
	inputs, err := NewInputParser().LoadFromFile(filepath.Join("..", "..", "examples", "inputs.yaml"))
	require.NoError(t, err)

	assert.Equal(t, domain.TierSingle, inputs.CoverageTier)
	assert.Len(t, inputs.CategoryEstimates, 5)
}
