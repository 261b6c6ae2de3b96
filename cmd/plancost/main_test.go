package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exampleInputs = filepath.Join("..", "..", "examples", "inputs.yaml")

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()

	assert.Equal(t, "plancost", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	names := []string{}
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"compare", "ledger", "validate", "catalog", "whatif", "breakeven", "tui", "version"} {
		assert.Contains(t, names, expected)
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "compare")
	assert.Contains(t, out, "--catalog")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "plancost dev")
}

func TestCompareCommand_Table(t *testing.T) {
	out, err := execute(t, "compare", exampleInputs, "--year", "2025")

	require.NoError(t, err)
	assert.Contains(t, out, "2025 MEDICAL PLAN COST COMPARISON")
	assert.Contains(t, out, "Inputs:        "+exampleInputs)
	assert.Contains(t, out, "RECOMMENDATIONS")
	for _, plan := range []string{"Choice PPO", "Value PPO", "HSA Plus", "HSA Basic"} {
		assert.Contains(t, out, plan)
	}
}

func TestCompareCommand_CSVFilteredByType(t *testing.T) {
	out, err := execute(t, "compare", exampleInputs, "--year", "2025", "--format", "csv", "--type", "hsa")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, row := range records[1:] {
		assert.Equal(t, "HSA", row[2])
	}
}

func TestCompareCommand_JSONWithPlans(t *testing.T) {
	out, err := execute(t, "compare", "--year", "2025", "--format", "json", "--plans", "Choice PPO, HSA Basic")

	require.NoError(t, err)
	assert.Contains(t, out, `"planName": "Choice PPO"`)
	assert.Contains(t, out, `"planName": "HSA Basic"`)
	assert.NotContains(t, out, `"planName": "Value PPO"`)
}

func TestCompareCommand_Errors(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectedErr string
	}{
		{"unknown format", []string{"compare", "--format", "xml"}, "unsupported format: xml"},
		{"unknown plan", []string{"compare", "--plans", "Gold HMO"}, "plan Gold HMO not found"},
		{"missing inputs", []string{"compare", "missing.yaml"}, "failed to read file"},
		{"unknown year", []string{"compare", "--year", "1999"}, "no built-in catalog for 1999"},
		{"too many args", []string{"compare", "a.yaml", "b.yaml"}, "accepts at most 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestLedgerCommand_Console(t *testing.T) {
	out, err := execute(t, "ledger", exampleInputs, "--year", "2025", "--plan", "Choice PPO")

	require.NoError(t, err)
	assert.Contains(t, out, "Choice PPO (PPO)")
	assert.Contains(t, out, "CONTRIBUTIONS & SAVINGS")
	assert.Contains(t, out, "IN-NETWORK EXPENSES")
	assert.Contains(t, out, "Specialist Office Visit")
	assert.Contains(t, out, "TOTAL ANNUAL COST")
}

func TestLedgerCommand_DefaultsToLowestPlan(t *testing.T) {
	compareOut, err := execute(t, "compare", exampleInputs, "--year", "2025", "--format", "compact")
	require.NoError(t, err)
	// "2025 single | 1. <plan>: $x | ..."
	first := strings.SplitN(strings.SplitN(compareOut, "1. ", 2)[1], ":", 2)[0]

	out, err := execute(t, "ledger", exampleInputs, "--year", "2025")
	require.NoError(t, err)
	assert.Contains(t, out, first)
}

func TestLedgerCommand_WritesPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.pdf")

	out, err := execute(t, "ledger", exampleInputs, "--year", "2025", "--plan", "HSA Plus", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Ledger for HSA Plus written to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestLedgerCommand_SavesTimestampedFile(t *testing.T) {
	inputsPath, err := filepath.Abs(exampleInputs)
	require.NoError(t, err)

	tmpDir := t.TempDir()
	originalDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer os.Chdir(originalDir)

	out, err := execute(t, "ledger", inputsPath, "--year", "2025", "--plan", "Choice PPO", "--format", "text", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Ledger for Choice PPO written to ledger_report_")

	matches, err := filepath.Glob(filepath.Join(tmpDir, "ledger_report_*.txt"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Choice PPO (PPO)")
}

func TestLedgerCommand_FormatHelpListsAliases(t *testing.T) {
	out, err := execute(t, "ledger", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "console, csv, json, pdf; aliases text, txt")
}

func TestLedgerCommand_Errors(t *testing.T) {
	_, err := execute(t, "ledger", "--plan", "Nope")
	assert.ErrorContains(t, err, "plan Nope not found in catalog")

	_, err = execute(t, "ledger", "--format", "pdf")
	assert.ErrorContains(t, err, "use --output for PDF")

	_, err = execute(t, "ledger", "--format", "html", "--save")
	assert.ErrorContains(t, err, "unsupported format: html")

	_, err = execute(t, "ledger", "--output", filepath.Join(t.TempDir(), "ledger.docx"))
	assert.ErrorContains(t, err, "unsupported output extension")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", exampleInputs, "--year", "2025")

	require.NoError(t, err)
	assert.Contains(t, out, "Catalog built-in 2025 catalog is valid (4 plans)")
	assert.Contains(t, out, "Inputs file "+exampleInputs+" is valid (5 category estimates)")
}

func TestValidateCommand_InvalidCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("year: 2025\nplans:\n  - name: X\n    type: HMO\n"), 0644))

	_, err := execute(t, "validate", "--catalog", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog validation failed")
}

func TestCatalogCommand(t *testing.T) {
	out, err := execute(t, "catalog", "--year", "2025")

	require.NoError(t, err)
	assert.Contains(t, out, "Built-in catalogs: 2025, 2026")
	assert.Contains(t, out, "2025 plans (Example Employer)")
	assert.Contains(t, out, "Choice PPO")
	assert.Contains(t, out, "$145.00")
	assert.Contains(t, out, "Payroll tax: 6.20% Social Security, 1.45% Medicare")
}
