package compare

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/plancost/internal/output"
)

var (
	tableTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	tableHeaderStyle = lipgloss.NewStyle().Bold(true)
	lowestRowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

const tableWidth = 118

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a ranked table of every compared plan
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	title := compSet.Branding.Title
	if title == "" {
		title = fmt.Sprintf("%d Medical Plan Cost Comparison", compSet.CoverageYear)
	}
	sb.WriteString(tableTitleStyle.Render(strings.ToUpper(title)) + "\n")
	sb.WriteString(strings.Repeat("=", tableWidth) + "\n")
	if compSet.Branding.CompanyName != "" {
		sb.WriteString(fmt.Sprintf("Employer:      %s\n", compSet.Branding.CompanyName))
	}
	sb.WriteString(fmt.Sprintf("Coverage Year: %d\n", compSet.CoverageYear))
	sb.WriteString(fmt.Sprintf("Coverage Tier: %s\n", compSet.CoverageTier))
	if compSet.CatalogPath != "" {
		sb.WriteString(fmt.Sprintf("Catalog:       %s\n", compSet.CatalogPath))
	}
	if compSet.InputsPath != "" {
		sb.WriteString(fmt.Sprintf("Inputs:        %s\n", compSet.InputsPath))
	}
	sb.WriteString("\n")

	if len(compSet.Results) == 0 {
		sb.WriteString(mutedStyle.Render("No plans to compare.") + "\n")
		return sb.String()
	}

	sb.WriteString(tableHeaderStyle.Render(fmt.Sprintf("%-4s %-20s %-4s %12s %12s %12s %12s %12s %12s %12s",
		"Rank", "Plan", "Type", "Premiums", "Out-of-Pocket", "Tax Savings", "Employer", "Total Cost", "Per Month", "vs Lowest")) + "\n")
	sb.WriteString(strings.Repeat("-", tableWidth) + "\n")

	for _, r := range compSet.Results {
		row := tf.formatRow(r)
		if r.Rank == 1 {
			row = lowestRowStyle.Render(row)
		}
		sb.WriteString(row + "\n")
	}
	sb.WriteString(strings.Repeat("=", tableWidth) + "\n")

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", tableWidth) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single plan row
func (tf *TableFormatter) formatRow(r ComparisonResult) string {
	diff := "lowest"
	if r.Rank > 1 {
		diff = "+" + output.FormatCurrency(r.DiffFromLowest)
	}

	oop := output.FormatCurrency(r.Result.OutOfPocketCosts)
	if r.Result.ReachedOutOfPocketMax {
		oop = "*" + oop
	}

	return fmt.Sprintf("%-4d %-20s %-4s %12s %12s %12s %12s %12s %12s %12s",
		r.Rank,
		tf.truncate(r.Result.PlanName, 20),
		r.Result.PlanType,
		output.FormatCurrency(r.Result.AnnualPremiums),
		oop,
		output.FormatCurrency(r.Result.TaxSavings),
		output.FormatCurrency(r.Result.EmployerContribution),
		output.FormatCurrency(r.Result.TotalCost),
		output.FormatCurrency(r.MonthlyEquivCost),
		diff)
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary of the ranking
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%d %s | ", compSet.CoverageYear, compSet.CoverageTier))

	for i, r := range compSet.Results {
		if i > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(fmt.Sprintf("%d. %s: %s", r.Rank, r.Result.PlanName, output.FormatCurrency(r.Result.TotalCost)))
	}

	return sb.String()
}
