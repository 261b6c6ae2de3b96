package compare

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Rank",
		"Plan",
		"Type",
		"Coverage Tier",
		"Annual Premiums",
		"Out-of-Pocket Costs",
		"User Contribution",
		"Employer Contribution",
		"Tax Savings",
		"Total Cost",
		"Monthly Equivalent",
		"Diff from Lowest",
		"Reached OOP Max",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, r := range compSet.Results {
		if err := writer.Write(cf.formatRow(r, compSet)); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a single plan as CSV row
func (cf *CSVFormatter) formatRow(r ComparisonResult, compSet *ComparisonSet) []string {
	return []string{
		fmt.Sprintf("%d", r.Rank),
		r.Result.PlanName,
		string(r.Result.PlanType),
		string(compSet.CoverageTier),
		r.Result.AnnualPremiums.StringFixed(2),
		r.Result.OutOfPocketCosts.StringFixed(2),
		r.Result.UserContribution.StringFixed(2),
		r.Result.EmployerContribution.StringFixed(2),
		r.Result.TaxSavings.StringFixed(2),
		r.Result.TotalCost.StringFixed(2),
		r.MonthlyEquivCost.StringFixed(2),
		r.DiffFromLowest.StringFixed(2),
		fmt.Sprintf("%t", r.Result.ReachedOutOfPocketMax),
	}
}
