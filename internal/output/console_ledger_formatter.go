package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleLedgerFormatter renders the itemized ledger as plain text.
type ConsoleLedgerFormatter struct{}

func (c ConsoleLedgerFormatter) Name() string { return "console" }

func (c ConsoleLedgerFormatter) Format(report *LedgerReport) ([]byte, error) {
	var buf bytes.Buffer
	result := report.Result
	ledger := result.Ledger

	fmt.Fprintln(&buf, strings.Repeat("=", 96))
	fmt.Fprintf(&buf, "%s: %s (%s)\n", ledgerTitle(report), result.PlanName, result.PlanType)
	fmt.Fprintln(&buf, strings.Repeat("=", 96))
	if report.Branding.CompanyName != "" {
		fmt.Fprintf(&buf, "Employer:      %s\n", report.Branding.CompanyName)
	}
	fmt.Fprintf(&buf, "Coverage Tier: %s\n", report.CoverageTier)
	fmt.Fprintf(&buf, "Age Group:     %s\n", report.AgeGroup)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "CONTRIBUTIONS & SAVINGS")
	fmt.Fprintln(&buf, strings.Repeat("-", 96))
	writeLineItems(&buf, ledger.ContributionsAndSavings)
	subtotalLine(&buf, "Subtotal", ledger.ContributionsTotal())
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "PREMIUMS")
	fmt.Fprintln(&buf, strings.Repeat("-", 96))
	writeLineItems(&buf, ledger.Premiums)
	subtotalLine(&buf, "Subtotal", ledger.PremiumsTotal())
	fmt.Fprintln(&buf)

	writeExpenses(&buf, "IN-NETWORK EXPENSES", ledger.InNetworkExpenses)
	subtotalLine(&buf, "Subtotal", ledger.InNetworkTotal())
	fmt.Fprintln(&buf)

	writeExpenses(&buf, "OUT-OF-NETWORK EXPENSES", ledger.OutOfNetworkExpenses)
	subtotalLine(&buf, "Subtotal", ledger.OutOfNetworkTotal())
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, strings.Repeat("=", 96))
	subtotalLine(&buf, "TOTAL ANNUAL COST", result.TotalCost)
	subtotalLine(&buf, "Monthly equivalent", result.TotalCost.Div(decimal.NewFromInt(12)))
	if result.ReachedOutOfPocketMax {
		fmt.Fprintln(&buf, "Out-of-pocket maximum reached: further covered care this year costs nothing.")
	}

	return buf.Bytes(), nil
}

func ledgerTitle(report *LedgerReport) string {
	if report.Branding.Title != "" {
		return report.Branding.Title
	}
	return fmt.Sprintf("%d Plan Cost Ledger", report.CoverageYear)
}

func writeLineItems(buf *bytes.Buffer, items []domain.LedgerLineItem) {
	if len(items) == 0 {
		fmt.Fprintln(buf, "  (none)")
		return
	}
	for _, item := range items {
		amount := FormatCurrency(item.Amount)
		if item.Informational {
			amount = "(" + amount + ")"
		}
		fmt.Fprintf(buf, "  %-40s %15s  %s\n", item.Label, amount, item.Notes)
	}
}

func writeExpenses(buf *bytes.Buffer, title string, entries []domain.ExpenseEntry) {
	fmt.Fprintln(buf, title)
	fmt.Fprintln(buf, strings.Repeat("-", 96))
	if len(entries) == 0 {
		fmt.Fprintln(buf, "  (none)")
		return
	}
	fmt.Fprintf(buf, "  %-30s %11s %11s %11s %11s %11s\n", "Service", "Billed", "You Pay", "Plan Pays", "Ded. Left", "OOP Left")
	for _, e := range entries {
		fmt.Fprintf(buf, "  %-30s %11s %11s %11s %11s %11s\n",
			truncate(e.DisplayName, 30),
			FormatCurrency(e.BilledAmount),
			FormatCurrency(e.EmployeeResponsibility),
			FormatCurrency(e.InsuranceResponsibility),
			FormatCurrency(e.DeductibleRemaining),
			FormatCurrency(e.OutOfPocketRemaining))
		if detail := expenseDetail(e); detail != "" {
			fmt.Fprintf(buf, "      %s\n", detail)
		}
	}
}

// expenseDetail explains how the employee share was built
func expenseDetail(e domain.ExpenseEntry) string {
	var parts []string
	if e.DeductibleApplied.IsPositive() {
		parts = append(parts, "deductible "+FormatCurrency(e.DeductibleApplied))
	}
	if e.CopayApplied.IsPositive() {
		parts = append(parts, "copay "+FormatCurrency(e.CopayApplied))
	}
	if e.CoinsuranceApplied.IsPositive() {
		parts = append(parts, "coinsurance "+FormatCurrency(e.CoinsuranceApplied))
	}
	if e.Notes != "" {
		parts = append(parts, e.Notes)
	}
	return strings.Join(parts, "; ")
}

func subtotalLine(buf *bytes.Buffer, label string, amount decimal.Decimal) {
	fmt.Fprintf(buf, "  %-40s %15s\n", label, FormatCurrency(amount))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
