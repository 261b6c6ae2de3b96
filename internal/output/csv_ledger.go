package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVLedgerFormatter flattens every ledger section into one CSV table
type CSVLedgerFormatter struct{}

func (c CSVLedgerFormatter) Name() string { return "csv" }

func (c CSVLedgerFormatter) Format(report *LedgerReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"Section", "Item", "Network", "Billed", "Deductible", "Copay", "Coinsurance", "Amount", "Plan Pays", "Counts Toward Total", "Notes"})

	ledger := report.Result.Ledger
	for _, item := range ledger.ContributionsAndSavings {
		_ = w.Write(lineItemRow("Contributions & Savings", item))
	}
	for _, item := range ledger.Premiums {
		_ = w.Write(lineItemRow("Premiums", item))
	}
	for _, e := range ledger.InNetworkExpenses {
		_ = w.Write(expenseRow("In-Network Expenses", e))
	}
	for _, e := range ledger.OutOfNetworkExpenses {
		_ = w.Write(expenseRow("Out-of-Network Expenses", e))
	}
	_ = w.Write([]string{"Total", report.Result.PlanName, "", "", "", "", "", report.Result.TotalCost.StringFixed(2), "", "true", ""})

	w.Flush()
	return buf.Bytes(), w.Error()
}

func lineItemRow(section string, item domain.LedgerLineItem) []string {
	return []string{section, item.Label, "", "", "", "", "", item.Amount.StringFixed(2), "", strconv.FormatBool(!item.Informational), item.Notes}
}

func expenseRow(section string, e domain.ExpenseEntry) []string {
	return []string{
		section,
		e.DisplayName,
		e.Network.String(),
		e.BilledAmount.StringFixed(2),
		e.DeductibleApplied.StringFixed(2),
		e.CopayApplied.StringFixed(2),
		e.CoinsuranceApplied.StringFixed(2),
		e.EmployeeResponsibility.StringFixed(2),
		decimal.Max(e.InsuranceResponsibility, decimal.Zero).StringFixed(2),
		"true",
		e.Notes,
	}
}
