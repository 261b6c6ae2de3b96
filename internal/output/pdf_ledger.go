package output

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// PDFLedgerFormatter renders the ledger report as a printable A4 document
type PDFLedgerFormatter struct {
	// Now stamps the generation date; defaults to time.Now
	Now func() time.Time
}

func (p PDFLedgerFormatter) Name() string { return "pdf" }

func (p PDFLedgerFormatter) Format(report *LedgerReport) ([]byte, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	r := &pdfLedgerReport{
		pdf:    fpdf.New("P", "mm", "A4", ""),
		report: report,
	}
	r.tr = r.pdf.UnicodeTranslatorFromDescriptor("")
	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)
	r.pdf.SetTitle(r.tr(ledgerTitle(report)), false)
	r.pdf.SetCreator("plancost", false)

	r.pdf.AddPage()
	r.addHeader(now())
	r.addSummary()
	r.addLineItems("Contributions & Savings", report.Result.Ledger.ContributionsAndSavings, report.Result.Ledger.ContributionsTotal())
	r.addLineItems("Premiums", report.Result.Ledger.Premiums, report.Result.Ledger.PremiumsTotal())
	r.addExpenses("In-Network Expenses", report.Result.Ledger.InNetworkExpenses, report.Result.Ledger.InNetworkTotal())
	r.addExpenses("Out-of-Network Expenses", report.Result.Ledger.OutOfNetworkExpenses, report.Result.Ledger.OutOfNetworkTotal())
	r.addTotal()

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

type pdfLedgerReport struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	report *LedgerReport
}

func (r *pdfLedgerReport) addHeader(generated time.Time) {
	r.pdf.SetFont("Arial", "B", 18)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 10, r.tr(ledgerTitle(r.report)), "", 1, "L", false, 0, "")

	r.pdf.SetFont("Arial", "", 12)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.CellFormat(contentWidth, 7, r.tr(fmt.Sprintf("%s (%s)", r.report.Result.PlanName, r.report.Result.PlanType)), "", 1, "L", false, 0, "")

	r.pdf.SetFont("Arial", "I", 9)
	meta := fmt.Sprintf("Coverage tier: %s   Age group: %s   Generated: %s",
		r.report.CoverageTier, r.report.AgeGroup, generated.Format("2 January 2006"))
	if r.report.Branding.CompanyName != "" {
		meta = r.report.Branding.CompanyName + "   " + meta
	}
	r.pdf.CellFormat(contentWidth, 6, r.tr(meta), "", 1, "L", false, 0, "")
	r.pdf.Ln(4)
}

func (r *pdfLedgerReport) addSummary() {
	result := r.report.Result
	rows := []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Annual premiums", result.AnnualPremiums},
		{"Out-of-pocket costs", result.OutOfPocketCosts},
		{"Tax savings", result.TaxSavings.Neg()},
		{"Employer contribution", result.EmployerContribution.Neg()},
	}

	r.sectionTitle("Summary")
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
	for _, row := range rows {
		r.amountRow(row.label, row.amount)
	}
	r.pdf.Ln(4)
}

func (r *pdfLedgerReport) addLineItems(title string, items []domain.LedgerLineItem, subtotal decimal.Decimal) {
	r.sectionTitle(title)
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
	if len(items) == 0 {
		r.pdf.CellFormat(contentWidth, 6, "(none)", "", 1, "L", false, 0, "")
	}
	for _, item := range items {
		amount := FormatCurrency(item.Amount)
		if item.Informational {
			amount = "(" + amount + ")"
		}
		r.pdf.CellFormat(70, 6, r.tr(item.Label), "", 0, "L", false, 0, "")
		r.pdf.CellFormat(30, 6, amount, "", 0, "R", false, 0, "")
		r.pdf.CellFormat(contentWidth-100, 6, r.tr(item.Notes), "", 1, "L", false, 0, "")
	}
	r.subtotal(subtotal)
}

func (r *pdfLedgerReport) addExpenses(title string, entries []domain.ExpenseEntry, subtotal decimal.Decimal) {
	r.sectionTitle(title)
	if len(entries) == 0 {
		r.pdf.SetFont("Arial", "", 10)
		r.pdf.CellFormat(contentWidth, 6, "(none)", "", 1, "L", false, 0, "")
		r.subtotal(subtotal)
		return
	}

	widths := []float64{60, 24, 24, 24, 24, 24}
	headers := []string{"Service", "Billed", "You Pay", "Plan Pays", "Ded. Left", "OOP Left"}

	r.pdf.SetFont("Arial", "B", 9)
	r.pdf.SetFillColor(230, 236, 245)
	for i, h := range headers {
		align := "R"
		if i == 0 {
			align = "L"
		}
		r.pdf.CellFormat(widths[i], 6, h, "B", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)

	r.pdf.SetFont("Arial", "", 9)
	for i, e := range entries {
		fill := i%2 == 1
		r.pdf.SetFillColor(245, 247, 250)
		r.pdf.CellFormat(widths[0], 5.5, r.tr(truncate(e.DisplayName, 34)), "", 0, "L", fill, 0, "")
		r.pdf.CellFormat(widths[1], 5.5, FormatCurrency(e.BilledAmount), "", 0, "R", fill, 0, "")
		r.pdf.CellFormat(widths[2], 5.5, FormatCurrency(e.EmployeeResponsibility), "", 0, "R", fill, 0, "")
		r.pdf.CellFormat(widths[3], 5.5, FormatCurrency(e.InsuranceResponsibility), "", 0, "R", fill, 0, "")
		r.pdf.CellFormat(widths[4], 5.5, FormatCurrency(e.DeductibleRemaining), "", 0, "R", fill, 0, "")
		r.pdf.CellFormat(widths[5], 5.5, FormatCurrency(e.OutOfPocketRemaining), "", 1, "R", fill, 0, "")
	}
	r.subtotal(subtotal)
}

func (r *pdfLedgerReport) addTotal() {
	result := r.report.Result
	r.pdf.Ln(2)
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY(), marginLeft+contentWidth, r.pdf.GetY())
	r.pdf.Ln(2)

	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.amountRow("Total annual cost", result.TotalCost)
	r.pdf.SetFont("Arial", "", 10)
	r.amountRow("Monthly equivalent", result.TotalCost.Div(decimal.NewFromInt(12)))

	if result.ReachedOutOfPocketMax {
		r.pdf.Ln(3)
		r.pdf.SetFont("Arial", "I", 9)
		r.pdf.SetTextColor(120, 120, 120)
		r.pdf.MultiCell(contentWidth, 4.5,
			"Your estimated expenses reach the out-of-pocket maximum on this plan. Additional covered care this year would be paid in full by the plan.",
			"", "L", false)
	}
}

func (r *pdfLedgerReport) sectionTitle(title string) {
	r.pdf.SetFont("Arial", "B", 11)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 7, r.tr(title), "", 1, "L", false, 0, "")
	r.pdf.SetTextColor(50, 50, 50)
}

func (r *pdfLedgerReport) amountRow(label string, amount decimal.Decimal) {
	r.pdf.CellFormat(70, 6, r.tr(label), "", 0, "L", false, 0, "")
	r.pdf.CellFormat(30, 6, FormatCurrency(amount), "", 1, "R", false, 0, "")
}

func (r *pdfLedgerReport) subtotal(amount decimal.Decimal) {
	r.pdf.SetFont("Arial", "B", 10)
	r.amountRow("Subtotal", amount)
	r.pdf.Ln(3)
}
