package domain

import (
	"github.com/shopspring/decimal"
)

// LedgerLineItem is a contribution, savings or premium line in a plan's ledger.
// Credits against cost are negative. Informational lines explain the math but
// are excluded from section totals.
type LedgerLineItem struct {
	Label         string          `json:"label"`
	Amount        decimal.Decimal `json:"amount"`
	Informational bool            `json:"informational,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// ExpenseEntry records how one billed occurrence was split between employee and insurer
type ExpenseEntry struct {
	CategoryID              string          `json:"categoryId"`
	DisplayName             string          `json:"displayName"`
	Network                 Network         `json:"network"`
	BilledAmount            decimal.Decimal `json:"billedAmount"`
	CopayApplied            decimal.Decimal `json:"copayApplied"`
	DeductibleApplied       decimal.Decimal `json:"deductibleApplied"`
	CoinsuranceApplied      decimal.Decimal `json:"coinsuranceApplied"`
	EmployeeResponsibility  decimal.Decimal `json:"employeeResponsibility"`
	InsuranceResponsibility decimal.Decimal `json:"insuranceResponsibility"`
	DeductibleRemaining     decimal.Decimal `json:"deductibleRemaining"`
	OutOfPocketRemaining    decimal.Decimal `json:"outOfPocketRemaining"`
	Notes                   string          `json:"notes,omitempty"`
}

// Ledger itemizes everything that makes up a plan's total cost
type Ledger struct {
	ContributionsAndSavings []LedgerLineItem `json:"contributionsAndSavings"`
	Premiums                []LedgerLineItem `json:"premiums"`
	InNetworkExpenses       []ExpenseEntry   `json:"inNetworkExpenses"`
	OutOfNetworkExpenses    []ExpenseEntry   `json:"outOfNetworkExpenses"`
}

func sumLineItems(items []LedgerLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Informational {
			continue
		}
		total = total.Add(item.Amount)
	}
	return total
}

func sumEmployee(entries []ExpenseEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.EmployeeResponsibility)
	}
	return total
}

// ContributionsTotal sums the contributions-and-savings section (normally negative)
func (l *Ledger) ContributionsTotal() decimal.Decimal {
	return sumLineItems(l.ContributionsAndSavings)
}

// PremiumsTotal sums the premiums section
func (l *Ledger) PremiumsTotal() decimal.Decimal {
	return sumLineItems(l.Premiums)
}

// InNetworkTotal sums employee responsibility for in-network expenses
func (l *Ledger) InNetworkTotal() decimal.Decimal {
	return sumEmployee(l.InNetworkExpenses)
}

// OutOfNetworkTotal sums employee responsibility for out-of-network expenses
func (l *Ledger) OutOfNetworkTotal() decimal.Decimal {
	return sumEmployee(l.OutOfNetworkExpenses)
}

// Total is the sum of all four sections and equals the plan's total cost
func (l *Ledger) Total() decimal.Decimal {
	return l.ContributionsTotal().
		Add(l.PremiumsTotal()).
		Add(l.InNetworkTotal()).
		Add(l.OutOfNetworkTotal())
}

// PlanResult is the evaluated cost of one plan for one set of user inputs
type PlanResult struct {
	PlanName              string          `json:"planName"`
	PlanType              PlanType        `json:"planType"`
	AnnualPremiums        decimal.Decimal `json:"annualPremiums"`
	UserContribution      decimal.Decimal `json:"userContribution"`
	EmployerContribution  decimal.Decimal `json:"employerContribution"`
	TaxSavings            decimal.Decimal `json:"taxSavings"`
	OutOfPocketCosts      decimal.Decimal `json:"outOfPocketCosts"`
	TotalCost             decimal.Decimal `json:"totalCost"`
	ReachedOutOfPocketMax bool            `json:"reachedOutOfPocketMax"`
	Ledger                Ledger          `json:"ledger"`
}
