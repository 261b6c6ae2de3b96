package calculation

import (
	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountType is the tax-advantaged account paired with a plan
type AccountType string

const (
	AccountHSA AccountType = "HSA"
	AccountFSA AccountType = "FSA"
)

// ContributionResult holds the account contributions and resulting tax savings for a plan
type ContributionResult struct {
	Account              AccountType
	RequestedAmount      decimal.Decimal
	UserContribution     decimal.Decimal
	EmployerContribution decimal.Decimal
	ContributionLimit    decimal.Decimal // most the user may contribute after employer money
	CombinedTaxRate      decimal.Decimal // income + payroll, as a fraction
	TaxSavings           decimal.Decimal
}

// Capped reports whether the user's request was reduced by the limit
func (cr ContributionResult) Capped() bool {
	return cr.UserContribution.LessThan(cr.RequestedAmount)
}

// ContributionCalculator computes HSA/FSA contributions and their tax savings
type ContributionCalculator struct{}

// NewContributionCalculator creates a new contribution calculator
func NewContributionCalculator() *ContributionCalculator {
	return &ContributionCalculator{}
}

// Compute returns the contributions for a plan.
// HSA plans receive the employer deposit and an IRS limit shared with it,
// plus the catch-up amount at 55+. All other plans pair with an FSA.
func (cc *ContributionCalculator) Compute(plan *domain.Plan, catalog *domain.PlanCatalog, inputs *domain.UserInputs) ContributionResult {
	result := ContributionResult{
		CombinedTaxRate: inputs.TaxRate().Add(catalog.PayrollTaxRates.CombinedRate()),
	}

	if plan.IsHSA() {
		result.Account = AccountHSA
		result.RequestedAmount = inputs.HSAContribution
		if plan.EmployerHSAContribution != nil {
			result.EmployerContribution = plan.EmployerHSAContribution.For(inputs.CoverageTier)
		}

		maxTotal := catalog.HSAContributionLimits.For(inputs.CoverageTier)
		if inputs.AgeGroup == domain.Age55Plus {
			maxTotal = maxTotal.Add(catalog.HSAContributionLimits.CatchUp55Plus)
		}
		result.ContributionLimit = decimal.Max(decimal.Zero, maxTotal.Sub(result.EmployerContribution))
	} else {
		result.Account = AccountFSA
		result.RequestedAmount = inputs.FSAContribution
		result.ContributionLimit = decimal.Max(decimal.Zero, catalog.FSAContributionLimit)
	}

	result.UserContribution = decimal.Max(decimal.Zero, decimal.Min(result.RequestedAmount, result.ContributionLimit))
	result.TaxSavings = result.UserContribution.Mul(result.CombinedTaxRate)
	return result
}
