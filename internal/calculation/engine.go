package calculation

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/shopspring/decimal"
)

// PlanComparator evaluates every plan in a catalog against one set of user inputs
type PlanComparator struct {
	ContributionCalc *ContributionCalculator
	Logger           Logger
}

// NewPlanComparator creates a comparator with a no-op logger
func NewPlanComparator() *PlanComparator {
	return &PlanComparator{
		ContributionCalc: NewContributionCalculator(),
		Logger:           NopLogger{},
	}
}

// SetLogger installs a logger; nil restores the no-op logger
func (pc *PlanComparator) SetLogger(l Logger) {
	if l == nil {
		pc.Logger = NopLogger{}
		return
	}
	pc.Logger = l
}

// CompareAll evaluates each plan and returns results ordered by ascending total cost.
// Plans with equal totals keep catalog order. An empty catalog yields an empty slice.
func (pc *PlanComparator) CompareAll(catalog *domain.PlanCatalog, inputs *domain.UserInputs) []domain.PlanResult {
	results := make([]domain.PlanResult, 0, len(catalog.Plans))
	for i := range catalog.Plans {
		results = append(results, pc.EvaluatePlan(catalog, &catalog.Plans[i], inputs))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalCost.LessThan(results[j].TotalCost)
	})
	return results
}

// EvaluatePlan computes the full result and ledger for a single plan
func (pc *PlanComparator) EvaluatePlan(catalog *domain.PlanCatalog, plan *domain.Plan, inputs *domain.UserInputs) domain.PlanResult {
	tier := inputs.CoverageTier
	annualPremiums := plan.AnnualPremium(tier)
	contrib := pc.ContributionCalc.Compute(plan, catalog, inputs)

	exec := NewPlanExecution(plan, catalog, tier)
	exec.ReplayAll(inputs.CategoryEstimates)
	outOfPocket := exec.OutOfPocketCosts()

	totalCost := annualPremiums.
		Add(outOfPocket).
		Sub(contrib.TaxSavings).
		Sub(contrib.EmployerContribution)

	pc.Logger.Debugf("plan %s: premiums=%s oop=%s tax_savings=%s employer=%s total=%s",
		plan.Name, annualPremiums.StringFixed(2), outOfPocket.StringFixed(2),
		contrib.TaxSavings.StringFixed(2), contrib.EmployerContribution.StringFixed(2), totalCost.StringFixed(2))

	return domain.PlanResult{
		PlanName:              plan.Name,
		PlanType:              plan.Type,
		AnnualPremiums:        annualPremiums,
		UserContribution:      contrib.UserContribution,
		EmployerContribution:  contrib.EmployerContribution,
		TaxSavings:            contrib.TaxSavings,
		OutOfPocketCosts:      outOfPocket,
		TotalCost:             totalCost,
		ReachedOutOfPocketMax: exec.ReachedOutOfPocketMax(),
		Ledger: domain.Ledger{
			ContributionsAndSavings: contributionLines(contrib),
			Premiums:                premiumLines(plan, tier),
			InNetworkExpenses:       exec.Entries(domain.InNetwork),
			OutOfNetworkExpenses:    exec.Entries(domain.OutNetwork),
		},
	}
}

// CompareAll runs a default comparator over the catalog
func CompareAll(catalog *domain.PlanCatalog, inputs *domain.UserInputs) []domain.PlanResult {
	return NewPlanComparator().CompareAll(catalog, inputs)
}

func contributionLines(contrib ContributionResult) []domain.LedgerLineItem {
	userLine := domain.LedgerLineItem{
		Label:         fmt.Sprintf("Your %s contribution", contrib.Account),
		Amount:        contrib.UserContribution,
		Informational: true,
	}
	if contrib.Capped() {
		userLine.Notes = fmt.Sprintf("Requested $%s, limited to $%s",
			contrib.RequestedAmount.StringFixed(2), contrib.ContributionLimit.StringFixed(2))
	}

	lines := []domain.LedgerLineItem{userLine}
	if contrib.Account == AccountHSA {
		lines = append(lines, domain.LedgerLineItem{
			Label:  "Employer HSA contribution",
			Amount: contrib.EmployerContribution.Neg(),
		})
	}
	lines = append(lines, domain.LedgerLineItem{
		Label:  "Tax savings",
		Amount: contrib.TaxSavings.Neg(),
		Notes: fmt.Sprintf("%s%% combined income and payroll tax rate",
			contrib.CombinedTaxRate.Mul(decimal.NewFromInt(100)).StringFixed(2)),
	})
	return lines
}

func premiumLines(plan *domain.Plan, tier domain.CoverageTier) []domain.LedgerLineItem {
	return []domain.LedgerLineItem{
		{
			Label:  "Annual premiums",
			Amount: plan.AnnualPremium(tier),
			Notes:  fmt.Sprintf("$%s per month x 12 (%s)", plan.MonthlyPremium.For(tier).StringFixed(2), tier),
		},
	}
}
