package calculation

import (
	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/shopspring/decimal"
)

// networkAccumulator tracks deductible and out-of-pocket spend for one network.
// Both running totals only grow and never pass their caps.
type networkAccumulator struct {
	deductible       decimal.Decimal
	outOfPocketMax   decimal.Decimal
	deductibleSpent  decimal.Decimal
	outOfPocketSpent decimal.Decimal
	entries          []domain.ExpenseEntry
}

func (na *networkAccumulator) deductibleRemaining() decimal.Decimal {
	return decimal.Max(decimal.Zero, na.deductible.Sub(na.deductibleSpent))
}

func (na *networkAccumulator) outOfPocketRemaining() decimal.Decimal {
	return decimal.Max(decimal.Zero, na.outOfPocketMax.Sub(na.outOfPocketSpent))
}

// applyDeductible charges min(deductible remaining, billed, OOP remaining)
// against both the deductible and the out-of-pocket total.
func (na *networkAccumulator) applyDeductible(billed decimal.Decimal) decimal.Decimal {
	portion := decimal.Max(decimal.Zero, decimal.Min(na.deductibleRemaining(), billed, na.outOfPocketRemaining()))
	na.deductibleSpent = na.deductibleSpent.Add(portion)
	na.outOfPocketSpent = na.outOfPocketSpent.Add(portion)
	return portion
}

// applyOutOfPocket charges an amount capped by the OOP remaining
func (na *networkAccumulator) applyOutOfPocket(amount decimal.Decimal) decimal.Decimal {
	portion := decimal.Max(decimal.Zero, decimal.Min(amount, na.outOfPocketRemaining()))
	na.outOfPocketSpent = na.outOfPocketSpent.Add(portion)
	return portion
}

// PlanExecution replays billed expenses against one plan for one coverage tier.
// An execution is single-use: create a new one per plan and per evaluation.
type PlanExecution struct {
	plan    *domain.Plan
	catalog *domain.PlanCatalog
	tier    domain.CoverageTier

	inNetwork  *networkAccumulator
	outNetwork *networkAccumulator
}

// NewPlanExecution creates an execution with zeroed deductible and OOP totals
func NewPlanExecution(plan *domain.Plan, catalog *domain.PlanCatalog, tier domain.CoverageTier) *PlanExecution {
	return &PlanExecution{
		plan:    plan,
		catalog: catalog,
		tier:    tier,
		inNetwork: &networkAccumulator{
			deductible:     plan.AnnualDeductible.For(domain.InNetwork, tier),
			outOfPocketMax: plan.OutOfPocketMax.For(domain.InNetwork, tier),
		},
		outNetwork: &networkAccumulator{
			deductible:     plan.AnnualDeductible.For(domain.OutNetwork, tier),
			outOfPocketMax: plan.OutOfPocketMax.For(domain.OutNetwork, tier),
		},
	}
}

func (pe *PlanExecution) accumulator(network domain.Network) *networkAccumulator {
	if network == domain.OutNetwork {
		return pe.outNetwork
	}
	return pe.inNetwork
}

// RecordExpense applies one billed occurrence and appends its ledger entry.
func (pe *PlanExecution) RecordExpense(categoryID string, billed decimal.Decimal, network domain.Network, notes string) domain.ExpenseEntry {
	if network != domain.OutNetwork {
		network = domain.InNetwork
	}
	acc := pe.accumulator(network)
	rule := ResolveCoverage(pe.plan, categoryID, network)

	var deductiblePortion, copayPortion, coinsurancePortion decimal.Decimal

	switch {
	case !acc.outOfPocketRemaining().IsPositive():
		// OOP max reached: insurance pays everything from here on
	case rule.IsFree():
	case rule.HasCopay():
		if pe.plan.IsHSA() && pe.catalog.IsPharmacyCategory(categoryID) && acc.deductibleRemaining().IsPositive() {
			// HDHP prescriptions count against the deductible before the copay starts
			deductiblePortion = acc.applyDeductible(billed)
			residual := billed.Sub(deductiblePortion)
			if acc.deductibleRemaining().IsZero() && residual.IsPositive() {
				copayPortion = acc.applyOutOfPocket(*rule.Copay)
			}
		} else {
			copayPortion = acc.applyOutOfPocket(*rule.Copay)
		}
	default:
		deductiblePortion = acc.applyDeductible(billed)
		residual := billed.Sub(deductiblePortion)
		if residual.IsPositive() {
			coinsurance := residual.Mul(rule.CoinsuranceRate())
			if rule != nil && rule.MaxCoinsurance != nil && coinsurance.GreaterThan(*rule.MaxCoinsurance) {
				coinsurance = *rule.MaxCoinsurance
			}
			coinsurancePortion = acc.applyOutOfPocket(coinsurance)
		}
	}

	employee := deductiblePortion.Add(copayPortion).Add(coinsurancePortion)
	insurance := decimal.Max(decimal.Zero, billed.Sub(employee))

	entry := domain.ExpenseEntry{
		CategoryID:              categoryID,
		DisplayName:             pe.catalog.CategoryDisplayName(categoryID),
		Network:                 network,
		BilledAmount:            billed,
		CopayApplied:            copayPortion,
		DeductibleApplied:       deductiblePortion,
		CoinsuranceApplied:      coinsurancePortion,
		EmployeeResponsibility:  employee,
		InsuranceResponsibility: insurance,
		DeductibleRemaining:     acc.deductibleRemaining(),
		OutOfPocketRemaining:    acc.outOfPocketRemaining(),
		Notes:                   notes,
	}
	acc.entries = append(acc.entries, entry)
	return entry
}

// ReplayEstimate records every occurrence of one category estimate:
// in-network visits first, then out-of-network, one unit cost at a time.
func (pe *PlanExecution) ReplayEstimate(estimate domain.CategoryEstimate) {
	for _, network := range []domain.Network{domain.InNetwork, domain.OutNetwork} {
		usage := estimate.For(network)
		for i := 0; i < usage.Quantity; i++ {
			pe.RecordExpense(estimate.CategoryID, usage.CostPerVisit, network, estimate.Notes)
		}
	}
}

// ReplayAll replays estimates in the order given
func (pe *PlanExecution) ReplayAll(estimates []domain.CategoryEstimate) {
	for _, estimate := range estimates {
		pe.ReplayEstimate(estimate)
	}
}

// DeductibleSpent returns the running deductible total for a network
func (pe *PlanExecution) DeductibleSpent(network domain.Network) decimal.Decimal {
	return pe.accumulator(network).deductibleSpent
}

// OutOfPocketSpent returns the running out-of-pocket total for a network
func (pe *PlanExecution) OutOfPocketSpent(network domain.Network) decimal.Decimal {
	return pe.accumulator(network).outOfPocketSpent
}

// OutOfPocketCosts returns total employee cost-sharing across both networks.
// Each network is capped by its own OOP max, so the sum can exceed either one.
func (pe *PlanExecution) OutOfPocketCosts() decimal.Decimal {
	return pe.inNetwork.outOfPocketSpent.Add(pe.outNetwork.outOfPocketSpent)
}

// ReachedOutOfPocketMax reports whether either network's OOP max was hit
func (pe *PlanExecution) ReachedOutOfPocketMax() bool {
	return (pe.inNetwork.outOfPocketMax.IsPositive() && pe.inNetwork.outOfPocketRemaining().IsZero()) ||
		(pe.outNetwork.outOfPocketMax.IsPositive() && pe.outNetwork.outOfPocketRemaining().IsZero())
}

// Entries returns a copy of the ledger entries recorded for a network
func (pe *PlanExecution) Entries(network domain.Network) []domain.ExpenseEntry {
	entries := pe.accumulator(network).entries
	out := make([]domain.ExpenseEntry, len(entries))
	copy(out, entries)
	return out
}
