package calculation

import (
	"math/rand"
	"testing"

	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper functions for building fixtures
func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func assertDecimal(t *testing.T, expected float64, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	if len(msgAndArgs) == 0 {
		msgAndArgs = []interface{}{"expected %v, got %s", expected, actual.String()}
	}
	assert.True(t, dec(expected).Equal(actual), msgAndArgs...)
}

func testPPOPlan() domain.Plan {
	return domain.Plan{
		Name:           "PPO Standard",
		Type:           domain.PlanTypePPO,
		MonthlyPremium: domain.TierAmounts{Single: dec(100), TwoParty: dec(220), Family: dec(330)},
		AnnualDeductible: domain.NetworkLimits{
			InNetwork:  domain.TierLimits{Single: dec(500), Family: dec(1000)},
			OutNetwork: domain.TierLimits{Single: dec(1000), Family: dec(2000)},
		},
		OutOfPocketMax: domain.NetworkLimits{
			InNetwork:  domain.TierLimits{Single: dec(3000), Family: dec(6000)},
			OutNetwork: domain.TierLimits{Single: dec(6000), Family: dec(12000)},
		},
		DefaultCoverage: domain.NetworkCoverage{
			InNetwork:  &domain.CoverageRule{Coinsurance: decPtr(20)},
			OutNetwork: &domain.CoverageRule{Coinsurance: decPtr(40)},
		},
		CategoryCoverage: map[string]domain.NetworkCoverage{
			"office_visit_pcp": {
				InNetwork:  &domain.CoverageRule{Copay: decPtr(25)},
				OutNetwork: &domain.CoverageRule{Coinsurance: decPtr(40)},
			},
			"preventive_care": {
				InNetwork: &domain.CoverageRule{Free: true},
			},
			"prescription_generic": {
				InNetwork: &domain.CoverageRule{Copay: decPtr(10)},
			},
			"specialist_visit": {
				InNetwork: &domain.CoverageRule{Coinsurance: decPtr(20), MaxCoinsurance: decPtr(100)},
			},
		},
	}
}

func testHSAPlan() domain.Plan {
	return domain.Plan{
		Name:           "HSA Saver",
		Type:           domain.PlanTypeHSA,
		MonthlyPremium: domain.TierAmounts{Single: dec(40), TwoParty: dec(90), Family: dec(140)},
		AnnualDeductible: domain.NetworkLimits{
			InNetwork:  domain.TierLimits{Single: dec(1650), Family: dec(3300)},
			OutNetwork: domain.TierLimits{Single: dec(3300), Family: dec(6600)},
		},
		OutOfPocketMax: domain.NetworkLimits{
			InNetwork:  domain.TierLimits{Single: dec(4500), Family: dec(9000)},
			OutNetwork: domain.TierLimits{Single: dec(9000), Family: dec(18000)},
		},
		DefaultCoverage: domain.NetworkCoverage{
			InNetwork:  &domain.CoverageRule{Coinsurance: decPtr(20)},
			OutNetwork: &domain.CoverageRule{Coinsurance: decPtr(40)},
		},
		CategoryCoverage: map[string]domain.NetworkCoverage{
			"preventive_care": {
				InNetwork: &domain.CoverageRule{Free: true},
			},
			"prescription_generic": {
				InNetwork: &domain.CoverageRule{Copay: decPtr(10)},
			},
		},
		EmployerHSAContribution: &domain.TierAmounts{Single: dec(1000), TwoParty: dec(1500), Family: dec(2000)},
	}
}

func testCatalog() *domain.PlanCatalog {
	return &domain.PlanCatalog{
		Year: 2025,
		HSAContributionLimits: domain.HSAContributionLimits{
			SingleCoverage: dec(4300),
			FamilyCoverage: dec(8550),
			CatchUp55Plus:  dec(1000),
		},
		FSAContributionLimit: dec(3300),
		PayrollTaxRates:      domain.PayrollTaxRates{SocialSecurity: dec(6.2), Medicare: dec(1.45)},
		Categories: map[string]domain.Category{
			"office_visit_pcp":     {Name: "Primary Care Visit"},
			"preventive_care":      {Name: "Preventive Care", Preventive: true},
			"prescription_generic": {Name: "Generic Prescriptions", Pharmacy: true},
			"lab_work":             {Name: "Lab Work"},
			"specialist_visit":     {Name: "Specialist Visit"},
		},
		Plans: []domain.Plan{testPPOPlan(), testHSAPlan()},
	}
}

func newExecution(t *testing.T, planName string, tier domain.CoverageTier) *PlanExecution {
	t.Helper()
	catalog := testCatalog()
	plan, ok := catalog.FindPlan(planName)
	require.True(t, ok, "fixture plan %s should exist", planName)
	return NewPlanExecution(plan, catalog, tier)
}

func TestRecordExpense_DeductibleAbsorbsSmallExpense(t *testing.T) {
	exec := newExecution(t, "HSA Saver", domain.TierSingle)

	entry := exec.RecordExpense("lab_work", dec(200), domain.InNetwork, "")

	assertDecimal(t, 200, entry.EmployeeResponsibility)
	assertDecimal(t, 0, entry.InsuranceResponsibility)
	assertDecimal(t, 200, entry.DeductibleApplied)
	assertDecimal(t, 1450, entry.DeductibleRemaining)
	assertDecimal(t, 4300, entry.OutOfPocketRemaining)
	assert.Equal(t, "Lab Work", entry.DisplayName)
}

func TestRecordExpense_HSAPharmacyMeetsDeductibleBeforeCopay(t *testing.T) {
	exec := newExecution(t, "HSA Saver", domain.TierSingle)

	exec.RecordExpense("lab_work", dec(1600), domain.InNetwork, "")
	require.True(t, dec(1600).Equal(exec.DeductibleSpent(domain.InNetwork)))

	entry := exec.RecordExpense("prescription_generic", dec(100), domain.InNetwork, "")

	assertDecimal(t, 50, entry.DeductibleApplied, "remaining deductible is paid first")
	assertDecimal(t, 10, entry.CopayApplied, "copay applies once the deductible is met")
	assertDecimal(t, 60, entry.EmployeeResponsibility)
	assertDecimal(t, 40, entry.InsuranceResponsibility)
	assertDecimal(t, 0, entry.DeductibleRemaining)
}

func TestRecordExpense_HSAPharmacyBeforeDeductibleMet(t *testing.T) {
	exec := newExecution(t, "HSA Saver", domain.TierSingle)

	entry := exec.RecordExpense("prescription_generic", dec(100), domain.InNetwork, "")

	assertDecimal(t, 100, entry.EmployeeResponsibility, "full price while deductible is unmet")
	assertDecimal(t, 0, entry.CopayApplied)
	assertDecimal(t, 1550, entry.DeductibleRemaining)
}

func TestRecordExpense_HSAPharmacyAfterDeductibleMetPaysCopayOnly(t *testing.T) {
	exec := newExecution(t, "HSA Saver", domain.TierSingle)

	exec.RecordExpense("lab_work", dec(2000), domain.InNetwork, "")
	entry := exec.RecordExpense("prescription_generic", dec(100), domain.InNetwork, "")

	assertDecimal(t, 10, entry.EmployeeResponsibility)
	assertDecimal(t, 0, entry.DeductibleApplied)
}

func TestRecordExpense_PPOCopayIsFixed(t *testing.T) {
	exec := newExecution(t, "PPO Standard", domain.TierSingle)

	entry := exec.RecordExpense("office_visit_pcp", dec(50000), domain.InNetwork, "")

	assertDecimal(t, 25, entry.EmployeeResponsibility)
	assertDecimal(t, 49975, entry.InsuranceResponsibility)
	assertDecimal(t, 0, exec.DeductibleSpent(domain.InNetwork), "copays do not touch the deductible")
	assertDecimal(t, 25, exec.OutOfPocketSpent(domain.InNetwork))
}

func TestRecordExpense_PPOPharmacyCopayIgnoresDeductible(t *testing.T) {
	exec := newExecution(t, "PPO Standard", domain.TierSingle)

	entry := exec.RecordExpense("prescription_generic", dec(100), domain.InNetwork, "")

	assertDecimal(t, 10, entry.EmployeeResponsibility)
	assertDecimal(t, 500, entry.DeductibleRemaining)
}

func TestRecordExpense_FreeCategory(t *testing.T) {
	exec := newExecution(t, "PPO Standard", domain.TierSingle)

	for _, billed := range []float64{0, 250, 1e9} {
		entry := exec.RecordExpense("preventive_care", dec(billed), domain.InNetwork, "annual physical")
		assertDecimal(t, 0, entry.EmployeeResponsibility)
		assertDecimal(t, billed, entry.InsuranceResponsibility)
		assert.Equal(t, "Preventive Care (Preventive)", entry.DisplayName)
		assert.Equal(t, "annual physical", entry.Notes)
	}
	assertDecimal(t, 0, exec.OutOfPocketSpent(domain.InNetwork))
}

func TestRecordExpense_StopsChargingAtOutOfPocketMax(t *testing.T) {
	exec := newExecution(t, "PPO Standard", domain.TierSingle)

	first := exec.RecordExpense("lab_work", dec(100000), domain.InNetwork, "")
	assertDecimal(t, 500, first.DeductibleApplied)
	assertDecimal(t, 2500, first.CoinsuranceApplied, "coinsurance is capped by the OOP remaining")
	assertDecimal(t, 3000, first.EmployeeResponsibility)
	assertDecimal(t, 0, first.OutOfPocketRemaining)
	assert.True(t, exec.ReachedOutOfPocketMax())

	copay := exec.RecordExpense("office_visit_pcp", dec(150), domain.InNetwork, "")
	assertDecimal(t, 0, copay.EmployeeResponsibility)
	assertDecimal(t, 0, copay.CopayApplied)
	assertDecimal(t, 150, copay.InsuranceResponsibility)
}

func TestRecordExpense_CopayCappedByOutOfPocketRemaining(t *testing.T) {
	exec := newExecution(t, "PPO Standard", domain.TierSingle)

	// 500 deductible + 20% of 12400 = 2980, leaving 20 of OOP capacity
	exec.RecordExpense("lab_work", dec(12900), domain.InNetwork, "")
	require.True(t, dec(2980).Equal(exec.OutOfPocketSpent(domain.InNetwork)))

	entry := exec.RecordExpense("office_visit_pcp", dec(150), domain.InNetwork, "")
	assertDecimal(t, 20, entry.CopayApplied)
	assertDecimal(t, 0, entry.OutOfPocketRemaining)
}

func TestRecordExpense_CopayLargerThanBill(t *testing.T) {
	t.Run("copay is charged in full", func(t *testing.T) {
		exec := newExecution(t, "PPO Standard", domain.TierSingle)

		entry := exec.RecordExpense("office_visit_pcp", dec(10), domain.InNetwork, "")

		assertDecimal(t, 25, entry.CopayApplied)
		assertDecimal(t, 25, entry.EmployeeResponsibility)
		assertDecimal(t, 0, entry.InsuranceResponsibility, "insurance share is clamped at zero")
		assertDecimal(t, 25, exec.OutOfPocketSpent(domain.InNetwork))
	})

	t.Run("HSA pharmacy copay after clearing the deductible", func(t *testing.T) {
		exec := newExecution(t, "HSA Saver", domain.TierSingle)
		exec.RecordExpense("lab_work", dec(1645), domain.InNetwork, "")

		entry := exec.RecordExpense("prescription_generic", dec(7), domain.InNetwork, "")

		assertDecimal(t, 5, entry.DeductibleApplied)
		assertDecimal(t, 10, entry.CopayApplied, "copay is not limited to the 2 dollar residual")
		assertDecimal(t, 15, entry.EmployeeResponsibility)
		assertDecimal(t, 0, entry.InsuranceResponsibility)
		assertDecimal(t, 1660, exec.OutOfPocketSpent(domain.InNetwork))
	})
}

func TestRecordExpense_MaxCoinsurancePerOccurrence(t *testing.T) {
	exec := newExecution(t, "PPO Standard", domain.TierSingle)

	exec.RecordExpense("lab_work", dec(500), domain.InNetwork, "")
	entry := exec.RecordExpense("specialist_visit", dec(1000), domain.InNetwork, "")

	assertDecimal(t, 100, entry.CoinsuranceApplied, "20% of 1000 is capped at 100")
	assertDecimal(t, 900, entry.InsuranceResponsibility)
}

func TestRecordExpense_NetworksAccumulateSeparately(t *testing.T) {
	exec := newExecution(t, "PPO Standard", domain.TierSingle)

	exec.RecordExpense("lab_work", dec(500), domain.InNetwork, "")
	entry := exec.RecordExpense("lab_work", dec(500), domain.OutNetwork, "")

	assertDecimal(t, 500, entry.EmployeeResponsibility, "out-of-network deductible is still unmet")
	assertDecimal(t, 500, entry.DeductibleRemaining)
	assertDecimal(t, 500, exec.DeductibleSpent(domain.InNetwork))
	assertDecimal(t, 500, exec.DeductibleSpent(domain.OutNetwork))
	assertDecimal(t, 1000, exec.OutOfPocketCosts())
	assert.Len(t, exec.Entries(domain.InNetwork), 1)
	assert.Len(t, exec.Entries(domain.OutNetwork), 1)
}

func TestOutOfPocketCosts_CanExceedEitherNetworkMax(t *testing.T) {
	exec := newExecution(t, "PPO Standard", domain.TierSingle)

	exec.RecordExpense("lab_work", dec(100000), domain.InNetwork, "")
	exec.RecordExpense("lab_work", dec(100000), domain.OutNetwork, "")

	assertDecimal(t, 3000, exec.OutOfPocketSpent(domain.InNetwork))
	assertDecimal(t, 6000, exec.OutOfPocketSpent(domain.OutNetwork))
	assertDecimal(t, 9000, exec.OutOfPocketCosts())
}

func TestRecordExpense_FamilyTierUsesFamilyLimits(t *testing.T) {
	for _, tier := range []domain.CoverageTier{domain.TierTwoParty, domain.TierFamily} {
		exec := newExecution(t, "HSA Saver", tier)
		entry := exec.RecordExpense("lab_work", dec(2000), domain.InNetwork, "")
		assertDecimal(t, 2000, entry.EmployeeResponsibility, string(tier))
		assertDecimal(t, 1300, entry.DeductibleRemaining, string(tier))
	}
}

func TestRecordExpense_MissingDefaultRuleAppliesDeductibleOnly(t *testing.T) {
	catalog := testCatalog()
	plan := testPPOPlan()
	plan.DefaultCoverage = domain.NetworkCoverage{}
	exec := NewPlanExecution(&plan, catalog, domain.TierSingle)

	first := exec.RecordExpense("unknown_category", dec(400), domain.InNetwork, "")
	second := exec.RecordExpense("unknown_category", dec(400), domain.InNetwork, "")

	assertDecimal(t, 400, first.EmployeeResponsibility)
	assertDecimal(t, 100, second.EmployeeResponsibility)
	assert.Equal(t, "unknown_category", second.DisplayName, "unknown ids display verbatim")
}

func TestRecordExpense_UnitReplayDiffersFromAggregate(t *testing.T) {
	replayed := newExecution(t, "PPO Standard", domain.TierSingle)
	replayed.ReplayEstimate(domain.CategoryEstimate{
		CategoryID: "office_visit_pcp",
		InNetwork:  domain.NetworkUtilization{Quantity: 3, CostPerVisit: dec(100)},
	})

	manual := newExecution(t, "PPO Standard", domain.TierSingle)
	for i := 0; i < 3; i++ {
		manual.RecordExpense("office_visit_pcp", dec(100), domain.InNetwork, "")
	}

	aggregate := newExecution(t, "PPO Standard", domain.TierSingle)
	aggregate.RecordExpense("office_visit_pcp", dec(300), domain.InNetwork, "")

	assertDecimal(t, 75, replayed.OutOfPocketCosts())
	assert.True(t, replayed.OutOfPocketCosts().Equal(manual.OutOfPocketCosts()))
	assert.Equal(t, manual.Entries(domain.InNetwork), replayed.Entries(domain.InNetwork))
	assertDecimal(t, 25, aggregate.OutOfPocketCosts())
}

func TestReplayEstimate_InNetworkBeforeOutOfNetwork(t *testing.T) {
	exec := newExecution(t, "PPO Standard", domain.TierSingle)

	exec.ReplayAll([]domain.CategoryEstimate{
		{
			CategoryID: "lab_work",
			InNetwork:  domain.NetworkUtilization{Quantity: 2, CostPerVisit: dec(300)},
			OutNetwork: domain.NetworkUtilization{Quantity: 1, CostPerVisit: dec(200)},
			Notes:      "bloodwork",
		},
		{
			CategoryID: "office_visit_pcp",
			InNetwork:  domain.NetworkUtilization{Quantity: 1, CostPerVisit: dec(150)},
		},
	})

	in := exec.Entries(domain.InNetwork)
	require.Len(t, in, 3)
	assertDecimal(t, 300, in[0].EmployeeResponsibility)
	assertDecimal(t, 220, in[1].EmployeeResponsibility, "200 of deductible then 20% of 100")
	assert.Equal(t, "office_visit_pcp", in[2].CategoryID)
	assert.Equal(t, "bloodwork", in[0].Notes)

	out := exec.Entries(domain.OutNetwork)
	require.Len(t, out, 1)
	assertDecimal(t, 200, out[0].EmployeeResponsibility)
}

func TestRecordExpense_HandlesVeryLargeAmounts(t *testing.T) {
	exec := newExecution(t, "HSA Saver", domain.TierFamily)

	for i := 0; i < 5; i++ {
		exec.RecordExpense("lab_work", dec(1e9), domain.InNetwork, "")
	}

	assertDecimal(t, 9000, exec.OutOfPocketSpent(domain.InNetwork))
	entries := exec.Entries(domain.InNetwork)
	assertDecimal(t, 1e9, entries[4].InsuranceResponsibility)
}

func TestPlanExecution_Invariants(t *testing.T) {
	categories := []string{"office_visit_pcp", "preventive_care", "prescription_generic", "lab_work", "specialist_visit", "unlisted"}
	networks := []domain.Network{domain.InNetwork, domain.OutNetwork}
	rng := rand.New(rand.NewSource(42))

	for _, planName := range []string{"PPO Standard", "HSA Saver"} {
		for _, tier := range []domain.CoverageTier{domain.TierSingle, domain.TierTwoParty, domain.TierFamily} {
			exec := newExecution(t, planName, tier)
			plan := exec.plan

			for i := 0; i < 400; i++ {
				network := networks[rng.Intn(len(networks))]
				beforeOOP := exec.OutOfPocketSpent(network)
				beforeDed := exec.DeductibleSpent(network)

				billed := decimal.NewFromInt(int64(rng.Intn(5000)))
				entry := exec.RecordExpense(categories[rng.Intn(len(categories))], billed, network, "")

				oop := exec.OutOfPocketSpent(network)
				ded := exec.DeductibleSpent(network)
				oopMax := plan.OutOfPocketMax.For(network, tier)
				deductible := plan.AnnualDeductible.For(network, tier)

				assert.True(t, oop.GreaterThanOrEqual(beforeOOP), "OOP spent must not decrease")
				assert.True(t, ded.GreaterThanOrEqual(beforeDed), "deductible spent must not decrease")
				assert.True(t, oop.LessThanOrEqual(oopMax), "OOP spent %s exceeds max %s", oop, oopMax)
				assert.True(t, ded.LessThanOrEqual(deductible), "deductible spent %s exceeds %s", ded, deductible)
				assert.True(t, ded.LessThanOrEqual(oop), "deductible spent cannot exceed OOP spent")
				assert.False(t, entry.InsuranceResponsibility.IsNegative())
				assert.True(t, entry.EmployeeResponsibility.Equal(oop.Sub(beforeOOP)), "entry must match OOP delta")
			}
		}
	}
}
