package transform

import (
	"fmt"

	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/shopspring/decimal"
)

// SetCoverageTier switches the elected coverage tier
type SetCoverageTier struct {
	Tier domain.CoverageTier
}

func (st *SetCoverageTier) Name() string {
	return "set_tier"
}

func (st *SetCoverageTier) Description() string {
	return fmt.Sprintf("Switch coverage tier to %s", st.Tier)
}

func (st *SetCoverageTier) Validate(base *domain.UserInputs) error {
	if base == nil {
		return NewTransformError(st.Name(), "validate", "base inputs cannot be nil", nil)
	}
	if !st.Tier.Valid() {
		return NewTransformError(st.Name(), "validate", fmt.Sprintf("unknown coverage tier %q", st.Tier), nil)
	}
	return nil
}

func (st *SetCoverageTier) Apply(base *domain.UserInputs) (*domain.UserInputs, error) {
	modified := base.DeepCopy()
	modified.CoverageTier = st.Tier
	return modified, nil
}

// SetAgeGroup switches HSA catch-up eligibility
type SetAgeGroup struct {
	AgeGroup domain.AgeGroup
}

func (sa *SetAgeGroup) Name() string {
	return "set_age_group"
}

func (sa *SetAgeGroup) Description() string {
	return fmt.Sprintf("Switch age group to %s", sa.AgeGroup)
}

func (sa *SetAgeGroup) Validate(base *domain.UserInputs) error {
	if base == nil {
		return NewTransformError(sa.Name(), "validate", "base inputs cannot be nil", nil)
	}
	if !sa.AgeGroup.Valid() {
		return NewTransformError(sa.Name(), "validate", fmt.Sprintf("unknown age group %q", sa.AgeGroup), nil)
	}
	return nil
}

func (sa *SetAgeGroup) Apply(base *domain.UserInputs) (*domain.UserInputs, error) {
	modified := base.DeepCopy()
	modified.AgeGroup = sa.AgeGroup
	return modified, nil
}

// SetHSAContribution replaces the planned annual HSA contribution.
// Amounts above the catalog limit are capped later by the calculator.
type SetHSAContribution struct {
	Amount decimal.Decimal
}

func (sh *SetHSAContribution) Name() string {
	return "set_hsa"
}

func (sh *SetHSAContribution) Description() string {
	return fmt.Sprintf("Contribute $%s to the HSA", sh.Amount.StringFixed(2))
}

func (sh *SetHSAContribution) Validate(base *domain.UserInputs) error {
	if base == nil {
		return NewTransformError(sh.Name(), "validate", "base inputs cannot be nil", nil)
	}
	if sh.Amount.IsNegative() {
		return NewTransformError(sh.Name(), "validate", "amount cannot be negative", nil)
	}
	return nil
}

func (sh *SetHSAContribution) Apply(base *domain.UserInputs) (*domain.UserInputs, error) {
	modified := base.DeepCopy()
	modified.HSAContribution = sh.Amount
	return modified, nil
}

// SetFSAContribution replaces the planned annual FSA election
type SetFSAContribution struct {
	Amount decimal.Decimal
}

func (sf *SetFSAContribution) Name() string {
	return "set_fsa"
}

func (sf *SetFSAContribution) Description() string {
	return fmt.Sprintf("Elect $%s to the FSA", sf.Amount.StringFixed(2))
}

func (sf *SetFSAContribution) Validate(base *domain.UserInputs) error {
	if base == nil {
		return NewTransformError(sf.Name(), "validate", "base inputs cannot be nil", nil)
	}
	if sf.Amount.IsNegative() {
		return NewTransformError(sf.Name(), "validate", "amount cannot be negative", nil)
	}
	return nil
}

func (sf *SetFSAContribution) Apply(base *domain.UserInputs) (*domain.UserInputs, error) {
	modified := base.DeepCopy()
	modified.FSAContribution = sf.Amount
	return modified, nil
}

// SetTaxRate replaces the marginal income tax rate, in percent
type SetTaxRate struct {
	Percent decimal.Decimal
}

func (sr *SetTaxRate) Name() string {
	return "set_tax_rate"
}

func (sr *SetTaxRate) Description() string {
	return fmt.Sprintf("Use a %s%% marginal tax rate", sr.Percent.String())
}

func (sr *SetTaxRate) Validate(base *domain.UserInputs) error {
	if base == nil {
		return NewTransformError(sr.Name(), "validate", "base inputs cannot be nil", nil)
	}
	if sr.Percent.IsNegative() || sr.Percent.GreaterThan(decimal.NewFromInt(100)) {
		return NewTransformError(sr.Name(), "validate", fmt.Sprintf("rate must be between 0 and 100, got %s", sr.Percent), nil)
	}
	return nil
}

func (sr *SetTaxRate) Apply(base *domain.UserInputs) (*domain.UserInputs, error) {
	modified := base.DeepCopy()
	modified.TaxRatePercent = sr.Percent
	return modified, nil
}
