package domain

import (
	"github.com/shopspring/decimal"
)

// AgeGroup determines HSA catch-up eligibility
type AgeGroup string

const (
	AgeUnder55 AgeGroup = "under_55"
	Age55Plus  AgeGroup = "55_plus"
)

// Valid reports whether the age group is known
func (a AgeGroup) Valid() bool {
	return a == AgeUnder55 || a == Age55Plus
}

// MaxVisitsPerNetwork bounds one category's quantity on one network.
// Every visit is replayed as its own ledger entry.
const MaxVisitsPerNetwork = 10000

// NetworkUtilization is an estimate of visits and the billed cost of each visit
type NetworkUtilization struct {
	Quantity     int             `yaml:"quantity" json:"quantity"`
	CostPerVisit decimal.Decimal `yaml:"cost_per_visit" json:"cost_per_visit"`
}

// Total returns quantity times cost per visit
func (nu NetworkUtilization) Total() decimal.Decimal {
	return nu.CostPerVisit.Mul(decimal.NewFromInt(int64(nu.Quantity)))
}

// CategoryEstimate is the user's expected utilization of one category
type CategoryEstimate struct {
	CategoryID string             `yaml:"category_id" json:"category_id"`
	InNetwork  NetworkUtilization `yaml:"in_network" json:"in_network"`
	OutNetwork NetworkUtilization `yaml:"out_network" json:"out_network"`
	Notes      string             `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// For returns the utilization for the given network
func (ce CategoryEstimate) For(network Network) NetworkUtilization {
	if network == OutNetwork {
		return ce.OutNetwork
	}
	return ce.InNetwork
}

// UserInputs is everything the user supplies for one comparison
type UserInputs struct {
	CoverageTier      CoverageTier       `yaml:"coverage_tier" json:"coverage_tier"`
	AgeGroup          AgeGroup           `yaml:"age_group" json:"age_group"`
	TaxRatePercent    decimal.Decimal    `yaml:"tax_rate_percent" json:"tax_rate_percent"`
	HSAContribution   decimal.Decimal    `yaml:"hsa_contribution" json:"hsa_contribution"`
	FSAContribution   decimal.Decimal    `yaml:"fsa_contribution" json:"fsa_contribution"`
	CategoryEstimates []CategoryEstimate `yaml:"category_estimates" json:"category_estimates"`
}

// TaxRate returns the marginal income tax rate as a fraction
func (ui *UserInputs) TaxRate() decimal.Decimal {
	return ui.TaxRatePercent.Div(decimal.NewFromInt(100))
}

// DefaultUserInputs returns a single-coverage profile with no utilization
func DefaultUserInputs() UserInputs {
	return UserInputs{
		CoverageTier:   TierSingle,
		AgeGroup:       AgeUnder55,
		TaxRatePercent: decimal.NewFromInt(22),
	}
}

// DeepCopy returns an independent copy of the inputs
func (ui *UserInputs) DeepCopy() *UserInputs {
	if ui == nil {
		return nil
	}
	cp := *ui
	if ui.CategoryEstimates != nil {
		cp.CategoryEstimates = make([]CategoryEstimate, len(ui.CategoryEstimates))
		copy(cp.CategoryEstimates, ui.CategoryEstimates)
	}
	return &cp
}
