package domain

import (
	"github.com/shopspring/decimal"
)

// PlanType identifies the plan family a plan belongs to
type PlanType string

const (
	PlanTypePPO PlanType = "PPO"
	PlanTypeHSA PlanType = "HSA"
)

// CoverageTier is the enrollment category a user elects
type CoverageTier string

const (
	TierSingle   CoverageTier = "single"
	TierTwoParty CoverageTier = "two_party"
	TierFamily   CoverageTier = "family"
)

// Valid reports whether the tier is one of the known tiers
func (t CoverageTier) Valid() bool {
	switch t {
	case TierSingle, TierTwoParty, TierFamily:
		return true
	}
	return false
}

// UsesFamilyLimits reports whether the tier shares the family deductible and OOP bucket.
// two_party uses the family figures by convention.
func (t CoverageTier) UsesFamilyLimits() bool {
	return t == TierTwoParty || t == TierFamily
}

// Network distinguishes in-network from out-of-network care
type Network string

const (
	InNetwork  Network = "in_network"
	OutNetwork Network = "out_network"
)

// String returns a display label for the network
func (n Network) String() string {
	if n == OutNetwork {
		return "Out-of-Network"
	}
	return "In-Network"
}

// TierAmounts holds a dollar figure for each coverage tier
type TierAmounts struct {
	Single   decimal.Decimal `yaml:"single" json:"single"`
	TwoParty decimal.Decimal `yaml:"two_party" json:"two_party"`
	Family   decimal.Decimal `yaml:"family" json:"family"`
}

// For returns the amount for the given tier
func (ta TierAmounts) For(tier CoverageTier) decimal.Decimal {
	switch tier {
	case TierTwoParty:
		return ta.TwoParty
	case TierFamily:
		return ta.Family
	default:
		return ta.Single
	}
}

// TierLimits holds an individual and a family limit (deductibles, OOP maxima)
type TierLimits struct {
	Single decimal.Decimal `yaml:"single" json:"single"`
	Family decimal.Decimal `yaml:"family" json:"family"`
}

// For returns the limit bucket that applies to the given tier
func (tl TierLimits) For(tier CoverageTier) decimal.Decimal {
	if tier.UsesFamilyLimits() {
		return tl.Family
	}
	return tl.Single
}

// NetworkLimits holds tiered limits for each network
type NetworkLimits struct {
	InNetwork  TierLimits `yaml:"in_network" json:"in_network"`
	OutNetwork TierLimits `yaml:"out_network" json:"out_network"`
}

// For returns the limit for the given network and tier
func (nl NetworkLimits) For(network Network, tier CoverageTier) decimal.Decimal {
	if network == OutNetwork {
		return nl.OutNetwork.For(tier)
	}
	return nl.InNetwork.For(tier)
}

// CoverageRule describes what the patient owes for one occurrence of care.
// A nil *CoverageRule means "absent" and falls back to the plan default.
type CoverageRule struct {
	Free           bool             `yaml:"free,omitempty" json:"free,omitempty"`
	Copay          *decimal.Decimal `yaml:"copay,omitempty" json:"copay,omitempty"`
	Coinsurance    *decimal.Decimal `yaml:"coinsurance,omitempty" json:"coinsurance,omitempty"`         // percent, e.g. 20 for 20%
	MaxCoinsurance *decimal.Decimal `yaml:"max_coinsurance,omitempty" json:"max_coinsurance,omitempty"` // per occurrence
}

// HasCopay reports whether the rule carries a positive fixed copay
func (cr *CoverageRule) HasCopay() bool {
	return cr != nil && cr.Copay != nil && cr.Copay.IsPositive()
}

// IsFree reports whether the rule is no-cost to the patient
func (cr *CoverageRule) IsFree() bool {
	return cr != nil && cr.Free
}

// CoinsuranceRate returns the coinsurance as a fraction (20 -> 0.20)
func (cr *CoverageRule) CoinsuranceRate() decimal.Decimal {
	if cr == nil || cr.Coinsurance == nil {
		return decimal.Zero
	}
	return cr.Coinsurance.Div(decimal.NewFromInt(100))
}

// NetworkCoverage pairs the in- and out-of-network rules for a category or plan default
type NetworkCoverage struct {
	InNetwork  *CoverageRule `yaml:"in_network,omitempty" json:"in_network,omitempty"`
	OutNetwork *CoverageRule `yaml:"out_network,omitempty" json:"out_network,omitempty"`
}

// For returns the rule for the given network, nil when absent
func (nc NetworkCoverage) For(network Network) *CoverageRule {
	if network == OutNetwork {
		return nc.OutNetwork
	}
	return nc.InNetwork
}

// Plan is one health plan offered in a coverage year
type Plan struct {
	Name                    string                     `yaml:"name" json:"name"`
	Type                    PlanType                   `yaml:"type" json:"type"`
	MonthlyPremium          TierAmounts                `yaml:"monthly_premium" json:"monthly_premium"`
	AnnualDeductible        NetworkLimits              `yaml:"annual_deductible" json:"annual_deductible"`
	OutOfPocketMax          NetworkLimits              `yaml:"out_of_pocket_max" json:"out_of_pocket_max"`
	DefaultCoverage         NetworkCoverage            `yaml:"default_coverage" json:"default_coverage"`
	CategoryCoverage        map[string]NetworkCoverage `yaml:"category_coverage,omitempty" json:"category_coverage,omitempty"`
	EmployerHSAContribution *TierAmounts               `yaml:"employer_hsa_contribution,omitempty" json:"employer_hsa_contribution,omitempty"`
}

// IsHSA reports whether the plan is an HSA-eligible high-deductible plan
func (p *Plan) IsHSA() bool {
	return p.Type == PlanTypeHSA
}

// AnnualPremium returns twelve months of the tier's premium
func (p *Plan) AnnualPremium(tier CoverageTier) decimal.Decimal {
	return p.MonthlyPremium.For(tier).Mul(decimal.NewFromInt(12))
}
