package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// HSAContributionLimits are the IRS annual HSA limits for a coverage year
type HSAContributionLimits struct {
	SingleCoverage decimal.Decimal `yaml:"single_coverage" json:"single_coverage"`
	FamilyCoverage decimal.Decimal `yaml:"family_coverage" json:"family_coverage"`
	CatchUp55Plus  decimal.Decimal `yaml:"catch_up_55_plus" json:"catch_up_55_plus"`
}

// For returns the base limit for a tier (two_party uses the family limit)
func (l HSAContributionLimits) For(tier CoverageTier) decimal.Decimal {
	if tier.UsesFamilyLimits() {
		return l.FamilyCoverage
	}
	return l.SingleCoverage
}

// PayrollTaxRates are employee-side FICA rates in percent
type PayrollTaxRates struct {
	SocialSecurity decimal.Decimal `yaml:"social_security" json:"social_security"`
	Medicare       decimal.Decimal `yaml:"medicare" json:"medicare"`
}

// CombinedRate returns social security plus medicare as a fraction
func (r PayrollTaxRates) CombinedRate() decimal.Decimal {
	return r.SocialSecurity.Add(r.Medicare).Div(decimal.NewFromInt(100))
}

// Category is display metadata for a utilization category
type Category struct {
	Name       string `yaml:"name" json:"name"`
	Preventive bool   `yaml:"preventive,omitempty" json:"preventive,omitempty"`
	Pharmacy   bool   `yaml:"pharmacy,omitempty" json:"pharmacy,omitempty"`
}

// Branding carries the employer-facing labels used by reports
type Branding struct {
	CompanyName string `yaml:"company_name" json:"company_name"`
	Title       string `yaml:"title" json:"title"`
}

// PlanCatalog is the full set of plans and limits for one coverage year
type PlanCatalog struct {
	Year                  int                   `yaml:"year" json:"year"`
	Branding              Branding              `yaml:"branding" json:"branding"`
	HSAContributionLimits HSAContributionLimits `yaml:"hsa_contribution_limits" json:"hsa_contribution_limits"`
	FSAContributionLimit  decimal.Decimal       `yaml:"fsa_contribution_limit" json:"fsa_contribution_limit"`
	PayrollTaxRates       PayrollTaxRates       `yaml:"payroll_tax_rates" json:"payroll_tax_rates"`
	Categories            map[string]Category   `yaml:"categories,omitempty" json:"categories,omitempty"`
	Plans                 []Plan                `yaml:"plans" json:"plans"`
}

// Category looks up display metadata for a category id
func (pc *PlanCatalog) Category(id string) (Category, bool) {
	if pc == nil || pc.Categories == nil {
		return Category{}, false
	}
	c, ok := pc.Categories[id]
	return c, ok
}

// CategoryDisplayName returns the category's name, or the id verbatim when unknown.
// Preventive categories are flagged in the label.
func (pc *PlanCatalog) CategoryDisplayName(id string) string {
	c, ok := pc.Category(id)
	name := id
	if ok && c.Name != "" {
		name = c.Name
	}
	if ok && c.Preventive {
		name += " (Preventive)"
	}
	return name
}

// IsPharmacyCategory reports whether a category is billed as a prescription.
// Unknown ids are classified by name.
func (pc *PlanCatalog) IsPharmacyCategory(id string) bool {
	if c, ok := pc.Category(id); ok {
		return c.Pharmacy
	}
	lower := strings.ToLower(id)
	return strings.Contains(lower, "prescription") ||
		strings.Contains(lower, "pharmacy") ||
		strings.HasPrefix(lower, "rx_")
}

// FindPlan returns the plan with the given name
func (pc *PlanCatalog) FindPlan(name string) (*Plan, bool) {
	for i := range pc.Plans {
		if pc.Plans[i].Name == name {
			return &pc.Plans[i], true
		}
	}
	return nil, false
}
