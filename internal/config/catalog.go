package config

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalogs/*.yaml
var embeddedCatalogs embed.FS

// CatalogLoader loads and validates plan catalogs
type CatalogLoader struct{}

// NewCatalogLoader creates a new catalog loader
func NewCatalogLoader() *CatalogLoader {
	return &CatalogLoader{}
}

// LoadFromFile loads a plan catalog from a YAML file
func (cl *CatalogLoader) LoadFromFile(filename string) (*domain.PlanCatalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return cl.Parse(data)
}

// Parse decodes and validates a plan catalog
func (cl *CatalogLoader) Parse(data []byte) (*domain.PlanCatalog, error) {
	var catalog domain.PlanCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cl.ValidateCatalog(&catalog); err != nil {
		return nil, fmt.Errorf("catalog validation failed: %w", err)
	}

	return &catalog, nil
}

// DefaultCatalog returns the built-in catalog for a coverage year
func (cl *CatalogLoader) DefaultCatalog(year int) (*domain.PlanCatalog, error) {
	data, err := embeddedCatalogs.ReadFile(path.Join("catalogs", fmt.Sprintf("%d.yaml", year)))
	if err != nil {
		return nil, fmt.Errorf("no built-in catalog for %d (available: %v)", year, AvailableYears())
	}
	return cl.Parse(data)
}

// AvailableYears lists the coverage years with a built-in catalog
func AvailableYears() []int {
	entries, err := embeddedCatalogs.ReadDir("catalogs")
	if err != nil {
		return nil
	}
	years := make([]int, 0, len(entries))
	for _, entry := range entries {
		year, err := strconv.Atoi(strings.TrimSuffix(entry.Name(), ".yaml"))
		if err == nil {
			years = append(years, year)
		}
	}
	sort.Ints(years)
	return years
}

// LatestYear returns the most recent built-in coverage year
func LatestYear() int {
	years := AvailableYears()
	if len(years) == 0 {
		return 0
	}
	return years[len(years)-1]
}

// ValidateCatalog validates catalog-wide limits and every plan
func (cl *CatalogLoader) ValidateCatalog(catalog *domain.PlanCatalog) error {
	if catalog.Year <= 0 {
		return fmt.Errorf("year is required")
	}

	limits := catalog.HSAContributionLimits
	if limits.SingleCoverage.LessThan(decimal.Zero) || limits.FamilyCoverage.LessThan(decimal.Zero) || limits.CatchUp55Plus.LessThan(decimal.Zero) {
		return fmt.Errorf("HSA contribution limits cannot be negative")
	}
	if catalog.FSAContributionLimit.LessThan(decimal.Zero) {
		return fmt.Errorf("FSA contribution limit cannot be negative")
	}
	if !isPercent(catalog.PayrollTaxRates.SocialSecurity) || !isPercent(catalog.PayrollTaxRates.Medicare) {
		return fmt.Errorf("payroll tax rates must be between 0 and 100")
	}

	names := map[string]bool{}
	for i := range catalog.Plans {
		plan := &catalog.Plans[i]
		if err := cl.validatePlan(plan); err != nil {
			return fmt.Errorf("plan %d (%s) validation failed: %w", i, plan.Name, err)
		}
		if names[plan.Name] {
			return fmt.Errorf("duplicate plan name: %s", plan.Name)
		}
		names[plan.Name] = true
	}

	return nil
}

// validatePlan validates a single plan
func (cl *CatalogLoader) validatePlan(plan *domain.Plan) error {
	if plan.Name == "" {
		return fmt.Errorf("name is required")
	}
	if plan.Type != domain.PlanTypePPO && plan.Type != domain.PlanTypeHSA {
		return fmt.Errorf("type must be 'PPO' or 'HSA', got %q", plan.Type)
	}

	premium := plan.MonthlyPremium
	if premium.Single.LessThan(decimal.Zero) || premium.TwoParty.LessThan(decimal.Zero) || premium.Family.LessThan(decimal.Zero) {
		return fmt.Errorf("monthly premiums cannot be negative")
	}

	for _, network := range []domain.Network{domain.InNetwork, domain.OutNetwork} {
		for _, tier := range []domain.CoverageTier{domain.TierSingle, domain.TierFamily} {
			deductible := plan.AnnualDeductible.For(network, tier)
			oopMax := plan.OutOfPocketMax.For(network, tier)
			if deductible.LessThan(decimal.Zero) {
				return fmt.Errorf("%s %s deductible cannot be negative", network, tier)
			}
			if oopMax.LessThan(deductible) {
				return fmt.Errorf("%s %s out-of-pocket max cannot be less than the deductible", network, tier)
			}
		}

		if err := validateRule(plan.DefaultCoverage.For(network)); err != nil {
			return fmt.Errorf("default %s coverage: %w", network, err)
		}
	}

	for categoryID, coverage := range plan.CategoryCoverage {
		for _, network := range []domain.Network{domain.InNetwork, domain.OutNetwork} {
			if err := validateRule(coverage.For(network)); err != nil {
				return fmt.Errorf("category %s %s coverage: %w", categoryID, network, err)
			}
		}
	}

	if plan.EmployerHSAContribution != nil {
		if !plan.IsHSA() {
			return fmt.Errorf("employer HSA contribution is only allowed on HSA plans")
		}
		e := plan.EmployerHSAContribution
		if e.Single.LessThan(decimal.Zero) || e.TwoParty.LessThan(decimal.Zero) || e.Family.LessThan(decimal.Zero) {
			return fmt.Errorf("employer HSA contribution cannot be negative")
		}
	}

	return nil
}

// validateRule validates a coverage rule; absent rules are valid
func validateRule(rule *domain.CoverageRule) error {
	if rule == nil {
		return nil
	}
	if rule.Copay != nil && rule.Copay.LessThan(decimal.Zero) {
		return fmt.Errorf("copay cannot be negative")
	}
	if rule.Coinsurance != nil && !isPercent(*rule.Coinsurance) {
		return fmt.Errorf("coinsurance must be between 0 and 100")
	}
	if rule.MaxCoinsurance != nil && rule.MaxCoinsurance.LessThan(decimal.Zero) {
		return fmt.Errorf("max coinsurance cannot be negative")
	}
	return nil
}

func isPercent(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(decimal.Zero) && d.LessThanOrEqual(decimal.NewFromInt(100))
}
