package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of user utilization input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads user inputs from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.UserInputs, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes, defaults and validates user inputs
func (ip *InputParser) Parse(data []byte) (*domain.UserInputs, error) {
	inputs := domain.DefaultUserInputs()
	if err := yaml.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateInputs(&inputs); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}

	return &inputs, nil
}

// ValidateInputs checks ranges the calculation engine assumes
func (ip *InputParser) ValidateInputs(inputs *domain.UserInputs) error {
	if !inputs.CoverageTier.Valid() {
		return fmt.Errorf("coverage tier must be 'single', 'two_party' or 'family', got %q", inputs.CoverageTier)
	}
	if !inputs.AgeGroup.Valid() {
		return fmt.Errorf("age group must be 'under_55' or '55_plus', got %q", inputs.AgeGroup)
	}
	if inputs.TaxRatePercent.LessThan(decimal.Zero) || inputs.TaxRatePercent.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("tax rate percent must be between 0 and 100")
	}
	if inputs.HSAContribution.LessThan(decimal.Zero) {
		return fmt.Errorf("HSA contribution cannot be negative")
	}
	if inputs.FSAContribution.LessThan(decimal.Zero) {
		return fmt.Errorf("FSA contribution cannot be negative")
	}

	for i, estimate := range inputs.CategoryEstimates {
		if err := ip.validateEstimate(&estimate); err != nil {
			return fmt.Errorf("category estimate %d (%s) validation failed: %w", i, estimate.CategoryID, err)
		}
	}

	return nil
}

// validateEstimate validates a single category estimate
func (ip *InputParser) validateEstimate(estimate *domain.CategoryEstimate) error {
	if estimate.CategoryID == "" {
		return fmt.Errorf("category id is required")
	}
	for _, network := range []domain.Network{domain.InNetwork, domain.OutNetwork} {
		usage := estimate.For(network)
		if usage.Quantity < 0 {
			return fmt.Errorf("%s quantity cannot be negative", network)
		}
		if usage.Quantity > domain.MaxVisitsPerNetwork {
			return fmt.Errorf("%s quantity cannot exceed %d, got %d", network, domain.MaxVisitsPerNetwork, usage.Quantity)
		}
		if usage.CostPerVisit.LessThan(decimal.Zero) {
			return fmt.Errorf("%s cost per visit cannot be negative", network)
		}
	}
	return nil
}

// UnknownCategories lists estimate category ids that the catalog has no metadata for.
// These still calculate (they use plan defaults) but usually indicate a typo.
func UnknownCategories(inputs *domain.UserInputs, catalog *domain.PlanCatalog) []string {
	var unknown []string
	seen := map[string]bool{}
	for _, estimate := range inputs.CategoryEstimates {
		if _, ok := catalog.Category(estimate.CategoryID); ok || seen[estimate.CategoryID] {
			continue
		}
		seen[estimate.CategoryID] = true
		unknown = append(unknown, estimate.CategoryID)
	}
	return unknown
}
