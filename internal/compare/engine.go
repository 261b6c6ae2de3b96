package compare

import (
	"fmt"

	"github.com/rgehrsitz/plancost/internal/calculation"
	"github.com/rgehrsitz/plancost/internal/domain"
)

// CompareEngine orchestrates a plan comparison and builds the ranked set
type CompareEngine struct {
	Comparator *calculation.PlanComparator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(comparator *calculation.PlanComparator) *CompareEngine {
	if comparator == nil {
		comparator = calculation.NewPlanComparator()
	}
	return &CompareEngine{Comparator: comparator}
}

// CompareOptions narrows a comparison
type CompareOptions struct {
	PlanNames []string // only compare these plans; empty means all
	PlanType  domain.PlanType
}

// Compare evaluates the catalog's plans and ranks them
func (ce *CompareEngine) Compare(
	catalog *domain.PlanCatalog,
	inputs *domain.UserInputs,
	options CompareOptions,
) (*ComparisonSet, error) {

	filtered, err := filterCatalog(catalog, options)
	if err != nil {
		return nil, err
	}

	results := ce.Comparator.CompareAll(filtered, inputs)
	return NewComparisonSet(filtered, inputs, results), nil
}

// filterCatalog returns a shallow copy of the catalog restricted to the requested plans
func filterCatalog(catalog *domain.PlanCatalog, options CompareOptions) (*domain.PlanCatalog, error) {
	if len(options.PlanNames) == 0 && options.PlanType == "" {
		return catalog, nil
	}

	filtered := *catalog
	filtered.Plans = nil

	if len(options.PlanNames) > 0 {
		for _, name := range options.PlanNames {
			plan, ok := catalog.FindPlan(name)
			if !ok {
				return nil, fmt.Errorf("plan %s not found in catalog", name)
			}
			if options.PlanType == "" || plan.Type == options.PlanType {
				filtered.Plans = append(filtered.Plans, *plan)
			}
		}
		return &filtered, nil
	}

	for _, plan := range catalog.Plans {
		if plan.Type == options.PlanType {
			filtered.Plans = append(filtered.Plans, plan)
		}
	}
	return &filtered, nil
}
