package calculation

import (
	"github.com/rgehrsitz/plancost/internal/domain"
)

// ResolveCoverage returns the coverage rule for a category on a network.
// Categories the plan does not list, or lists without a rule for the network,
// fall back to the plan's default coverage for that network.
func ResolveCoverage(plan *domain.Plan, categoryID string, network domain.Network) *domain.CoverageRule {
	if cc, ok := plan.CategoryCoverage[categoryID]; ok {
		if rule := cc.For(network); rule != nil {
			return rule
		}
	}
	return plan.DefaultCoverage.For(network)
}
