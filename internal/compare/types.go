package compare

import (
	"fmt"

	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/rgehrsitz/plancost/internal/output"
	"github.com/shopspring/decimal"
)

// ComparisonResult is one ranked plan with its difference from the cheapest plan
type ComparisonResult struct {
	Rank             int               `json:"rank"`
	Result           domain.PlanResult `json:"result"`
	DiffFromLowest   decimal.Decimal   `json:"diffFromLowest"`
	MonthlyEquivCost decimal.Decimal   `json:"monthlyEquivalentCost"`
}

// ComparisonSet is the ranked outcome of comparing every plan in a catalog
type ComparisonSet struct {
	CoverageYear    int                 `json:"coverageYear"`
	Branding        domain.Branding     `json:"branding"`
	CoverageTier    domain.CoverageTier `json:"coverageTier"`
	Results         []ComparisonResult  `json:"results"`
	Recommendations []string            `json:"recommendations"`
	CatalogPath     string              `json:"catalogPath,omitempty"`
	InputsPath      string              `json:"inputsPath,omitempty"`
}

// Lowest returns the cheapest plan, nil when the catalog was empty
func (cs *ComparisonSet) Lowest() *ComparisonResult {
	if len(cs.Results) == 0 {
		return nil
	}
	return &cs.Results[0]
}

// Find returns the ranked result for a plan name
func (cs *ComparisonSet) Find(planName string) (*ComparisonResult, bool) {
	for i := range cs.Results {
		if cs.Results[i].Result.PlanName == planName {
			return &cs.Results[i], true
		}
	}
	return nil, false
}

// NewComparisonSet ranks already-sorted plan results
func NewComparisonSet(catalog *domain.PlanCatalog, inputs *domain.UserInputs, results []domain.PlanResult) *ComparisonSet {
	compSet := &ComparisonSet{
		CoverageYear: catalog.Year,
		Branding:     catalog.Branding,
		CoverageTier: inputs.CoverageTier,
		Results:      make([]ComparisonResult, 0, len(results)),
	}

	for i, r := range results {
		compSet.Results = append(compSet.Results, ComparisonResult{
			Rank:             i + 1,
			Result:           r,
			DiffFromLowest:   r.TotalCost.Sub(results[0].TotalCost),
			MonthlyEquivCost: r.TotalCost.Div(decimal.NewFromInt(12)).Round(2),
		})
	}

	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet
}

// GenerateRecommendations creates plain-language notes about the ranking
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	lowest := compSet.Lowest()
	if lowest == nil {
		return recommendations
	}

	recommendations = append(recommendations,
		"Lowest Cost: "+lowest.Result.PlanName+" at "+output.FormatCurrency(lowest.Result.TotalCost)+" for the year")

	if len(compSet.Results) > 1 {
		runnerUp := compSet.Results[1]
		recommendations = append(recommendations,
			"Runner Up: "+runnerUp.Result.PlanName+" costs "+output.FormatCurrency(runnerUp.DiffFromLowest)+" more")

		highest := compSet.Results[len(compSet.Results)-1]
		if highest.DiffFromLowest.IsPositive() {
			recommendations = append(recommendations,
				fmt.Sprintf("Spread: choosing %s over %s saves %s", lowest.Result.PlanName,
					highest.Result.PlanName, output.FormatCurrency(highest.DiffFromLowest)))
		}
	}

	for _, r := range compSet.Results {
		if r.Result.TotalCost.IsNegative() {
			recommendations = append(recommendations,
				"Net Gain: "+r.Result.PlanName+" returns "+output.FormatCurrency(r.Result.TotalCost.Abs())+
					" more in tax savings and employer money than it costs")
		}
	}

	for _, r := range compSet.Results {
		if r.Result.ReachedOutOfPocketMax {
			recommendations = append(recommendations,
				"Out-of-Pocket Max: your estimates reach the limit on "+r.Result.PlanName+
					", so additional care this year would be covered in full")
		}
	}

	return recommendations
}
