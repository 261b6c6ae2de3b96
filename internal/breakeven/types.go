package breakeven

import (
	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/shopspring/decimal"
)

// Request asks at what level of medical spending two plans cost the same.
// Spending is varied by scaling every cost per visit in Inputs.
type Request struct {
	Catalog *domain.PlanCatalog
	Inputs  *domain.UserInputs
	PlanA   string
	PlanB   string

	// MinFactor and MaxFactor bound the spending multiplier searched
	MinFactor decimal.Decimal
	MaxFactor decimal.Decimal
}

// SweepPoint is one evaluation of both plans at a spending multiplier
type SweepPoint struct {
	Factor      decimal.Decimal `json:"factor"`
	TotalBilled decimal.Decimal `json:"total_billed"`
	TotalCostA  decimal.Decimal `json:"total_cost_a"`
	TotalCostB  decimal.Decimal `json:"total_cost_b"`
	Difference  decimal.Decimal `json:"difference"` // A minus B
}

// Result describes the crossover between two plans, if any
type Result struct {
	PlanA string `json:"plan_a"`
	PlanB string `json:"plan_b"`

	// Found is false when one plan is cheaper across the whole range
	Found      bool            `json:"found"`
	Factor     decimal.Decimal `json:"factor"`
	Billed     decimal.Decimal `json:"billed"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	Iterations int             `json:"iterations"`

	// CheaperBelow is the plan that wins at spending under the break-even point
	CheaperBelow string `json:"cheaper_below,omitempty"`
	CheaperAbove string `json:"cheaper_above,omitempty"`

	BaseBilled decimal.Decimal `json:"base_billed"`
	Sweep      []SweepPoint    `json:"sweep"`
}

// SolverOptions configures the sweep and bisection
type SolverOptions struct {
	SweepSteps    int             // Evenly spaced points between MinFactor and MaxFactor
	Tolerance     decimal.Decimal // Dollar difference treated as equal
	MaxIterations int             // Bisection iteration cap
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		SweepSteps:    20,
		Tolerance:     decimal.NewFromFloat(0.50),
		MaxIterations: 50,
	}
}

// DefaultMaxFactor bounds the search at five times the estimated spending
var DefaultMaxFactor = decimal.NewFromInt(5)

// Validate checks request consistency
func (r *Request) Validate() error {
	if r.Catalog == nil || r.Inputs == nil {
		return &BreakEvenError{Operation: "validate_request", Message: "catalog and inputs are required"}
	}
	if r.PlanA == "" || r.PlanB == "" {
		return &BreakEvenError{Operation: "validate_request", Message: "two plan names are required"}
	}
	if r.PlanA == r.PlanB {
		return &BreakEvenError{Operation: "validate_request", Message: "plans must differ"}
	}
	if r.MinFactor.IsNegative() {
		return &BreakEvenError{Operation: "validate_request", Message: "min factor cannot be negative"}
	}
	if !r.MaxFactor.GreaterThan(r.MinFactor) {
		return &BreakEvenError{Operation: "validate_request", Message: "max factor must be greater than min factor"}
	}
	return nil
}

// BreakEvenError represents errors from the break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
