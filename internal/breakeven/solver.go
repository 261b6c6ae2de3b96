package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/plancost/internal/calculation"
	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/rgehrsitz/plancost/internal/transform"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Solver finds the spending level at which two plans cost the same
type Solver struct {
	Comparator *calculation.PlanComparator
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(comparator *calculation.PlanComparator, options SolverOptions) *Solver {
	return &Solver{
		Comparator: comparator,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(comparator *calculation.PlanComparator) *Solver {
	return NewSolver(comparator, DefaultSolverOptions())
}

// Solve sweeps the spending range for a sign change in the cost difference
// and bisects the first bracket found. HSA prescription copays start once the
// deductible is met, so the difference can step across zero; bisection then
// returns the closest point it evaluated.
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	if req.MaxFactor.IsZero() && req.MinFactor.IsZero() {
		req.MaxFactor = DefaultMaxFactor
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	planA, ok := req.Catalog.FindPlan(req.PlanA)
	if !ok {
		return nil, &BreakEvenError{Operation: "solve", Message: fmt.Sprintf("plan %s not found in catalog", req.PlanA)}
	}
	planB, ok := req.Catalog.FindPlan(req.PlanB)
	if !ok {
		return nil, &BreakEvenError{Operation: "solve", Message: fmt.Sprintf("plan %s not found in catalog", req.PlanB)}
	}

	steps := s.Options.SweepSteps
	if steps < 1 {
		steps = DefaultSolverOptions().SweepSteps
	}

	result := &Result{
		PlanA:      planA.Name,
		PlanB:      planB.Name,
		BaseBilled: totalBilled(req.Inputs),
	}

	eval := func(factor decimal.Decimal) (SweepPoint, error) {
		select {
		case <-ctx.Done():
			return SweepPoint{}, ctx.Err()
		default:
		}
		return s.evaluate(req, planA, planB, factor)
	}

	width := req.MaxFactor.Sub(req.MinFactor).Div(decimal.NewFromInt(int64(steps)))
	for i := 0; i <= steps; i++ {
		factor := req.MinFactor.Add(width.Mul(decimal.NewFromInt(int64(i))))
		point, err := eval(factor)
		if err != nil {
			return nil, err
		}
		result.Sweep = append(result.Sweep, point)
	}

	for i, point := range result.Sweep {
		if point.Difference.Abs().LessThanOrEqual(s.Options.Tolerance) {
			s.settle(result, point)
			return result, nil
		}
		if i == 0 {
			continue
		}
		prev := result.Sweep[i-1]
		if prev.Difference.Sign() == point.Difference.Sign() {
			continue
		}

		crossing, iterations, err := s.bisect(prev, point, eval)
		if err != nil {
			return nil, err
		}
		result.Iterations = iterations
		s.settle(result, crossing)
		return result, nil
	}

	cheaper := result.PlanA
	if result.Sweep[0].Difference.IsPositive() {
		cheaper = result.PlanB
	}
	result.CheaperBelow = cheaper
	result.CheaperAbove = cheaper
	s.Comparator.Logger.Debugf("no break-even between %s and %s for factors %s-%s",
		result.PlanA, result.PlanB, req.MinFactor, req.MaxFactor)
	return result, nil
}

// SolveAgainst computes the break-even of baseline against every other plan in the catalog
func (s *Solver) SolveAgainst(ctx context.Context, catalog *domain.PlanCatalog, inputs *domain.UserInputs, baseline string, maxFactor decimal.Decimal) ([]Result, error) {
	if _, ok := catalog.FindPlan(baseline); !ok {
		return nil, &BreakEvenError{Operation: "solve_against", Message: fmt.Sprintf("plan %s not found in catalog", baseline)}
	}

	var results []Result
	for _, plan := range catalog.Plans {
		if plan.Name == baseline {
			continue
		}
		res, err := s.Solve(ctx, Request{
			Catalog:   catalog,
			Inputs:    inputs,
			PlanA:     baseline,
			PlanB:     plan.Name,
			MaxFactor: maxFactor,
		})
		if err != nil {
			return nil, &BreakEvenError{Operation: "solve_against", Message: "failed against " + plan.Name, Cause: err}
		}
		results = append(results, *res)
	}
	return results, nil
}

func (s *Solver) bisect(lo, hi SweepPoint, eval func(decimal.Decimal) (SweepPoint, error)) (SweepPoint, int, error) {
	best := lo
	if hi.Difference.Abs().LessThan(lo.Difference.Abs()) {
		best = hi
	}

	iterations := 0
	for iterations < s.Options.MaxIterations {
		iterations++

		mid, err := eval(lo.Factor.Add(hi.Factor).Div(two).Round(6))
		if err != nil {
			return SweepPoint{}, iterations, err
		}
		if mid.Difference.Abs().LessThan(best.Difference.Abs()) {
			best = mid
		}
		if mid.Difference.Abs().LessThanOrEqual(s.Options.Tolerance) {
			return mid, iterations, nil
		}

		if mid.Difference.Sign() == lo.Difference.Sign() {
			lo = mid
		} else {
			hi = mid
		}
		if hi.Factor.Sub(lo.Factor).LessThan(decimal.New(1, -6)) {
			break
		}
	}

	s.Comparator.Logger.Debugf("bisection stopped after %d iterations at factor %s", iterations, best.Factor)
	return best, iterations, nil
}

func (s *Solver) settle(result *Result, point SweepPoint) {
	result.Found = true
	result.Factor = point.Factor
	result.Billed = point.TotalBilled
	result.TotalCost = point.TotalCostA.Add(point.TotalCostB).Div(two).Round(2)

	for _, p := range result.Sweep {
		if p.Difference.Abs().LessThanOrEqual(s.Options.Tolerance) {
			continue
		}
		if p.Factor.LessThan(point.Factor) {
			result.CheaperBelow = cheaperOf(result, p.Difference)
		} else if p.Factor.GreaterThan(point.Factor) && result.CheaperAbove == "" {
			result.CheaperAbove = cheaperOf(result, p.Difference)
		}
	}
}

func (s *Solver) evaluate(req Request, planA, planB *domain.Plan, factor decimal.Decimal) (SweepPoint, error) {
	scaled, err := transform.ApplyTransforms(req.Inputs, []transform.InputTransform{
		&transform.ScaleSpending{Factor: factor},
	})
	if err != nil {
		return SweepPoint{}, &BreakEvenError{Operation: "evaluate", Message: "failed to scale spending", Cause: err}
	}

	a := s.Comparator.EvaluatePlan(req.Catalog, planA, scaled)
	b := s.Comparator.EvaluatePlan(req.Catalog, planB, scaled)
	return SweepPoint{
		Factor:      factor,
		TotalBilled: totalBilled(scaled),
		TotalCostA:  a.TotalCost,
		TotalCostB:  b.TotalCost,
		Difference:  a.TotalCost.Sub(b.TotalCost),
	}, nil
}

func cheaperOf(result *Result, diff decimal.Decimal) string {
	if diff.IsNegative() {
		return result.PlanA
	}
	return result.PlanB
}

func totalBilled(inputs *domain.UserInputs) decimal.Decimal {
	total := decimal.Zero
	for _, est := range inputs.CategoryEstimates {
		total = total.Add(est.InNetwork.Total()).Add(est.OutNetwork.Total())
	}
	return total
}
