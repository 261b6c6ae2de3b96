package transform

import (
	"fmt"

	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/shopspring/decimal"
)

// ScaleUtilization multiplies every visit count by Factor.
// Scaled quantities are rounded half up to whole visits.
type ScaleUtilization struct {
	Factor decimal.Decimal
}

func (su *ScaleUtilization) Name() string {
	return "scale_utilization"
}

func (su *ScaleUtilization) Description() string {
	return fmt.Sprintf("Scale all utilization by %sx", su.Factor.String())
}

func (su *ScaleUtilization) Validate(base *domain.UserInputs) error {
	if base == nil {
		return NewTransformError(su.Name(), "validate", "base inputs cannot be nil", nil)
	}
	if su.Factor.IsNegative() {
		return NewTransformError(su.Name(), "validate", fmt.Sprintf("factor must be non-negative, got %s", su.Factor), nil)
	}
	for _, est := range base.CategoryEstimates {
		if err := checkScaledQuantity(su.Name(), est, su.Factor); err != nil {
			return err
		}
	}
	return nil
}

func (su *ScaleUtilization) Apply(base *domain.UserInputs) (*domain.UserInputs, error) {
	modified := base.DeepCopy()
	for i := range modified.CategoryEstimates {
		est := &modified.CategoryEstimates[i]
		est.InNetwork.Quantity = scaleQuantity(est.InNetwork.Quantity, su.Factor)
		est.OutNetwork.Quantity = scaleQuantity(est.OutNetwork.Quantity, su.Factor)
	}
	return modified, nil
}

// ScaleSpending multiplies every cost per visit by Factor, rounded to cents.
// Unlike ScaleUtilization it varies billed amounts continuously.
type ScaleSpending struct {
	Factor decimal.Decimal
}

func (ss *ScaleSpending) Name() string {
	return "scale_spending"
}

func (ss *ScaleSpending) Description() string {
	return fmt.Sprintf("Scale all billed costs by %sx", ss.Factor.String())
}

func (ss *ScaleSpending) Validate(base *domain.UserInputs) error {
	if base == nil {
		return NewTransformError(ss.Name(), "validate", "base inputs cannot be nil", nil)
	}
	if ss.Factor.IsNegative() {
		return NewTransformError(ss.Name(), "validate", fmt.Sprintf("factor must be non-negative, got %s", ss.Factor), nil)
	}
	return nil
}

func (ss *ScaleSpending) Apply(base *domain.UserInputs) (*domain.UserInputs, error) {
	modified := base.DeepCopy()
	for i := range modified.CategoryEstimates {
		est := &modified.CategoryEstimates[i]
		est.InNetwork.CostPerVisit = est.InNetwork.CostPerVisit.Mul(ss.Factor).Round(2)
		est.OutNetwork.CostPerVisit = est.OutNetwork.CostPerVisit.Mul(ss.Factor).Round(2)
	}
	return modified, nil
}

// ScaleCategory multiplies the visit counts of one category by Factor
type ScaleCategory struct {
	CategoryID string
	Factor     decimal.Decimal
}

func (sc *ScaleCategory) Name() string {
	return "scale_category"
}

func (sc *ScaleCategory) Description() string {
	return fmt.Sprintf("Scale %s utilization by %sx", sc.CategoryID, sc.Factor.String())
}

func (sc *ScaleCategory) Validate(base *domain.UserInputs) error {
	if base == nil {
		return NewTransformError(sc.Name(), "validate", "base inputs cannot be nil", nil)
	}
	if sc.CategoryID == "" {
		return NewTransformError(sc.Name(), "validate", "category cannot be empty", nil)
	}
	if sc.Factor.IsNegative() {
		return NewTransformError(sc.Name(), "validate", fmt.Sprintf("factor must be non-negative, got %s", sc.Factor), nil)
	}
	found := false
	for _, est := range base.CategoryEstimates {
		if est.CategoryID != sc.CategoryID {
			continue
		}
		found = true
		if err := checkScaledQuantity(sc.Name(), est, sc.Factor); err != nil {
			return err
		}
	}
	if !found {
		return NewTransformError(sc.Name(), "validate", fmt.Sprintf("category %s not found in inputs", sc.CategoryID), nil)
	}
	return nil
}

func (sc *ScaleCategory) Apply(base *domain.UserInputs) (*domain.UserInputs, error) {
	modified := base.DeepCopy()
	for i := range modified.CategoryEstimates {
		est := &modified.CategoryEstimates[i]
		if est.CategoryID != sc.CategoryID {
			continue
		}
		est.InNetwork.Quantity = scaleQuantity(est.InNetwork.Quantity, sc.Factor)
		est.OutNetwork.Quantity = scaleQuantity(est.OutNetwork.Quantity, sc.Factor)
	}
	return modified, nil
}

// SetCategoryVisits replaces the visit estimate for one category on one network.
// A category missing from the inputs is appended.
type SetCategoryVisits struct {
	CategoryID   string
	Network      domain.Network
	Quantity     int
	CostPerVisit decimal.Decimal
}

func (sv *SetCategoryVisits) Name() string {
	return "set_visits"
}

func (sv *SetCategoryVisits) Description() string {
	return fmt.Sprintf("Set %s %s visits to %d at $%s", sv.CategoryID, sv.Network, sv.Quantity, sv.CostPerVisit.StringFixed(2))
}

func (sv *SetCategoryVisits) Validate(base *domain.UserInputs) error {
	if base == nil {
		return NewTransformError(sv.Name(), "validate", "base inputs cannot be nil", nil)
	}
	if sv.CategoryID == "" {
		return NewTransformError(sv.Name(), "validate", "category cannot be empty", nil)
	}
	if sv.Network != domain.InNetwork && sv.Network != domain.OutNetwork {
		return NewTransformError(sv.Name(), "validate", fmt.Sprintf("unknown network %q", sv.Network), nil)
	}
	if sv.Quantity < 0 {
		return NewTransformError(sv.Name(), "validate", fmt.Sprintf("quantity must be non-negative, got %d", sv.Quantity), nil)
	}
	if sv.Quantity > domain.MaxVisitsPerNetwork {
		return NewTransformError(sv.Name(), "validate",
			fmt.Sprintf("quantity cannot exceed %d, got %d", domain.MaxVisitsPerNetwork, sv.Quantity), nil)
	}
	if sv.CostPerVisit.IsNegative() {
		return NewTransformError(sv.Name(), "validate", "cost per visit must be non-negative", nil)
	}
	return nil
}

func (sv *SetCategoryVisits) Apply(base *domain.UserInputs) (*domain.UserInputs, error) {
	modified := base.DeepCopy()
	util := domain.NetworkUtilization{Quantity: sv.Quantity, CostPerVisit: sv.CostPerVisit}

	for i := range modified.CategoryEstimates {
		est := &modified.CategoryEstimates[i]
		if est.CategoryID != sv.CategoryID {
			continue
		}
		if sv.Network == domain.OutNetwork {
			est.OutNetwork = util
		} else {
			est.InNetwork = util
		}
		return modified, nil
	}

	est := domain.CategoryEstimate{CategoryID: sv.CategoryID}
	if sv.Network == domain.OutNetwork {
		est.OutNetwork = util
	} else {
		est.InNetwork = util
	}
	modified.CategoryEstimates = append(modified.CategoryEstimates, est)
	return modified, nil
}

// checkScaledQuantity rejects a factor that would push either network past the visit limit
func checkScaledQuantity(name string, est domain.CategoryEstimate, factor decimal.Decimal) error {
	limit := decimal.NewFromInt(domain.MaxVisitsPerNetwork)
	for _, network := range []domain.Network{domain.InNetwork, domain.OutNetwork} {
		scaled := decimal.NewFromInt(int64(est.For(network).Quantity)).Mul(factor).Round(0)
		if scaled.GreaterThan(limit) {
			return NewTransformError(name, "validate",
				fmt.Sprintf("%s %s quantity would be %s, above the %d visit limit", est.CategoryID, network, scaled, domain.MaxVisitsPerNetwork), nil)
		}
	}
	return nil
}

func scaleQuantity(quantity int, factor decimal.Decimal) int {
	return int(decimal.NewFromInt(int64(quantity)).Mul(factor).Round(0).IntPart())
}
