package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry creates transforms from string parameters for the CLI.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory creates a transform from parameters.
type TransformFactory func(params map[string]string) (InputTransform, error)

// NewTransformRegistry creates a registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("scale_utilization", createScaleUtilization)
	registry.Register("scale_spending", createScaleSpending)
	registry.Register("scale_category", createScaleCategory)
	registry.Register("set_visits", createSetCategoryVisits)
	registry.Register("set_tier", createSetCoverageTier)
	registry.Register("set_age_group", createSetAgeGroup)
	registry.Register("set_hsa", createSetHSAContribution)
	registry.Register("set_fsa", createSetFSAContribution)
	registry.Register("set_tax_rate", createSetTaxRate)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (InputTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}
	return factory(params)
}

// List returns the sorted names of all registered transforms.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransform parses "name:key=value,key=value".
// Example: "scale_category:category=specialist_visit,factor=2"
func (r *TransformRegistry) ParseTransform(expr string) (InputTransform, error) {
	parts := strings.SplitN(expr, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform format, expected 'name:params', got: %s", expr)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// ParseTransforms parses each expr in order
func (r *TransformRegistry) ParseTransforms(exprs []string) ([]InputTransform, error) {
	out := make([]InputTransform, 0, len(exprs))
	for _, expr := range exprs {
		t, err := r.ParseTransform(expr)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func requireParam(transform string, params map[string]string, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == "" {
		return "", fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	return v, nil
}

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	v, err := requireParam(transform, params, key)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func createScaleUtilization(params map[string]string) (InputTransform, error) {
	factor, err := decimalParam("scale_utilization", params, "factor")
	if err != nil {
		return nil, err
	}
	return &ScaleUtilization{Factor: factor}, nil
}

func createScaleSpending(params map[string]string) (InputTransform, error) {
	factor, err := decimalParam("scale_spending", params, "factor")
	if err != nil {
		return nil, err
	}
	return &ScaleSpending{Factor: factor}, nil
}

func createScaleCategory(params map[string]string) (InputTransform, error) {
	category, err := requireParam("scale_category", params, "category")
	if err != nil {
		return nil, err
	}
	factor, err := decimalParam("scale_category", params, "factor")
	if err != nil {
		return nil, err
	}
	return &ScaleCategory{CategoryID: category, Factor: factor}, nil
}

func createSetCategoryVisits(params map[string]string) (InputTransform, error) {
	category, err := requireParam("set_visits", params, "category")
	if err != nil {
		return nil, err
	}
	qtyStr, err := requireParam("set_visits", params, "quantity")
	if err != nil {
		return nil, err
	}
	quantity, err := strconv.Atoi(qtyStr)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity value: %w", err)
	}
	cost, err := decimalParam("set_visits", params, "cost")
	if err != nil {
		return nil, err
	}

	network := domain.InNetwork
	if n, ok := params["network"]; ok {
		switch strings.ToLower(n) {
		case "in", "in_network":
			network = domain.InNetwork
		case "out", "out_network":
			network = domain.OutNetwork
		default:
			return nil, fmt.Errorf("invalid network %q, expected 'in' or 'out'", n)
		}
	}

	return &SetCategoryVisits{
		CategoryID:   category,
		Network:      network,
		Quantity:     quantity,
		CostPerVisit: cost,
	}, nil
}

func createSetCoverageTier(params map[string]string) (InputTransform, error) {
	tier, err := requireParam("set_tier", params, "tier")
	if err != nil {
		return nil, err
	}
	return &SetCoverageTier{Tier: domain.CoverageTier(tier)}, nil
}

func createSetAgeGroup(params map[string]string) (InputTransform, error) {
	group, err := requireParam("set_age_group", params, "group")
	if err != nil {
		return nil, err
	}
	return &SetAgeGroup{AgeGroup: domain.AgeGroup(group)}, nil
}

func createSetHSAContribution(params map[string]string) (InputTransform, error) {
	amount, err := decimalParam("set_hsa", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetHSAContribution{Amount: amount}, nil
}

func createSetFSAContribution(params map[string]string) (InputTransform, error) {
	amount, err := decimalParam("set_fsa", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetFSAContribution{Amount: amount}, nil
}

func createSetTaxRate(params map[string]string) (InputTransform, error) {
	rate, err := decimalParam("set_tax_rate", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetTaxRate{Percent: rate}, nil
}
