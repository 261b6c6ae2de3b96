package transform

import (
	"sort"
	"strings"

	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in what-if templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template is a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []InputTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates returns the common what-if scenarios
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "light_use",
		Description: "Half the estimated visits",
		Transforms: []InputTransform{
			&ScaleUtilization{Factor: decimal.NewFromFloat(0.5)},
		},
	})

	registry.Register(Template{
		Name:        "heavy_use",
		Description: "Double the estimated visits",
		Transforms: []InputTransform{
			&ScaleUtilization{Factor: decimal.NewFromInt(2)},
		},
	})

	registry.Register(Template{
		Name:        "no_use",
		Description: "Premiums and contributions only, no care",
		Transforms: []InputTransform{
			&ScaleUtilization{Factor: decimal.Zero},
		},
	})

	registry.Register(Template{
		Name:        "add_spouse",
		Description: "Move to two-party coverage",
		Transforms: []InputTransform{
			&SetCoverageTier{Tier: domain.TierTwoParty},
		},
	})

	registry.Register(Template{
		Name:        "family",
		Description: "Move to family coverage",
		Transforms: []InputTransform{
			&SetCoverageTier{Tier: domain.TierFamily},
		},
	})

	registry.Register(Template{
		Name:        "no_accounts",
		Description: "Skip HSA and FSA contributions",
		Transforms: []InputTransform{
			&SetHSAContribution{Amount: decimal.Zero},
			&SetFSAContribution{Amount: decimal.Zero},
		},
	})

	return registry
}
