package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/plancost/internal/compare"
	"github.com/rgehrsitz/plancost/internal/config"
	"github.com/rgehrsitz/plancost/internal/domain"
	"github.com/rgehrsitz/plancost/internal/output"
	"github.com/rgehrsitz/plancost/internal/tui/components"
)

// Options selects the catalog and inputs the TUI starts with
type Options struct {
	CatalogPath string // YAML catalog; empty uses the built-in catalog for Year
	Year        int    // built-in catalog year; 0 means latest
	InputsPath  string // YAML inputs; empty uses defaults with no estimates
}

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	options Options
	keys    keyMap

	// Data
	catalog *domain.PlanCatalog
	inputs  *domain.UserInputs
	engine  *compare.CompareEngine
	compSet *compare.ComparisonSet

	// Scene widgets
	plans        table.Model
	ledger       viewport.Model
	selectedPlan string

	// Error state
	err error

	// Loading state
	loading        bool
	loadingMessage string
}

// NewModel creates a model that loads its data in Init
func NewModel(options Options) Model {
	return Model{
		currentScene:   ScenePlans,
		options:        options,
		keys:           defaultKeyMap(),
		engine:         compare.NewCompareEngine(nil),
		plans:          newPlansTable(),
		ledger:         viewport.New(80, 18),
		width:          80,
		height:         24,
		loading:        true,
		loadingMessage: "Loading plan catalog...",
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadDataCmd(m.options)
}

// loadDataCmd returns a command that loads the catalog and the user inputs
func loadDataCmd(options Options) tea.Cmd {
	return func() tea.Msg {
		loader := config.NewCatalogLoader()

		var catalog *domain.PlanCatalog
		var err error
		if options.CatalogPath != "" {
			catalog, err = loader.LoadFromFile(options.CatalogPath)
		} else {
			year := options.Year
			if year == 0 {
				year = config.LatestYear()
			}
			catalog, err = loader.DefaultCatalog(year)
		}
		if err != nil {
			return ErrorMsg{Err: err}
		}

		inputs := domain.DefaultUserInputs()
		if options.InputsPath != "" {
			loaded, err := config.NewInputParser().LoadFromFile(options.InputsPath)
			if err != nil {
				return ErrorMsg{Err: err}
			}
			inputs = *loaded
		}

		return DataLoadedMsg{Catalog: catalog, Inputs: &inputs}
	}
}

// compareCmd runs a comparison off the UI goroutine; inputs is copied so later edits do not race
func compareCmd(engine *compare.CompareEngine, catalog *domain.PlanCatalog, inputs domain.UserInputs) tea.Cmd {
	return func() tea.Msg {
		compSet, err := engine.Compare(catalog, &inputs, compare.CompareOptions{})
		return ComparisonCompleteMsg{Set: compSet, Err: err}
	}
}

func newPlansTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Plan", Width: 22},
		{Title: "Type", Width: 5},
		{Title: "Premiums", Width: 12},
		{Title: "Out-of-Pocket", Width: 13},
		{Title: "Credits", Width: 12},
		{Title: "Total", Width: 12},
		{Title: "vs Lowest", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(ColorPrimary).Bold(true)
	styles.Selected = TableHighlightStyle
	t.SetStyles(styles)
	return t
}

// planRows converts a comparison set into table rows
func planRows(compSet *compare.ComparisonSet) []table.Row {
	rows := make([]table.Row, 0, len(compSet.Results))
	for _, r := range compSet.Results {
		diff := "lowest"
		if r.Rank > 1 {
			diff = "+" + FormatCurrency(r.DiffFromLowest)
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", r.Rank),
			r.Result.PlanName,
			string(r.Result.PlanType),
			FormatCurrency(r.Result.AnnualPremiums),
			FormatCurrency(r.Result.OutOfPocketCosts),
			FormatCurrency(r.Result.TaxSavings.Add(r.Result.EmployerContribution).Neg()),
			FormatCurrency(r.Result.TotalCost),
			diff,
		})
	}
	return rows
}

// ledgerContent renders the summary cards and itemized ledger for one plan
func (m Model) ledgerContent(planName string) string {
	if m.compSet == nil {
		return ""
	}
	r, ok := m.compSet.Find(planName)
	if !ok {
		return fmt.Sprintf("%s is not in the current comparison", planName)
	}

	report := output.NewLedgerReport(m.catalog, m.inputs, r.Result)
	text, err := output.ConsoleLedgerFormatter{}.Format(report)
	if err != nil {
		return err.Error()
	}

	return components.MetricGrid(components.PlanSummaryCards(*r), 4) + "\n\n" + string(text)
}

// nextTier cycles single → two_party → family
func nextTier(tier domain.CoverageTier) domain.CoverageTier {
	switch tier {
	case domain.TierSingle:
		return domain.TierTwoParty
	case domain.TierTwoParty:
		return domain.TierFamily
	default:
		return domain.TierSingle
	}
}

func toggleAgeGroup(group domain.AgeGroup) domain.AgeGroup {
	if group == domain.Age55Plus {
		return domain.AgeUnder55
	}
	return domain.Age55Plus
}

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case ScenePlans:
		return "Plans"
	case SceneLedger:
		return "Ledger"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}
