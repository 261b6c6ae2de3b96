package tui

import (
	"github.com/rgehrsitz/plancost/internal/compare"
	"github.com/rgehrsitz/plancost/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	ScenePlans Scene = iota
	SceneLedger
	SceneHelp
)

// Message types for the Bubble Tea update cycle

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// DataLoadedMsg signals the catalog and inputs have been loaded
type DataLoadedMsg struct {
	Catalog *domain.PlanCatalog
	Inputs  *domain.UserInputs
}

// ComparisonStartedMsg signals a comparison has begun
type ComparisonStartedMsg struct {
	Tier domain.CoverageTier
}

// ComparisonCompleteMsg signals a comparison has finished
type ComparisonCompleteMsg struct {
	Set *compare.ComparisonSet
	Err error
}
