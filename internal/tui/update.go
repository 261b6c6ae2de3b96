package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// Standard tea.Msg types
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.plans.SetHeight(max(3, m.height-8))
		m.ledger.Width = max(20, m.width-4)
		m.ledger.Height = max(3, m.height-6)
		return m, nil

	// Custom messages
	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case DataLoadedMsg:
		m.catalog = msg.Catalog
		m.inputs = msg.Inputs
		return m.startComparison()

	case ComparisonCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.compSet = msg.Set
		m.plans.SetRows(planRows(msg.Set))
		if m.selectedPlan != "" {
			m.ledger.SetContent(m.ledgerContent(m.selectedPlan))
		}
		return m, nil
	}

	// Delegate to scene-specific update handlers
	return m.updateCurrentScene(msg)
}

// startComparison marks the model busy and schedules a comparison
func (m Model) startComparison() (tea.Model, tea.Cmd) {
	if m.catalog == nil || m.inputs == nil {
		return m, nil
	}
	m.loading = true
	m.loadingMessage = "Comparing plans..."
	return m, compareCmd(m.engine, m.catalog, *m.inputs)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// Any key dismisses an error
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	if m.loading {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		if m.currentScene != SceneHelp {
			return m, func() tea.Msg {
				return NavigateMsg{Scene: SceneHelp}
			}
		}

	case key.Matches(msg, m.keys.Back):
		if m.currentScene == SceneHelp && m.previousScene != SceneHelp {
			previous := m.previousScene
			return m, func() tea.Msg {
				return NavigateMsg{Scene: previous}
			}
		}
		if m.currentScene != ScenePlans {
			return m, func() tea.Msg {
				return NavigateMsg{Scene: ScenePlans}
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if m.currentScene == ScenePlans {
			row := m.plans.SelectedRow()
			if row == nil {
				return m, nil
			}
			m.selectedPlan = row[1]
			m.ledger.SetContent(m.ledgerContent(m.selectedPlan))
			m.ledger.GotoTop()
			return m, func() tea.Msg {
				return NavigateMsg{Scene: SceneLedger}
			}
		}

	case key.Matches(msg, m.keys.Tier):
		if m.inputs != nil {
			inputs := *m.inputs
			inputs.CoverageTier = nextTier(inputs.CoverageTier)
			m.inputs = &inputs
			return m.startComparison()
		}

	case key.Matches(msg, m.keys.AgeGroup):
		if m.inputs != nil {
			inputs := *m.inputs
			inputs.AgeGroup = toggleAgeGroup(inputs.AgeGroup)
			m.inputs = &inputs
			return m.startComparison()
		}
	}

	// Let the current scene handle other keys
	return m.updateCurrentScene(msg)
}

// updateCurrentScene delegates updates to the current scene's widget
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case ScenePlans:
		m.plans, cmd = m.plans.Update(msg)
	case SceneLedger:
		m.ledger, cmd = m.ledger.Update(msg)
	}
	return m, cmd
}
