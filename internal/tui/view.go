package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderError()
	}

	if m.loading {
		return m.renderLoading()
	}

	var content string
	switch m.currentScene {
	case ScenePlans:
		content = m.renderPlans()
	case SceneLedger:
		content = m.renderLedger()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	return AppStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		content,
		m.renderStatusBar(),
	))
}

// renderTitleBar renders the catalog title and breadcrumb
func (m Model) renderTitleBar() string {
	titleText := "Medical Plan Cost Comparison"
	if m.catalog != nil && m.catalog.Branding.Title != "" {
		titleText = m.catalog.Branding.Title
	}
	title := TitleStyle.Render(titleText)

	crumbs := []string{m.currentScene.String()}
	if m.currentScene == SceneLedger && m.selectedPlan != "" {
		crumbs = append(crumbs, m.selectedPlan)
	}
	if m.inputs != nil {
		crumbs = append(crumbs, fmt.Sprintf("tier: %s", m.inputs.CoverageTier), fmt.Sprintf("age: %s", m.inputs.AgeGroup))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(strings.Join(crumbs, " / ")))
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{}
	for _, b := range m.keys.statusBindings(m.currentScene) {
		shortcuts = append(shortcuts, StatusKeyStyle.Render(b.Help().Key)+" "+b.Help().Desc)
	}
	return StatusBarStyle.Width(max(20, m.width-2)).Render(strings.Join(shortcuts, " • "))
}

func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Loading..."
	}
	return m.renderApp(BorderStyle.Render("⠋ " + message))
}

func (m Model) renderError() string {
	return m.renderApp(ErrorStyle.Render(
		fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err.Error()),
	))
}

// renderPlans renders the ranked plan table and recommendations
func (m Model) renderPlans() string {
	if m.compSet == nil || len(m.compSet.Results) == 0 {
		return BorderStyle.Render("No plans to compare.")
	}

	var sb strings.Builder
	sb.WriteString(BorderStyle.Render(m.plans.View()))
	sb.WriteString("\n")
	for _, rec := range m.compSet.Recommendations {
		sb.WriteString(InfoStyle.Render("• "+rec) + "\n")
	}
	return sb.String()
}

func (m Model) renderLedger() string {
	return BorderStyle.Render(m.ledger.View())
}

func (m Model) renderHelp() string {
	helpText := `
KEYBOARD SHORTCUTS:
  ↑/↓ or k/j  Move through plans, scroll the ledger
  enter       Show the itemized ledger for the selected plan
  t           Cycle coverage tier (single, two_party, family)
  a           Toggle age group (under 55, 55+)
  ?           Show this help
  esc         Go back
  q/Ctrl+C    Quit

Totals are premiums plus out-of-pocket costs, less tax savings
and employer HSA contributions. Lower is better.
`
	return BorderStyle.Render(helpText)
}
