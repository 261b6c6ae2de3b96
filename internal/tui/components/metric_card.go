package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/plancost/internal/compare"
	"github.com/rgehrsitz/plancost/internal/tui/tuistyles"
)

// MetricCard displays a single dollar figure with label and optional trend
type MetricCard struct {
	Label       string
	Value       string
	Trend       *Trend
	Description string
	Width       int
}

// Trend is a cost change relative to another plan
type Trend struct {
	IsPositive bool // cheaper than the reference
	Change     string
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 24,
	}
}

// WithTrend adds a trend indicator to the metric card
func (m *MetricCard) WithTrend(isPositive bool, change string) *MetricCard {
	m.Trend = &Trend{IsPositive: isPositive, Change: change}
	return m
}

// WithDescription adds a subtitle
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	label := tuistyles.MetricLabelStyle.Render(m.Label)
	value := tuistyles.MetricValueStyle.Render(m.Value)

	var trend string
	if m.Trend != nil {
		arrow := tuistyles.TrendIndicator(m.Trend.IsPositive)
		trend = "\n" + tuistyles.MetricTrendStyle(m.Trend.IsPositive).Render(fmt.Sprintf("%s %s", arrow, m.Trend.Change))
	}

	var desc string
	if m.Description != "" {
		desc = "\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width)

	return cardStyle.Render(label + "\n" + value + trend + desc)
}

// MetricGrid renders cards left to right, wrapping after columns cards
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 || columns <= 0 {
		return ""
	}

	rows := []string{}
	currentRow := []string{}
	for i, card := range cards {
		currentRow = append(currentRow, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, currentRow...))
			currentRow = []string{}
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// PlanSummaryCards builds the headline cards for one ranked plan
func PlanSummaryCards(r compare.ComparisonResult) []*MetricCard {
	total := NewMetricCard("Total Annual Cost", tuistyles.FormatCurrency(r.Result.TotalCost)).
		WithDescription(tuistyles.FormatCurrency(r.MonthlyEquivCost) + " per month")
	if r.Rank == 1 {
		total.WithTrend(true, "lowest cost")
	} else {
		total.WithTrend(false, tuistyles.FormatCurrency(r.DiffFromLowest)+" more")
	}

	oop := NewMetricCard("Out-of-Pocket", tuistyles.FormatCurrency(r.Result.OutOfPocketCosts))
	if r.Result.ReachedOutOfPocketMax {
		oop.WithDescription("OOP max reached")
	}

	credits := r.Result.TaxSavings.Add(r.Result.EmployerContribution)
	return []*MetricCard{
		total,
		NewMetricCard("Premiums", tuistyles.FormatCurrency(r.Result.AnnualPremiums)),
		oop,
		NewMetricCard("Savings & Employer", tuistyles.FormatCurrency(credits)).
			WithDescription("tax savings " + tuistyles.FormatCurrency(r.Result.TaxSavings)),
	}
}
