package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Back     key.Binding
	Open     key.Binding
	Tier     key.Binding
	AgeGroup key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:     key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ledger")),
		Tier:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "coverage tier")),
		AgeGroup: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "age group")),
	}
}

// statusBindings are the shortcuts shown in the status bar for a scene
func (k keyMap) statusBindings(scene Scene) []key.Binding {
	switch scene {
	case SceneLedger:
		return []key.Binding{k.Back, k.Tier, k.AgeGroup, k.Help, k.Quit}
	case SceneHelp:
		return []key.Binding{k.Back, k.Quit}
	default:
		return []key.Binding{k.Open, k.Tier, k.AgeGroup, k.Help, k.Quit}
	}
}
