package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the explorer key bindings
type keyMap struct {
	Preview    key.Binding
	Statistics key.Binding
	Columns    key.Binding
	Chart      key.Binding
	NextView   key.Binding
	PrevView   key.Binding

	MoreRows    key.Binding
	FewerRows   key.Binding
	SliderRight key.Binding
	SliderLeft  key.Binding
	Open        key.Binding

	ChartType key.Binding
	XColumn   key.Binding
	YColumn   key.Binding
	Category  key.Binding
	Value     key.Binding

	Up   key.Binding
	Down key.Binding

	Help key.Binding
	Back key.Binding
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Preview:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "preview")),
		Statistics: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "statistics")),
		Columns:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "columns")),
		Chart:      key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "chart")),
		NextView:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		PrevView:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous view")),

		MoreRows:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more rows")),
		FewerRows:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "fewer rows")),
		SliderRight: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "more rows")),
		SliderLeft:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "fewer rows")),
		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open row")),

		ChartType: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "chart type")),
		XColumn:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "x column")),
		YColumn:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "y column")),
		Category:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "category")),
		Value:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "value")),

		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),

		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns the bindings shown in the footer
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextView, k.MoreRows, k.FewerRows, k.ChartType, k.Help, k.Quit}
}

// FullHelp returns the bindings shown on the help screen
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Preview, k.Statistics, k.Columns, k.Chart, k.NextView, k.PrevView},
		{k.MoreRows, k.FewerRows, k.SliderRight, k.SliderLeft, k.Open, k.Up, k.Down},
		{k.ChartType, k.XColumn, k.YColumn, k.Category, k.Value},
		{k.Help, k.Back, k.Quit},
	}
}
