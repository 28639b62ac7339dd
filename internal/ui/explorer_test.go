package ui

import (
	"context"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/dataset"
	"github.com/yildizm/DataSum/internal/emoji"
)

func TestMain(m *testing.M) {
	emoji.SetEmojiDisabled(true)
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func salesDataset(t *testing.T, rows int) *dataset.Dataset {
	t.Helper()
	records := [][]string{{"region", "units", "price"}}
	regions := []string{"North", "South", "East"}
	for i := 0; i < rows; i++ {
		records = append(records, []string{
			regions[i%3],
			strconv.Itoa(i + 1),
			strconv.FormatFloat(float64(i)*1.5, 'f', -1, 64),
		})
	}
	ds, err := dataset.FromRecords("sales.csv", records, nil)
	require.NoError(t, err)
	return ds
}

func loadedModel(t *testing.T, ds *dataset.Dataset) *Model {
	t.Helper()
	m := NewModel(Options{Dataset: ds})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Update(m.Init()())
	require.Equal(t, ViewPreview, m.CurrentView())
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.KeyMsg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func TestExplorerLoadsDataset(t *testing.T) {
	m := loadedModel(t, salesDataset(t, 12))

	analysis := m.Analysis()
	require.NotNil(t, analysis)
	assert.Equal(t, dataset.RowWindow{Min: 5, Max: 12, Value: 10}, analysis.Window)
	assert.Len(t, m.table.Rows(), 10)
	assert.Equal(t, chart.TypeLine, m.request.Type)
	assert.Equal(t, "units", m.request.X)

	view := m.View()
	assert.Contains(t, view, "sales.csv")
	assert.Contains(t, view, "Rows to preview")
	assert.Contains(t, view, "10 rows (5-12)")
}

func TestExplorerSlider(t *testing.T) {
	m := loadedModel(t, salesDataset(t, 12))

	press(m, runes("+"), runes("+"), runes("+"))
	assert.Equal(t, 12, m.Analysis().Window.Value)
	assert.Len(t, m.table.Rows(), 12)

	for i := 0; i < 10; i++ {
		press(m, runes("-"))
	}
	assert.Equal(t, 5, m.Analysis().Window.Value)
	assert.Len(t, m.Analysis().Preview.Rows, 5)

	press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 6, m.Analysis().Window.Value)
	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 5, m.Analysis().Window.Value)
}

func TestExplorerSliderSmallDataset(t *testing.T) {
	m := loadedModel(t, salesDataset(t, 3))

	assert.Equal(t, dataset.RowWindow{Min: 3, Max: 3, Value: 3}, m.Analysis().Window)
	press(m, runes("+"), runes("-"))
	assert.Equal(t, 3, m.Analysis().Window.Value)
}

func TestExplorerViewSwitching(t *testing.T) {
	m := loadedModel(t, salesDataset(t, 12))

	press(m, runes("2"))
	assert.Equal(t, ViewStatistics, m.CurrentView())
	assert.Contains(t, m.View(), "mean")

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ViewColumns, m.CurrentView())
	assert.Contains(t, m.View(), "int64")

	press(m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, ViewPreview, m.CurrentView())

	press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, ViewChart, m.CurrentView())

	press(m, runes("?"))
	assert.Equal(t, ViewHelp, m.CurrentView())
	assert.Contains(t, m.View(), "chart type")

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewChart, m.CurrentView())
}

func TestExplorerChartCycling(t *testing.T) {
	m := loadedModel(t, salesDataset(t, 12))
	press(m, runes("4"))

	press(m, runes("x"))
	assert.Equal(t, "price", m.request.X)
	press(m, runes("x"))
	assert.Equal(t, "units", m.request.X)

	press(m, runes("c"))
	assert.Equal(t, chart.TypeBar, m.request.Type)

	// bar -> scatter -> histogram -> box -> pie
	press(m, runes("c"), runes("c"), runes("c"), runes("c"))
	require.Equal(t, chart.TypePie, m.request.Type)
	result := m.Analysis().Chart
	require.NotNil(t, result.Chart)
	assert.Equal(t, "units by region", result.Chart.Title)

	press(m, runes("v"))
	assert.Equal(t, "price", m.request.Value)
	assert.Equal(t, "price by region", m.Analysis().Chart.Chart.Title)

	press(m, runes("c"))
	assert.Equal(t, chart.TypeHeatmap, m.request.Type)
	assert.Contains(t, m.View(), chart.HeatmapSubtitle)

	press(m, runes("c"))
	assert.Equal(t, chart.TypeLine, m.request.Type)
}

func TestExplorerChartWarnings(t *testing.T) {
	ds, err := dataset.FromRecords("cities.csv", [][]string{{"city"}, {"Oslo"}, {"Rome"}}, nil)
	require.NoError(t, err)
	m := loadedModel(t, ds)

	press(m, runes("4"))
	assert.Equal(t, chart.WarningNoNumeric, m.Analysis().Chart.Warning)
	assert.Contains(t, m.View(), chart.WarningNoNumeric)

	press(m, runes("x"))
	assert.Equal(t, ViewChart, m.CurrentView())

	for m.request.Type != chart.TypePie {
		press(m, runes("c"))
	}
	assert.Equal(t, chart.WarningPie, m.Analysis().Chart.Warning)
	assert.Contains(t, m.View(), chart.WarningPie)
}

func TestExplorerRecordViewer(t *testing.T) {
	m := loadedModel(t, salesDataset(t, 12))

	press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewRecord, m.CurrentView())
	assert.Equal(t, 1, m.record.CurrentIndex)
	assert.Contains(t, m.View(), "row 2 of 12")

	press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.record.CurrentIndex)

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewPreview, m.CurrentView())
}

func TestExplorerLoadError(t *testing.T) {
	m := NewModel(Options{Path: "missing.csv"})
	loader := dataset.NewLoader(dataset.DefaultOptions(), nil)

	msg := LoadCommand(context.Background(), loader, "does-not-exist.csv")()
	m.Update(msg)

	assert.Equal(t, ViewError, m.CurrentView())
	require.Error(t, m.Err())
	assert.Contains(t, m.View(), "does-not-exist.csv")

	press(m, runes("2"))
	assert.Equal(t, ViewError, m.CurrentView())
}

func TestExplorerProgram(t *testing.T) {
	tm := teatest.NewTestModel(t, NewModel(Options{Dataset: salesDataset(t, 20)}),
		teatest.WithInitialTermSize(120, 40))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return strings.Contains(string(bts), "Rows to preview")
	}, teatest.WithDuration(3*time.Second))

	tm.Send(runes("4"))
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return strings.Contains(string(bts), "Line Chart")
	}, teatest.WithDuration(3*time.Second))

	tm.Send(runes("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final, ok := tm.FinalModel(t).(*Model)
	require.True(t, ok)
	assert.Equal(t, ViewChart, final.CurrentView())
	assert.NoError(t, final.Err())
}

func TestThemes(t *testing.T) {
	defer SetThemeByName("default")

	for _, name := range GetAvailableThemes() {
		assert.True(t, SetThemeByName(name), name)
		assert.Equal(t, name, GetTheme().Name)
	}
	assert.False(t, SetThemeByName("neon"))
}
