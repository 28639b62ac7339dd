package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yildizm/DataSum/internal/dataset"
)

// RecordViewer shows one dataset row as a list of column/value pairs.
type RecordViewer struct {
	Title        string
	Dataset      *dataset.Dataset
	CurrentIndex int
	Width        int
	Height       int
	ShowDType    bool
}

// NewRecordViewer creates a new record viewer
func NewRecordViewer(title string, ds *dataset.Dataset, width, height int) *RecordViewer {
	return &RecordViewer{
		Title:     title,
		Dataset:   ds,
		Width:     width,
		Height:    height,
		ShowDType: true,
	}
}

// SetIndex jumps to row i, clamped to the dataset
func (v *RecordViewer) SetIndex(i int) {
	if v.Dataset == nil {
		return
	}
	v.CurrentIndex = max(0, min(i, v.Dataset.Rows()-1))
}

// Next moves to the next row
func (v *RecordViewer) Next() bool {
	if v.Dataset != nil && v.CurrentIndex < v.Dataset.Rows()-1 {
		v.CurrentIndex++
		return true
	}
	return false
}

// Previous moves to the previous row
func (v *RecordViewer) Previous() bool {
	if v.CurrentIndex > 0 {
		v.CurrentIndex--
		return true
	}
	return false
}

// Render renders the current record
func (v *RecordViewer) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(secondaryColor)
	panelStyle := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(secondaryColor).Padding(0, 1)

	if v.Dataset == nil || v.Dataset.Rows() == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			headerStyle.Render(v.Title),
			"",
			mutedStyle.Render("No rows to display"),
		)
		return panelStyle.Width(v.Width).Render(content)
	}

	row, err := v.Dataset.Row(v.CurrentIndex)
	if err != nil {
		return panelStyle.Width(v.Width).Render(lipgloss.NewStyle().Foreground(errorColor).Render(err.Error()))
	}

	content := []string{
		headerStyle.Render(fmt.Sprintf("%s (row %d of %d)", v.Title, v.CurrentIndex+1, v.Dataset.Rows())),
		"",
	}

	columns := v.Dataset.Columns()
	nameWidth := 0
	for _, c := range columns {
		nameWidth = max(nameWidth, runewidth.StringWidth(c.Name))
	}

	for i, c := range columns {
		name := runewidth.FillRight(c.Name, nameWidth)
		value := v.formatValue(row[i])
		line := fmt.Sprintf("%s  %s", headerStyle.Render(name), value)
		if v.ShowDType {
			line += "  " + mutedStyle.Render(c.DType)
		}
		content = append(content, line)
	}

	if v.Dataset.Rows() > 1 {
		content = append(content, "", mutedStyle.Render("Use ←/→ or h/l to move between rows, esc to close"))
	}

	joined := lipgloss.JoinVertical(lipgloss.Left, content...)
	return panelStyle.Width(v.Width).Render(joined)
}

// formatValue dims missing values
func (v *RecordViewer) formatValue(value string) string {
	if value == "NaN" {
		return lipgloss.NewStyle().Foreground(warningColor).Italic(true).Render(value)
	}
	return strings.TrimSpace(value)
}
