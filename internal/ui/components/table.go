package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yildizm/DataSum/internal/dataset"
)

var (
	primaryColor   = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
	secondaryColor = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	selectedColor  = lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A8A"}
	successColor   = lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"}
	warningColor   = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FBBF24"}
	errorColor     = lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"}
)

// DataTable renders a dataset.Table as aligned text columns.
type DataTable struct {
	Table        dataset.Table
	MaxCellWidth int
	// RowLabels are printed in a leading column, e.g. an index or stat names.
	RowLabels []string
	Header    string
}

// NewDataTable creates a table renderer with a cell width cap
func NewDataTable(t dataset.Table, maxCellWidth int) *DataTable {
	return &DataTable{Table: t, MaxCellWidth: maxCellWidth}
}

// WithIndex labels rows 0..n-1
func (d *DataTable) WithIndex() *DataTable {
	d.RowLabels = make([]string, len(d.Table.Rows))
	for i := range d.Table.Rows {
		d.RowLabels[i] = strconv.Itoa(i)
	}
	return d
}

// Truncate shortens s to width display cells, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

func pad(s string, width int, right bool) string {
	if right {
		return runewidth.FillLeft(s, width)
	}
	return runewidth.FillRight(s, width)
}

// Render renders header, separator and rows. Widths are measured in
// terminal cells so wide characters stay aligned.
func (d *DataTable) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(secondaryColor)

	hasLabels := len(d.RowLabels) > 0
	cols := len(d.Table.Columns)
	widths := make([]int, cols)
	labelWidth := 0

	header := make([]string, cols)
	for j, name := range d.Table.Columns {
		header[j] = Truncate(name, d.MaxCellWidth)
		widths[j] = runewidth.StringWidth(header[j])
	}
	cells := make([][]string, len(d.Table.Rows))
	for i, row := range d.Table.Rows {
		cells[i] = make([]string, cols)
		for j := 0; j < cols && j < len(row); j++ {
			cells[i][j] = Truncate(row[j], d.MaxCellWidth)
			if w := runewidth.StringWidth(cells[i][j]); w > widths[j] {
				widths[j] = w
			}
		}
		if hasLabels && i < len(d.RowLabels) {
			if w := runewidth.StringWidth(d.RowLabels[i]); w > labelWidth {
				labelWidth = w
			}
		}
	}

	numeric := make([]bool, cols)
	for j := range numeric {
		numeric[j] = columnLooksNumeric(cells, j)
	}

	var lines []string
	if d.Header != "" {
		lines = append(lines, headerStyle.Render(d.Header))
	}

	var b strings.Builder
	if hasLabels {
		b.WriteString(strings.Repeat(" ", labelWidth) + "  ")
	}
	for j, h := range header {
		if j > 0 {
			b.WriteString("  ")
		}
		b.WriteString(pad(h, widths[j], numeric[j]))
	}
	lines = append(lines, headerStyle.Render(b.String()))

	total := labelWidth
	if hasLabels {
		total += 2
	}
	for j, w := range widths {
		total += w
		if j > 0 {
			total += 2
		}
	}
	lines = append(lines, mutedStyle.Render(strings.Repeat("─", total)))

	for i, row := range cells {
		b.Reset()
		if hasLabels {
			label := ""
			if i < len(d.RowLabels) {
				label = d.RowLabels[i]
			}
			b.WriteString(mutedStyle.Render(pad(label, labelWidth, false)) + "  ")
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteString("  ")
			}
			b.WriteString(pad(cell, widths[j], numeric[j]))
		}
		lines = append(lines, b.String())
	}

	if len(cells) == 0 {
		lines = append(lines, mutedStyle.Render("(no rows)"))
	}
	return strings.Join(lines, "\n")
}

func columnLooksNumeric(cells [][]string, j int) bool {
	seen := false
	for _, row := range cells {
		v := row[j]
		if v == "" || v == "NaN" {
			continue
		}
		if !isNumber(v) {
			return false
		}
		seen = true
	}
	return seen
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
