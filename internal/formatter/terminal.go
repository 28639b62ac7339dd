package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/DataSum/internal/analyzer"
	"github.com/yildizm/DataSum/internal/emoji"
	"github.com/yildizm/DataSum/internal/ui/components"
)

const (
	defaultChartWidth  = 60
	defaultChartHeight = 16
	maxCellWidth       = 18
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts        *termfmt.TerminalOptions
	chartWidth  int
	chartHeight int
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	return NewTerminalWithChartSize(color, defaultChartWidth, defaultChartHeight)
}

// NewTerminalWithChartSize creates a terminal formatter that draws charts
// in a width x height cell canvas
func NewTerminalWithChartSize(color bool, width, height int) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	if width <= 0 {
		width = defaultChartWidth
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	return &terminalFormatter{opts: opts, chartWidth: width, chartHeight: height}
}

func (f *terminalFormatter) Format(analysis *analyzer.Analysis) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b)
	f.writeDataset(&b, analysis)
	f.writePreview(&b, analysis)
	f.writeStatistics(&b, analysis)
	f.writeColumns(&b, analysis)

	if analysis.Chart != nil {
		f.writeChart(&b, analysis)
	}

	f.writeObservations(&b, analysis)

	return []byte(b.String()), nil
}

// writeHeader writes a box-drawn header
func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "Data Analysis Summary"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeDataset writes dataset facts as a tree
func (f *terminalFormatter) writeDataset(b *strings.Builder, analysis *analyzer.Analysis) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Dataset\n")

	info := analysis.Dataset
	items := []termfmt.TreeItem{
		{Label: "Name", Value: info.Name},
		{Label: "Format", Value: info.Format},
		{Label: "Rows", Value: formatNumber(info.Rows)},
		{Label: "Columns", Value: formatNumber(info.Columns)},
		{Label: "Missing Cells", Value: fmt.Sprintf("%s (%.1f%%)", formatNumber(analysis.MissingCells()), missingRate(analysis)), Last: true},
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

func (f *terminalFormatter) writePreview(b *strings.Builder, analysis *analyzer.Analysis) {
	w := analysis.Window
	fmt.Fprintf(b, "%s Preview (first %d of %s rows, slider %d-%d)\n",
		emoji.GetEmoji("preview"), len(analysis.Preview.Rows), formatNumber(analysis.Dataset.Rows), w.Min, w.Max)
	b.WriteString(components.NewDataTable(analysis.Preview, maxCellWidth).WithIndex().Render())
	b.WriteString("\n\n")
}

func (f *terminalFormatter) writeStatistics(b *strings.Builder, analysis *analyzer.Analysis) {
	b.WriteString(emoji.GetEmoji("statistics") + " Statistics\n")
	if analysis.Statistics == nil {
		b.WriteString("(not computed)\n\n")
		return
	}
	b.WriteString(components.NewDataTable(analysis.Statistics.Table(), maxCellWidth).Render())
	b.WriteString("\n\n")
}

// writeColumns lists every column with its dtype and completeness
func (f *terminalFormatter) writeColumns(b *strings.Builder, analysis *analyzer.Analysis) {
	b.WriteString(emoji.GetEmoji("columns") + " Column Types\n")

	items := make([]termfmt.TreeItem, 0, len(analysis.Columns))
	for i, c := range analysis.Columns {
		item := termfmt.TreeItem{
			Label: fmt.Sprintf("%s %s", emoji.ForKind(c.Kind.String()), c.Name),
			Value: c.DType,
			Last:  i == len(analysis.Columns)-1,
		}
		if c.Missing > 0 {
			bar := createCompletenessBar(completeness(c, analysis.Dataset.Rows))
			item.Children = []termfmt.TreeItem{
				{Label: bar + " " + fmt.Sprintf("%s missing", formatNumber(c.Missing)), Value: ""},
			}
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		b.WriteString("(no columns)\n\n")
		return
	}
	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

func (f *terminalFormatter) writeChart(b *strings.Builder, analysis *analyzer.Analysis) {
	b.WriteString(emoji.GetEmoji("chart") + " " + analysis.Chart.Request.Type.Title() + "\n")
	b.WriteString(components.NewChartCanvas(analysis.Chart, f.chartWidth, f.chartHeight).Render())
	b.WriteString("\n\n")
}

func (f *terminalFormatter) writeObservations(b *strings.Builder, analysis *analyzer.Analysis) {
	symbol := termfmt.GetEmoji("insights", f.opts)
	b.WriteString(symbol + " Observations\n")

	for i, obs := range generateObservations(analysis) {
		if i < 5 {
			b.WriteString("• " + obs + "\n")
		}
	}
}
