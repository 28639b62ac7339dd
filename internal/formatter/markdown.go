package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/DataSum/internal/analyzer"
	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/dataset"
	"github.com/yildizm/DataSum/internal/stats"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(analysis *analyzer.Analysis) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Data Analysis Report\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", analysis.GeneratedAt.Format("2006-01-02 15:04:05")))

	f.writeTableOfContents(&b, analysis)
	f.writeSummaryTable(&b, analysis)

	b.WriteString("## Preview\n\n")
	fmt.Fprintf(&b, "First %d of %s rows (slider range %d to %d).\n\n",
		len(analysis.Preview.Rows), formatNumber(analysis.Dataset.Rows), analysis.Window.Min, analysis.Window.Max)
	writeMarkdownTable(&b, analysis.Preview)

	if analysis.Statistics != nil {
		b.WriteString("## Statistics\n\n")
		writeMarkdownTable(&b, analysis.Statistics.Table())
	}

	f.writeColumnTypes(&b, analysis)

	if analysis.Chart != nil {
		f.writeChartSection(&b, analysis.Chart)
	}

	b.WriteString("## Observations\n\n")
	for _, obs := range generateObservations(analysis) {
		b.WriteString("- " + obs + "\n")
	}

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeTableOfContents(b *strings.Builder, analysis *analyzer.Analysis) {
	b.WriteString("## Table of Contents\n")
	b.WriteString("- [Summary](#summary)\n")
	b.WriteString("- [Preview](#preview)\n")

	if analysis.Statistics != nil {
		b.WriteString("- [Statistics](#statistics)\n")
	}

	b.WriteString("- [Column Types](#column-types)\n")

	if analysis.Chart != nil {
		b.WriteString("- [Chart](#chart)\n")
	}

	b.WriteString("- [Observations](#observations)\n\n")
}

func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, analysis *analyzer.Analysis) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")

	info := analysis.Dataset
	fmt.Fprintf(b, "| Name | %s |\n", escapeMarkdown(info.Name))
	fmt.Fprintf(b, "| Format | %s |\n", info.Format)
	fmt.Fprintf(b, "| Rows | %s |\n", formatNumber(info.Rows))
	fmt.Fprintf(b, "| Columns | %s |\n", formatNumber(info.Columns))
	fmt.Fprintf(b, "| Numeric Columns | %d |\n", len(analysis.NumericColumns()))
	fmt.Fprintf(b, "| Categorical Columns | %d |\n", len(analysis.CategoricalColumns()))
	fmt.Fprintf(b, "| Missing Cells | %s (%.1f%%) |\n\n", formatNumber(analysis.MissingCells()), missingRate(analysis))
}

func (f *markdownFormatter) writeColumnTypes(b *strings.Builder, analysis *analyzer.Analysis) {
	b.WriteString("## Column Types\n\n")
	b.WriteString("| Column | dtype | Kind | Missing |\n")
	b.WriteString("|--------|-------|------|---------|\n")
	for _, c := range analysis.Columns {
		fmt.Fprintf(b, "| %s | %s | %s | %d |\n", escapeMarkdown(c.Name), c.DType, c.Kind, c.Missing)
	}
	b.WriteString("\n")
}

// writeChartSection writes the chart's data, or its warning as a quote
func (f *markdownFormatter) writeChartSection(b *strings.Builder, result *chart.Result) {
	b.WriteString("## Chart\n\n")
	if result.Warned() {
		fmt.Fprintf(b, "> **Warning:** %s\n\n", result.Warning)
		return
	}

	ch := result.Chart
	fmt.Fprintf(b, "### %s\n\n", escapeMarkdown(ch.Title))
	if ch.Subtitle != "" {
		fmt.Fprintf(b, "_%s_\n\n", ch.Subtitle)
	}

	switch ch.Type {
	case chart.TypePie:
		b.WriteString("| Category | Sum | Share |\n")
		b.WriteString("|----------|-----|-------|\n")
		for _, s := range ch.Slices {
			fmt.Fprintf(b, "| %s | %s | %.1f%% |\n", escapeMarkdown(s.Label), stats.FormatFloat(s.Value), s.Share*100)
		}
		b.WriteString("\n")
	case chart.TypeHeatmap:
		writeMarkdownTable(b, matrixTable(ch.Matrix))
	case chart.TypeHistogram:
		b.WriteString("| From | To | Count |\n")
		b.WriteString("|------|----|-------|\n")
		for _, bin := range ch.Bins {
			fmt.Fprintf(b, "| %s | %s | %d |\n", stats.FormatFloat(bin.Low), stats.FormatFloat(bin.High), bin.Count)
		}
		b.WriteString("\n")
	case chart.TypeBox:
		b.WriteString("| Group | Count | Q1 | Median | Q3 | Outliers |\n")
		b.WriteString("|-------|-------|----|--------|----|----------|\n")
		for _, box := range ch.Boxes {
			fmt.Fprintf(b, "| %s | %d | %s | %s | %s | %d |\n", escapeMarkdown(box.Label), box.Count,
				stats.FormatFloat(box.Q1), stats.FormatFloat(box.Median), stats.FormatFloat(box.Q3), len(box.Outliers))
		}
		b.WriteString("\n")
	default:
		fmt.Fprintf(b, "%d points of %s against %s.\n\n", len(ch.Points), ch.YLabel, ch.XLabel)
	}
}

// matrixTable lays a correlation matrix out with labels in the first column
func matrixTable(m *stats.Matrix) dataset.Table {
	t := dataset.Table{Columns: []string{""}}
	if m == nil {
		return t
	}
	t.Columns = append(t.Columns, m.Labels...)
	for i, label := range m.Labels {
		row := []string{label}
		for j := range m.Labels {
			row = append(row, fmt.Sprintf("%.2f", m.At(i, j)))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func writeMarkdownTable(b *strings.Builder, t dataset.Table) {
	if len(t.Columns) == 0 {
		b.WriteString("_No columns._\n\n")
		return
	}

	header := make([]string, len(t.Columns))
	rule := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = escapeMarkdown(c)
		rule[i] = "---"
	}
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("| " + strings.Join(rule, " | ") + " |\n")

	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i := range cells {
			if i < len(row) {
				cells[i] = escapeMarkdown(row[i])
			}
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")
}

func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
