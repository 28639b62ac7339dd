package formatter

import (
	"fmt"
	"math"
	"sort"

	"github.com/yildizm/go-termfmt"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yildizm/DataSum/internal/analyzer"
	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/dataset"
	"github.com/yildizm/DataSum/internal/stats"
)

var numberPrinter = message.NewPrinter(language.English)

// formatNumber formats numbers with thousands separators
func formatNumber(n int) string {
	return numberPrinter.Sprintf("%d", n)
}

// missingRate is the share of missing cells in the whole table, in percent
func missingRate(analysis *analyzer.Analysis) float64 {
	cells := analysis.Dataset.Rows * analysis.Dataset.Columns
	if cells == 0 {
		return 0
	}
	return float64(analysis.MissingCells()) / float64(cells) * 100
}

// completeness returns the fraction of present values in a column
func completeness(c dataset.Column, rows int) float64 {
	if rows == 0 {
		return 1
	}
	return 1 - float64(c.Missing)/float64(rows)
}

// createCompletenessBar creates an ASCII bar using go-termfmt
func createCompletenessBar(fraction float64) string {
	opts := termfmt.DefaultOptions()
	return termfmt.CreateConfidenceBar(fraction, opts)
}

// correlationPair is one off-diagonal heatmap cell
type correlationPair struct {
	A, B  string
	Value float64
}

// strongestCorrelations returns off-diagonal pairs ordered by absolute
// correlation, strongest first. NaN cells are skipped.
func strongestCorrelations(m *stats.Matrix, limit int) []correlationPair {
	if m == nil {
		return nil
	}
	var pairs []correlationPair
	for i := 0; i < m.Size(); i++ {
		for j := i + 1; j < m.Size(); j++ {
			v := m.At(i, j)
			if math.IsNaN(v) {
				continue
			}
			pairs = append(pairs, correlationPair{A: m.Labels[i], B: m.Labels[j], Value: v})
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		return math.Abs(pairs[a].Value) > math.Abs(pairs[b].Value)
	})
	if len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

// generateObservations lists short findings about the dataset
func generateObservations(analysis *analyzer.Analysis) []string {
	var observations []string

	if analysis.Dataset.Rows == 0 {
		return []string{"The dataset has no rows"}
	}

	if analysis.Dataset.Rows <= analysis.Window.Value {
		observations = append(observations,
			fmt.Sprintf("All %d rows fit in the preview", analysis.Dataset.Rows))
	}

	for _, c := range analysis.Columns {
		if c.Missing > 0 {
			observations = append(observations,
				fmt.Sprintf("Column %s has %s missing values (%.1f%%)",
					c.Name, formatNumber(c.Missing), (1-completeness(c, analysis.Dataset.Rows))*100))
		}
	}

	if analysis.MissingCells() == 0 {
		observations = append(observations, "No missing values detected")
	}

	numeric := analysis.NumericColumns()
	categorical := analysis.CategoricalColumns()
	switch {
	case len(numeric) == 0:
		observations = append(observations, "No numeric columns: statistics describe the categorical columns")
	case len(categorical) == 0:
		observations = append(observations, "No categorical columns: pie charts are unavailable")
	}

	if analysis.Chart != nil && analysis.Chart.Chart != nil && analysis.Chart.Chart.Type == chart.TypeHeatmap {
		for _, p := range strongestCorrelations(analysis.Chart.Chart.Matrix, 3) {
			observations = append(observations,
				fmt.Sprintf("%s and %s correlate at %.2f", p.A, p.B, p.Value))
		}
	}

	return observations
}
