package formatter

import (
	"encoding/json"

	"github.com/yildizm/DataSum/internal/analyzer"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(analysis *analyzer.Analysis) ([]byte, error) {
	output := &JSONOutput{
		Analysis:     analysis,
		Summary:      createSummary(analysis),
		Observations: generateObservations(analysis),
	}

	return json.MarshalIndent(output, "", "  ")
}

// JSONOutput is the analysis plus derived summary fields
type JSONOutput struct {
	*analyzer.Analysis
	Summary      *SummaryOutput `json:"summary"`
	Observations []string       `json:"observations"`
}

// SummaryOutput represents the summary section
type SummaryOutput struct {
	Rows               int      `json:"rows"`
	Columns            int      `json:"columns"`
	MissingCells       int      `json:"missing_cells"`
	NumericColumns     []string `json:"numeric_columns"`
	CategoricalColumns []string `json:"categorical_columns"`
}

// createSummary creates the summary output
func createSummary(analysis *analyzer.Analysis) *SummaryOutput {
	summary := &SummaryOutput{
		Rows:               analysis.Dataset.Rows,
		Columns:            analysis.Dataset.Columns,
		MissingCells:       analysis.MissingCells(),
		NumericColumns:     analysis.NumericColumns(),
		CategoricalColumns: analysis.CategoricalColumns(),
	}

	if summary.NumericColumns == nil {
		summary.NumericColumns = []string{}
	}
	if summary.CategoricalColumns == nil {
		summary.CategoricalColumns = []string{}
	}
	return summary
}
