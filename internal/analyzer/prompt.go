package analyzer

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-promptfmt"

	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/dataset"
)

// DatasetPattern builds LLM prompts describing a dataset analysis
type DatasetPattern struct {
	promptfmt.BasePattern
	Analysis          *Analysis
	SampleRows        int
	IncludeStatistics bool
	IncludeChart      bool
}

// NewDatasetPattern creates a dataset exploration prompt pattern
func NewDatasetPattern() *DatasetPattern {
	return &DatasetPattern{
		BasePattern: promptfmt.BasePattern{
			Description: "Explains a tabular dataset and proposes charts for it",
			Tags:        []string{"data-exploration", "datasum", "visualization"},
		},
		SampleRows:        5,
		IncludeStatistics: true,
		IncludeChart:      true,
	}
}

func (dp *DatasetPattern) WithAnalysis(analysis *Analysis) *DatasetPattern {
	dp.Analysis = analysis
	return dp
}

func (dp *DatasetPattern) WithSampleRows(n int) *DatasetPattern {
	dp.SampleRows = n
	return dp
}

func (dp *DatasetPattern) WithoutStatistics() *DatasetPattern {
	dp.IncludeStatistics = false
	return dp
}

func (dp *DatasetPattern) WithoutChart() *DatasetPattern {
	dp.IncludeChart = false
	return dp
}

// ChartSuggestion is one chart proposed in a model response
type ChartSuggestion struct {
	Type     string `json:"type"` // one of line, bar, scatter, histogram, box, pie, heatmap
	X        string `json:"x,omitempty"`
	Y        string `json:"y,omitempty"`
	Category string `json:"category,omitempty"`
	Value    string `json:"value,omitempty"`
	Reason   string `json:"reason"`
}

// Request converts the suggestion into a chart request
func (s ChartSuggestion) Request() (chart.Request, error) {
	t, err := chart.ParseType(s.Type)
	if err != nil {
		return chart.Request{}, err
	}
	return chart.Request{Type: t, X: s.X, Y: s.Y, Category: s.Category, Value: s.Value}, nil
}

// DatasetResponse is the JSON shape the prompt asks for
type DatasetResponse struct {
	Summary     string `json:"summary"`
	DataQuality []struct {
		Column string `json:"column"`
		Issue  string `json:"issue"`
	} `json:"data_quality"`
	Relationships []string          `json:"relationships"`
	Charts        []ChartSuggestion `json:"charts"`
}

func (dp *DatasetPattern) Build() *promptfmt.Prompt {
	if dp.Analysis == nil {
		return promptfmt.New().
			System("You are a data analyst who explains tabular datasets.").
			User("Please describe the provided dataset and suggest useful charts.").
			Build()
	}

	info := dp.Analysis.Dataset
	pb := promptfmt.New().
		System("You are a DataSum assistant. Explain tabular datasets, point out data quality problems and propose charts that use only the listed columns.").
		User("Explore this dataset:\n\nName: %s\nFormat: %s\nRows: %d\nColumns: %d\nMissing cells: %d",
			info.Name,
			info.Format,
			info.Rows,
			info.Columns,
			dp.Analysis.MissingCells())

	dp.addColumnsContext(pb)

	if dp.SampleRows > 0 && len(dp.Analysis.Preview.Rows) > 0 {
		dp.addSampleContext(pb)
	}

	if dp.IncludeStatistics && dp.Analysis.Statistics != nil {
		pb.AddContext("statistics", renderTable(dp.Analysis.Statistics.Table()))
	}

	if dp.IncludeChart && dp.Analysis.Chart != nil {
		dp.addChartContext(pb)
	}

	pb.AddContext("chart_types", "Supported chart types: "+chartTypeList())

	return pb.ExpectJSON(&DatasetResponse{}).Build()
}

func (dp *DatasetPattern) addColumnsContext(pb *promptfmt.PromptBuilder) {
	var b strings.Builder
	b.WriteString("Columns:\n")
	for _, c := range dp.Analysis.Columns {
		fmt.Fprintf(&b, "- %s: %s (%s)", c.Name, c.DType, c.Kind)
		if c.Missing > 0 {
			fmt.Fprintf(&b, ", %d missing", c.Missing)
		}
		b.WriteString("\n")
	}
	pb.AddContext("columns", b.String())
}

func (dp *DatasetPattern) addSampleContext(pb *promptfmt.PromptBuilder) {
	sample := dp.Analysis.Preview
	if len(sample.Rows) > dp.SampleRows {
		sample.Rows = sample.Rows[:dp.SampleRows]
	}
	pb.AddContext("sample_rows", renderTable(sample))
}

func (dp *DatasetPattern) addChartContext(pb *promptfmt.PromptBuilder) {
	result := dp.Analysis.Chart
	if result.Warned() {
		pb.AddContext("current_chart", fmt.Sprintf("%s could not be drawn: %s", result.Request.Type.Title(), result.Warning))
		return
	}
	req := result.Request
	text := fmt.Sprintf("Currently showing %s", req.Type.Title())
	switch {
	case req.Type == chart.TypePie:
		text += fmt.Sprintf(" of %s by %s", req.Value, req.Category)
	case req.Type.UsesY():
		text += fmt.Sprintf(" of %s against %s", req.Y, req.X)
	case req.Type.AxisBased():
		text += " of " + req.X
	}
	pb.AddContext("current_chart", text)
}

func renderTable(t dataset.Table) string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Columns, " | "))
	b.WriteString("\n")
	for _, row := range t.Rows {
		b.WriteString(strings.Join(row, " | "))
		b.WriteString("\n")
	}
	return b.String()
}

func chartTypeList() string {
	names := make([]string, len(chart.Types))
	for i, t := range chart.Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// ParseResponse extracts a DatasetResponse from a model reply. Replies that
// are not valid JSON come back as a summary-only response.
func ParseResponse(content string) *DatasetResponse {
	response := promptfmt.NewResponse(content)
	var parsed DatasetResponse
	if result := response.TryParseJSON(&parsed); !result.Success {
		return &DatasetResponse{Summary: strings.TrimSpace(content)}
	}
	return &parsed
}

// DatasetPrompt is shorthand for NewDatasetPattern
func DatasetPrompt() *DatasetPattern {
	return NewDatasetPattern()
}
