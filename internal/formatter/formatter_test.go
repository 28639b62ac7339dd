package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/yildizm/DataSum/internal/analyzer"
	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/dataset"
	"github.com/yildizm/DataSum/internal/emoji"
)

func salesAnalysis(t *testing.T, req *chart.Request) *analyzer.Analysis {
	t.Helper()
	records := [][]string{{"region", "units", "price"}}
	regions := []string{"North", "South", "East"}
	units := []string{"1", "11", "111"}
	for i := 0; i < 12; i++ {
		records = append(records, []string{regions[i%3], units[i%3], "2.5"})
	}
	return analyze(t, records, req)
}

func analyze(t *testing.T, records [][]string, req *chart.Request) *analyzer.Analysis {
	t.Helper()
	ds, err := dataset.FromRecords("sales.csv", records, nil)
	if err != nil {
		t.Fatalf("Failed to build dataset: %v", err)
	}
	engine := analyzer.NewEngine(0, nil)
	if req != nil {
		engine.WithChart(*req)
	}
	analysis, err := engine.Analyze(context.Background(), ds)
	if err != nil {
		t.Fatalf("Analysis failed: %v", err)
	}
	return analysis
}

func TestTerminalFormat(t *testing.T) {
	emoji.SetEmojiDisabled(true)
	defer emoji.SetEmojiDisabled(false)

	analysis := salesAnalysis(t, &chart.Request{Type: chart.TypePie})
	out, err := NewTerminal(false).Format(analysis)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	text := string(out)

	for _, want := range []string{
		"Data Analysis Summary",
		"sales.csv",
		"Preview (first 10 of 12 rows, slider 5-12)",
		"Statistics",
		"Column Types",
		"int64",
		"object",
		"Pie Chart",
		"units by region",
		"Observations",
		"No missing values detected",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}

	headerPos := strings.Index(text, "Data Analysis Summary")
	previewPos := strings.Index(text, "Preview (")
	statsPos := strings.Index(text, "Statistics\n")
	if headerPos > previewPos || previewPos > statsPos {
		t.Errorf("Expected header, preview and statistics in order")
	}
}

func TestTerminalFormatWarning(t *testing.T) {
	emoji.SetEmojiDisabled(true)
	defer emoji.SetEmojiDisabled(false)

	records := [][]string{{"city"}, {"Oslo"}, {"Rome"}}
	analysis := analyze(t, records, &chart.Request{Type: chart.TypeHistogram})

	out, err := NewTerminal(false).Format(analysis)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(string(out), chart.WarningNoNumeric) {
		t.Errorf("Expected warning %q in output", chart.WarningNoNumeric)
	}
	if !strings.Contains(string(out), "All 2 rows fit in the preview") {
		t.Errorf("Expected small dataset observation, got:\n%s", out)
	}
}

func TestTerminalFormatWithoutChart(t *testing.T) {
	analysis := salesAnalysis(t, nil)
	out, err := NewTerminal(false).Format(analysis)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if strings.Contains(string(out), "Pie Chart") {
		t.Error("Expected no chart section without a chart request")
	}
}

func TestJSONFormat(t *testing.T) {
	analysis := salesAnalysis(t, &chart.Request{Type: chart.TypeScatter})
	out, err := NewJSON().Format(analysis)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded struct {
		Dataset struct {
			Name string `json:"name"`
			Rows int    `json:"rows"`
		} `json:"dataset"`
		Window struct {
			Min   int `json:"min"`
			Max   int `json:"max"`
			Value int `json:"value"`
		} `json:"preview_window"`
		Summary struct {
			NumericColumns     []string `json:"numeric_columns"`
			CategoricalColumns []string `json:"categorical_columns"`
		} `json:"summary"`
		Chart struct {
			Request struct {
				Type string `json:"type"`
				X    string `json:"x"`
			} `json:"request"`
		} `json:"chart"`
		Observations []string `json:"observations"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	if decoded.Dataset.Name != "sales.csv" || decoded.Dataset.Rows != 12 {
		t.Errorf("Unexpected dataset info %+v", decoded.Dataset)
	}
	if decoded.Window.Min != 5 || decoded.Window.Max != 12 || decoded.Window.Value != 10 {
		t.Errorf("Unexpected preview window %+v", decoded.Window)
	}
	if len(decoded.Summary.NumericColumns) != 2 || len(decoded.Summary.CategoricalColumns) != 1 {
		t.Errorf("Unexpected column sets %+v", decoded.Summary)
	}
	if decoded.Chart.Request.Type != "scatter" || decoded.Chart.Request.X != "units" {
		t.Errorf("Expected scatter of units, got %+v", decoded.Chart.Request)
	}
	if len(decoded.Observations) == 0 {
		t.Error("Expected observations")
	}
}

func TestJSONFormatWithInfiniteValues(t *testing.T) {
	records := [][]string{
		{"region", "units", "price"},
		{"North", "1", "2.5"},
		{"South", "inf", "3.5"},
		{"East", "3", "-inf"},
		{"North", "4", "1.5"},
	}
	for _, typ := range chart.Types {
		analysis := analyze(t, records, &chart.Request{Type: typ})
		out, err := NewJSON().Format(analysis)
		if err != nil {
			t.Fatalf("%s: Format failed: %v", typ, err)
		}
		if !json.Valid(out) {
			t.Errorf("%s: invalid JSON: %s", typ, out)
		}
	}
}

func TestJSONFormatWarning(t *testing.T) {
	records := [][]string{{"units"}, {"1"}, {"2"}}
	analysis := analyze(t, records, &chart.Request{Type: chart.TypePie})
	out, err := NewJSON().Format(analysis)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !bytes.Contains(out, []byte(chart.WarningPie)) {
		t.Errorf("Expected pie warning in JSON, got %s", out)
	}
}

func TestMarkdownFormat(t *testing.T) {
	analysis := salesAnalysis(t, &chart.Request{Type: chart.TypePie})
	out, err := NewMarkdown().Format(analysis)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	text := string(out)

	for _, want := range []string{
		"# Data Analysis Report",
		"- [Chart](#chart)",
		"| Rows | 12 |",
		"| region | units | price |",
		"| region | object | categorical | 0 |",
		"### units by region",
		"| East | 444 | 90.2% |",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
}

func TestMarkdownEscapesPipes(t *testing.T) {
	records := [][]string{{"a|b"}, {"x|y"}}
	out, err := NewMarkdown().Format(analyze(t, records, nil))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(string(out), `x\|y`) {
		t.Errorf("Expected escaped pipe in output")
	}
}

func TestCSVFormat(t *testing.T) {
	analysis := salesAnalysis(t, nil)
	out, err := NewCSV().Format(analysis)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("Invalid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("Expected header plus 3 columns, got %d records", len(records))
	}
	if records[0][0] != "column" || records[0][8] != "25%" {
		t.Errorf("Unexpected header %v", records[0])
	}

	units := records[2]
	if units[0] != "units" || units[1] != "int64" || units[4] != "12" {
		t.Errorf("Unexpected units row %v", units)
	}
	if units[11] != "111" {
		t.Errorf("Expected max 111, got %q", units[11])
	}
	if records[1][4] != "" {
		t.Errorf("Expected no statistics for region when numeric columns exist, got %v", records[1])
	}
}

func TestCSVFormatCategoricalFallback(t *testing.T) {
	records := [][]string{{"city"}, {"Oslo"}, {"Rome"}, {"Oslo"}}
	out, err := NewCSV().Format(analyze(t, records, nil))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("Invalid CSV: %v", err)
	}
	city := rows[1]
	if city[12] != "2" || city[13] != "Oslo" || city[14] != "2" {
		t.Errorf("Expected unique=2 top=Oslo freq=2, got %v", city)
	}
}

func TestObservationsCorrelations(t *testing.T) {
	records := [][]string{
		{"a", "b", "c"},
		{"1", "2", "4"},
		{"2", "4", "3"},
		{"3", "6", "2"},
		{"4", "8", "1"},
	}
	analysis := analyze(t, records, &chart.Request{Type: chart.TypeHeatmap})
	observations := generateObservations(analysis)

	found := false
	for _, obs := range observations {
		if obs == "a and b correlate at 1.00" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected correlation observation, got %v", observations)
	}
}

func TestObservationsMissing(t *testing.T) {
	records := [][]string{{"a", "b"}, {"1", ""}, {"2", "x"}, {"", "y"}, {"4", "z"}}
	observations := generateObservations(analyze(t, records, nil))

	want := "Column b has 1 missing values (25.0%)"
	found := false
	for _, obs := range observations {
		if obs == want {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected %q in %v", want, observations)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.n); got != tt.want {
			t.Errorf("formatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
