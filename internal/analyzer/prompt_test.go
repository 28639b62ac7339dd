package analyzer

import (
	"context"
	"strings"
	"testing"

	"github.com/yildizm/DataSum/internal/chart"
)

func TestDatasetPatternWithoutAnalysis(t *testing.T) {
	prompt := NewDatasetPattern().Build()
	if !strings.Contains(prompt.String(), "suggest useful charts") {
		t.Errorf("Expected generic prompt, got %q", prompt.String())
	}
}

func TestDatasetPatternBuild(t *testing.T) {
	ds := testDataset(t, salesRecords(12))
	analysis, err := NewEngine(0, nil).WithChart(chart.Request{Type: chart.TypeHeatmap}).Analyze(context.Background(), ds)
	if err != nil {
		t.Fatalf("Analysis failed: %v", err)
	}

	prompt := DatasetPrompt().WithAnalysis(analysis).WithSampleRows(2).Build()
	text := prompt.String()

	for _, want := range []string{"Name: test.csv", "Rows: 12", "Columns: 3"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
	if !strings.Contains(prompt.SystemPrompt, "DataSum assistant") {
		t.Errorf("Expected DataSum system prompt, got %q", prompt.SystemPrompt)
	}

	bare := DatasetPrompt().WithAnalysis(analysis).WithoutStatistics().WithoutChart().Build().String()
	if strings.Contains(bare, "Currently showing") {
		t.Error("Expected chart context to be omitted")
	}
}

func TestParseResponse(t *testing.T) {
	reply := `{"summary": "Sales by region", "charts": [{"type": "pie", "category": "region", "value": "units", "reason": "share"}]}`
	resp := ParseResponse(reply)
	if resp.Summary != "Sales by region" {
		t.Errorf("Expected summary, got %q", resp.Summary)
	}
	if len(resp.Charts) != 1 {
		t.Fatalf("Expected 1 chart suggestion, got %d", len(resp.Charts))
	}

	req, err := resp.Charts[0].Request()
	if err != nil {
		t.Fatalf("Expected valid request: %v", err)
	}
	if req.Type != chart.TypePie || req.Category != "region" {
		t.Errorf("Unexpected request %+v", req)
	}

	plain := ParseResponse("  just text  ")
	if plain.Summary != "just text" || len(plain.Charts) != 0 {
		t.Errorf("Expected summary-only response, got %+v", plain)
	}

	if _, err := (ChartSuggestion{Type: "radar"}).Request(); err == nil {
		t.Error("Expected error for unknown chart type")
	}
}
