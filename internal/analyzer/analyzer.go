package analyzer

import (
	"context"

	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/dataset"
)

// Analyzer summarizes a dataset
type Analyzer interface {
	// Analyze computes preview, statistics, column types and, when
	// requested, a chart for ds
	Analyze(ctx context.Context, ds *dataset.Dataset) (*Analysis, error)
}

// Engine provides configurable analysis
type Engine interface {
	Analyzer

	// WithPreview sets the requested preview size and the slider minimum
	WithPreview(rows, minRows int) Engine

	// WithChart adds a chart to every analysis
	WithChart(req chart.Request) Engine

	// WithoutChart drops the chart from the analysis
	WithoutChart() Engine
}
