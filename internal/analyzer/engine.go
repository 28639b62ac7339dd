package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/dataset"
	"github.com/yildizm/DataSum/internal/logger"
	"github.com/yildizm/DataSum/internal/stats"
)

const (
	// DefaultPreviewRows is the initial slider value
	DefaultPreviewRows = 10
	// DefaultMinPreviewRows is the slider's lower bound
	DefaultMinPreviewRows = 5
)

// DatasetEngine implements the Analyzer and Engine interfaces
type DatasetEngine struct {
	previewRows    int
	minPreviewRows int
	selector       *chart.Selector
	request        *chart.Request
	logger         *logger.Logger
}

// NewEngine creates an engine with the default preview window and no chart.
// histogramBins <= 0 selects bins with Sturges' rule.
func NewEngine(histogramBins int, log *logger.Logger) *DatasetEngine {
	if log == nil {
		log = logger.New("analyzer", nil)
	}
	return &DatasetEngine{
		previewRows:    DefaultPreviewRows,
		minPreviewRows: DefaultMinPreviewRows,
		selector:       chart.NewSelector(histogramBins, log.WithComponent("chart")),
		logger:         log,
	}
}

// Analyze builds the full dashboard state for ds
func (e *DatasetEngine) Analyze(ctx context.Context, ds *dataset.Dataset) (*Analysis, error) {
	start := time.Now()

	analysis := &Analysis{
		Dataset: DatasetInfo{
			ID:       ds.ID,
			Name:     ds.Name,
			Format:   string(ds.Format),
			Rows:     ds.Rows(),
			Columns:  ds.Cols(),
			LoadedAt: ds.LoadedAt,
		},
		Columns:     ds.Columns(),
		GeneratedAt: start,
	}

	analysis.Window = dataset.NewRowWindow(ds.Rows(), e.minPreviewRows, e.previewRows)
	analysis.Preview = ds.Head(analysis.Window.Value)

	// Check for context cancellation
	select {
	case <-ctx.Done():
		return analysis, ctx.Err()
	default:
	}

	description, err := stats.Describe(ds)
	if err != nil {
		return analysis, fmt.Errorf("failed to describe dataset: %w", err)
	}
	analysis.Statistics = description

	select {
	case <-ctx.Done():
		return analysis, ctx.Err()
	default:
	}

	if e.request != nil {
		result, err := e.selector.Select(ds, *e.request)
		if err != nil {
			return analysis, err
		}
		analysis.Chart = result
	}

	e.logger.DebugWithFields("analysis complete", []logger.Field{
		logger.F("dataset", ds.Name),
		logger.Count(ds.Rows()),
		logger.F("columns", ds.Cols()),
		logger.Duration(time.Since(start)),
	})
	return analysis, nil
}

// WithPreview sets the requested preview size and the slider minimum.
// A minimum below DefaultMinPreviewRows is ignored.
func (e *DatasetEngine) WithPreview(rows, minRows int) Engine {
	if rows > 0 {
		e.previewRows = rows
	}
	if minRows >= DefaultMinPreviewRows {
		e.minPreviewRows = minRows
	}
	return e
}

// WithChart adds a chart to every analysis
func (e *DatasetEngine) WithChart(req chart.Request) Engine {
	e.request = &req
	return e
}

// WithoutChart drops the chart from the analysis
func (e *DatasetEngine) WithoutChart() Engine {
	e.request = nil
	return e
}

// Selector exposes the chart selector used by the engine
func (e *DatasetEngine) Selector() *chart.Selector {
	return e.selector
}
