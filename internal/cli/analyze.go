package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/DataSum/internal/analyzer"
	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/dataset"
)

var (
	analyzeInput      inputFlags
	analyzeChart      chartFlags
	analyzeRows       int
	analyzeTimeout    time.Duration
	analyzeOutputFile string
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Print a report for a tabular file or stdin",
		Long: `Print the preview, descriptive statistics and column types of a dataset,
optionally followed by a chart.

If no file is specified, reads from stdin. The report format follows --output.

Examples:
  datasum analyze sales.csv
  datasum analyze --rows 20 --chart pie --category region --value units sales.csv
  datasum analyze -o markdown --output-file report.md sales.xlsx
  cat sales.csv | datasum analyze -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	addInputFlags(cmd, &analyzeInput)
	cmd.Flags().StringVarP(&analyzeChart.chartType, "chart", "t", "", "chart to include (line, bar, scatter, histogram, box, pie, heatmap)")
	addChartColumnFlags(cmd, &analyzeChart)
	cmd.Flags().IntVarP(&analyzeRows, "rows", "n", analyzer.DefaultPreviewRows, "rows to preview")
	cmd.Flags().DurationVar(&analyzeTimeout, "timeout", 30*time.Second, "analysis timeout")
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	if !flagChanged(cmd, "rows") {
		analyzeRows = cfg.Display.PreviewRows
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	ds, err := analyzeInput.loadDataset(ctx, cmd, args)
	if err != nil {
		return err
	}

	req, err := reportChartRequest(&analyzeChart)
	if err != nil {
		return err
	}

	return writeReport(ctx, cmd.OutOrStdout(), ds, analyzeRows, req, analyzeOutputFile)
}

// reportChartRequest returns the chart a report includes, if any. An explicit
// type always wins; otherwise the configured default is used when
// output.include_chart is set.
func reportChartRequest(cf *chartFlags) (*chart.Request, error) {
	cfg := GetGlobalConfig()
	if cf.chartType == "" && !cfg.Output.IncludeChart {
		return nil, nil
	}
	req, err := cf.request(cfg.Charts.DefaultType)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// buildAnalysis runs the analyzer with the configured preview window
func buildAnalysis(ctx context.Context, ds *dataset.Dataset, previewRows int, req *chart.Request) (*analyzer.Analysis, error) {
	cfg := GetGlobalConfig()

	engine := analyzer.NewEngine(cfg.Charts.HistogramBins, newLogger("analyzer"))
	engine.WithPreview(previewRows, cfg.Display.MinPreviewRows)
	if req != nil {
		engine.WithChart(*req)
	}

	analysis, err := engine.Analyze(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	return analysis, nil
}

// writeReport analyzes ds and writes it in the --output format
func writeReport(ctx context.Context, w io.Writer, ds *dataset.Dataset, previewRows int, req *chart.Request, outputFile string) error {
	analysis, err := buildAnalysis(ctx, ds, previewRows, req)
	if err != nil {
		return err
	}

	f, err := getFormatter(getOutputFormat(), outputFile == "" && useColor())
	if err != nil {
		return err
	}

	output, err := f.Format(analysis)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	return writeOutput(w, output, outputFile)
}
