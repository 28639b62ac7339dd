package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yildizm/DataSum/internal/analyzer"
	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/dataset"
	"github.com/yildizm/DataSum/internal/logger"
	"github.com/yildizm/DataSum/internal/ui"
)

var (
	exploreInput inputFlags
	exploreChart string
	exploreRows  int
	exploreNoTUI bool
)

func newExploreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore <file>",
		Short: "Explore a dataset in the interactive terminal UI",
		Long: `Open a dataset in the interactive explorer.

Views: 1 preview, 2 statistics, 3 columns, 4 chart. Use +/- to change how
many rows the preview shows, enter to open a row, c to cycle chart types,
x/y/g/v to cycle chart columns and ? for help.

When stdout is not a terminal the text report is printed instead.

Examples:
  datasum explore sales.csv
  datasum explore --chart histogram --rows 20 measurements.tsv
  datasum explore --sheet Q3 revenue.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: runExplore,
	}

	addInputFlags(cmd, &exploreInput)
	cmd.Flags().StringVarP(&exploreChart, "chart", "t", "", "initial chart type")
	cmd.Flags().IntVarP(&exploreRows, "rows", "n", analyzer.DefaultPreviewRows, "initial rows to preview")
	cmd.Flags().BoolVar(&exploreNoTUI, "no-tui", false, "disable terminal UI, output the report to stdout")

	return cmd
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	if !flagChanged(cmd, "rows") {
		exploreRows = cfg.Display.PreviewRows
	}
	if exploreChart == "" {
		exploreChart = cfg.Charts.DefaultType
	}
	chartType, err := chart.ParseType(exploreChart)
	if err != nil {
		return err
	}

	if !shouldUseTUIMode() {
		ctx := context.Background()
		ds, err := exploreInput.loadDataset(ctx, cmd, args)
		if err != nil {
			return err
		}
		return writeReport(ctx, cmd.OutOrStdout(), ds, exploreRows, &chart.Request{Type: chartType}, "")
	}

	if err := validateFilePath(args[0]); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}
	opts, err := exploreInput.loaderOptions(cmd, cfg)
	if err != nil {
		return err
	}

	// Anything written to stderr would tear the alternate screen.
	logger.SetOutput(io.Discard)

	return ui.Run(ui.Options{
		Path:           args[0],
		Loader:         dataset.NewLoader(opts, newLogger("dataset")),
		PreviewRows:    exploreRows,
		MinPreviewRows: cfg.Display.MinPreviewRows,
		HistogramBins:  cfg.Charts.HistogramBins,
		ChartType:      chartType,
		ChartWidth:     cfg.Charts.Width,
		ChartHeight:    cfg.Charts.Height,
		MaxCellWidth:   cfg.Display.MaxCellWidth,
		Logger:         newLogger("ui"),
	})
}

// shouldUseTUIMode reports whether the explorer can take over the terminal
func shouldUseTUIMode() bool {
	return !exploreNoTUI && getOutputFormat() == "text" && !isVerbose() && stdoutIsTerminal()
}
