package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/dataset"
	"github.com/yildizm/DataSum/internal/emoji"
	"github.com/yildizm/DataSum/internal/ui/components"
)

var (
	chartInput     inputFlags
	chartOpts      chartFlags
	chartPNG       string
	chartAll       bool
	chartExportDir string
	chartWidth     int
	chartHeight    int
	chartTimeout   time.Duration
)

func newChartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart [file]",
		Short: "Draw a chart in the terminal or export it as PNG",
		Long: `Draw one chart of a dataset in the terminal, save it as an image, or export
every chart type at once.

Columns that are not given are filled with the first suitable column. When the
dataset has no suitable columns a warning is printed instead of a chart.

Examples:
  datasum chart --type scatter --x units --y price sales.csv
  datasum chart --type pie --category region --value units sales.csv
  datasum chart --type heatmap --png heatmap.png sales.csv
  datasum chart --all --export-dir charts/ sales.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: runChart,
	}

	addInputFlags(cmd, &chartInput)
	cmd.Flags().StringVarP(&chartOpts.chartType, "type", "t", "", "chart type (line, bar, scatter, histogram, box, pie, heatmap)")
	addChartColumnFlags(cmd, &chartOpts)
	cmd.Flags().StringVar(&chartPNG, "png", "", "save the chart to this image file (.png, .svg, .pdf)")
	cmd.Flags().BoolVar(&chartAll, "all", false, "export every chart type")
	cmd.Flags().StringVar(&chartExportDir, "export-dir", "", "directory for --all exports")
	cmd.Flags().IntVar(&chartWidth, "width", 0, "terminal chart width in columns")
	cmd.Flags().IntVar(&chartHeight, "height", 0, "terminal chart height in rows")
	cmd.Flags().DurationVar(&chartTimeout, "timeout", time.Minute, "load and export timeout")

	return cmd
}

func runChart(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	if chartAll && chartPNG != "" {
		return fmt.Errorf("--all and --png cannot be combined")
	}
	if !flagChanged(cmd, "export-dir") {
		chartExportDir = cfg.Charts.ExportDir
	}
	if !flagChanged(cmd, "width") {
		chartWidth = cfg.Charts.Width
	}
	if !flagChanged(cmd, "height") {
		chartHeight = cfg.Charts.Height
	}

	ctx, cancel := context.WithTimeout(context.Background(), chartTimeout)
	defer cancel()

	ds, err := chartInput.loadDataset(ctx, cmd, args)
	if err != nil {
		return err
	}

	selector := chart.NewSelector(cfg.Charts.HistogramBins, newLogger("chart"))
	exporter := chart.NewExporter(cfg.Charts.ExportWidth, cfg.Charts.ExportHeight, cfg.Charts.ExportWorkers)
	out := cmd.OutOrStdout()

	if chartAll {
		return exportAllCharts(ctx, out, ds, selector, exporter, chartExportDir)
	}

	req, err := chartOpts.request(cfg.Charts.DefaultType)
	if err != nil {
		return err
	}
	result, err := selector.Select(ds, req)
	if err != nil {
		return err
	}
	if result.Warned() {
		fmt.Fprintf(out, "%s %s\n", emoji.GetEmoji("warning"), result.Warning)
		return nil
	}

	if chartPNG != "" {
		if err := exporter.Save(result.Chart, chartPNG); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s Saved %s to %s\n", emoji.GetEmoji("export"), result.Request.Type.Title(), chartPNG)
		return nil
	}

	return renderTerminalChart(out, result, chartWidth, chartHeight)
}

// renderTerminalChart draws the chart title and canvas
func renderTerminalChart(w io.Writer, result *chart.Result, width, height int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", emoji.GetEmoji("chart"), result.Request.Type.Title())
	b.WriteString(components.NewChartCanvas(result, width, height).Render())
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// exportAllCharts saves one image per chart type the dataset supports.
// Types that only produce a warning are reported and skipped.
func exportAllCharts(ctx context.Context, w io.Writer, ds *dataset.Dataset, selector *chart.Selector, exporter *chart.Exporter, dir string) error {
	var jobs []chart.Job
	for _, t := range chart.Types {
		result, err := selector.Select(ds, chart.Request{Type: t})
		if err != nil {
			return err
		}
		if result.Warned() {
			fmt.Fprintf(w, "%s %s: %s\n", emoji.GetEmoji("warning"), t.Title(), result.Warning)
			continue
		}
		jobs = append(jobs, chart.Job{
			Chart: result.Chart,
			Path:  filepath.Join(dir, chart.FileName(result.Chart, "png")),
		})
	}

	if len(jobs) == 0 {
		return fmt.Errorf("no chart could be drawn for %s", ds.Name)
	}
	if err := exporter.SaveAll(ctx, jobs); err != nil {
		return fmt.Errorf("chart export failed: %w", err)
	}

	for _, job := range jobs {
		fmt.Fprintf(w, "%s %s\n", emoji.GetEmoji("export"), job.Path)
	}
	fmt.Fprintf(w, "Saved %d charts to %s\n", len(jobs), filepath.Clean(dir))
	return nil
}
