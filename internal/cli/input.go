package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/config"
	"github.com/yildizm/DataSum/internal/dataset"
	"github.com/yildizm/DataSum/internal/formatter"
)

// inputFlags are the reader settings shared by every command that loads a file
type inputFlags struct {
	format    string
	delimiter string
	sheet     string
	maxRows   int
}

func addInputFlags(cmd *cobra.Command, in *inputFlags) {
	cmd.Flags().StringVarP(&in.format, "format", "f", "auto", "input format (auto, csv, tsv, xlsx, jsonl, logfmt, log)")
	cmd.Flags().StringVarP(&in.delimiter, "delimiter", "d", ",", "field delimiter for csv input")
	cmd.Flags().StringVar(&in.sheet, "sheet", "", "worksheet to read from xlsx input (default: first sheet)")
	cmd.Flags().IntVar(&in.maxRows, "max-rows", 0, "maximum rows to read (0 = unlimited)")
}

// loaderOptions merges the input flags over the configured defaults
func (in *inputFlags) loaderOptions(cmd *cobra.Command, cfg *config.Config) (dataset.Options, error) {
	opts := dataset.Options{
		Delimiter: cfg.DelimiterRune(),
		Sheet:     cfg.Input.Sheet,
		MaxRows:   cfg.Input.MaxRows,
		NaNValues: cfg.Input.NaNValues,
	}

	formatName := cfg.Input.Format
	if flagChanged(cmd, "format") {
		formatName = in.format
	}
	format, err := dataset.ParseFormat(formatName)
	if err != nil {
		return opts, err
	}
	opts.Format = format

	if flagChanged(cmd, "delimiter") {
		if utf8.RuneCountInString(in.delimiter) != 1 {
			return opts, fmt.Errorf("delimiter must be a single character, got %q", in.delimiter)
		}
		opts.Delimiter, _ = utf8.DecodeRuneInString(in.delimiter)
	}
	if flagChanged(cmd, "sheet") {
		opts.Sheet = in.sheet
	}
	if flagChanged(cmd, "max-rows") {
		if in.maxRows < 0 {
			return opts, fmt.Errorf("max-rows must be non-negative, got %d", in.maxRows)
		}
		opts.MaxRows = in.maxRows
	}
	return opts, nil
}

// loadDataset reads args[0], or stdin when no file (or "-") is given
func (in *inputFlags) loadDataset(ctx context.Context, cmd *cobra.Command, args []string) (*dataset.Dataset, error) {
	opts, err := in.loaderOptions(cmd, GetGlobalConfig())
	if err != nil {
		return nil, err
	}
	loader := dataset.NewLoader(opts, newLogger("dataset"))

	if len(args) == 0 || args[0] == "-" {
		if opts.Format == dataset.FormatXLSX {
			return nil, fmt.Errorf("xlsx input cannot be read from stdin")
		}
		if isVerbose() {
			fmt.Fprintf(os.Stderr, "Reading from stdin...\n")
		}
		return loader.Load(ctx, cmd.InOrStdin(), "stdin", opts.Format)
	}

	if err := validateFilePath(args[0]); err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Loading file: %s\n", filepath.Clean(args[0]))
	}
	return loader.LoadFile(ctx, args[0])
}

// chartFlags select a chart and its columns
type chartFlags struct {
	chartType string
	x         string
	y         string
	category  string
	value     string
}

func addChartColumnFlags(cmd *cobra.Command, cf *chartFlags) {
	cmd.Flags().StringVar(&cf.x, "x", "", "X axis column")
	cmd.Flags().StringVar(&cf.y, "y", "", "Y axis column")
	cmd.Flags().StringVar(&cf.category, "category", "", "category column (pie chart)")
	cmd.Flags().StringVar(&cf.value, "value", "", "value column (pie chart)")
}

// request builds a chart request. An empty type falls back to defaultType.
func (cf *chartFlags) request(defaultType string) (chart.Request, error) {
	name := cf.chartType
	if name == "" {
		name = defaultType
	}
	t, err := chart.ParseType(name)
	if err != nil {
		return chart.Request{}, err
	}
	return chart.Request{Type: t, X: cf.x, Y: cf.y, Category: cf.category, Value: cf.value}, nil
}

func validateFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", cleanPath)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", cleanPath)
	}

	return nil
}

// getFormatter returns the appropriate formatter for the given format
func getFormatter(format string, color bool) (formatter.Formatter, error) {
	switch format {
	case "json":
		return formatter.NewJSON(), nil
	case "markdown", "md":
		return formatter.NewMarkdown(), nil
	case "csv":
		return formatter.NewCSV(), nil
	case "text", "terminal", "":
		cfg := GetGlobalConfig()
		return formatter.NewTerminalWithChartSize(color, cfg.Charts.Width, cfg.Charts.Height), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// writeOutput writes output to path, or to w when path is empty
func writeOutput(w io.Writer, output []byte, path string) error {
	if path == "" {
		_, err := w.Write(output)
		return err
	}

	if err := writeOutputBytesToFile(output, path); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Output saved to: %s\n", path)
	}
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	// Sync to ensure data is written
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}
