package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/emoji"
)

var (
	watchInput inputFlags
	watchChart chartFlags
	watchRows  int
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-run the report whenever a file changes",
		Long: `Print the report for a dataset and print it again every time the file is
written or replaced. Press Ctrl+C to stop watching.

Examples:
  datasum watch sales.csv
  datasum watch --chart histogram --x latency_ms requests.jsonl`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	addInputFlags(cmd, &watchInput)
	cmd.Flags().StringVarP(&watchChart.chartType, "chart", "t", "", "chart to include in each report")
	addChartColumnFlags(cmd, &watchChart)
	cmd.Flags().IntVarP(&watchRows, "rows", "n", 10, "rows to preview")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	filename := filepath.Clean(args[0])
	if !flagChanged(cmd, "rows") {
		watchRows = GetGlobalConfig().Display.PreviewRows
	}

	req, err := reportChartRequest(&watchChart)
	if err != nil {
		return err
	}

	watcher, err := setupFileWatcher(filename)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher)

	out := cmd.OutOrStdout()
	report := func(ctx context.Context) {
		if err := reportOnce(ctx, cmd, out, filename, req); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", emoji.GetEmoji("error"), err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	report(ctx)
	return runWatchLoop(ctx, watcher, filename, func(ctx context.Context) {
		fmt.Fprintf(out, "\n%s %s changed at %s\n\n",
			emoji.GetEmoji("watch"), filepath.Base(filename), time.Now().Format("15:04:05"))
		report(ctx)
	})
}

// reportOnce reloads filename and writes a full report
func reportOnce(ctx context.Context, cmd *cobra.Command, w io.Writer, filename string, req *chart.Request) error {
	ds, err := watchInput.loadDataset(ctx, cmd, []string{filename})
	if err != nil {
		return err
	}
	return writeReport(ctx, w, ds, watchRows, req, "")
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// setupFileWatcher watches the directory holding filename so that editors
// replacing the file through a rename are noticed too.
func setupFileWatcher(filename string) (*fsnotify.Watcher, error) {
	if err := validateWatchFilePath(filename); err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Watching file: %s\n", filename)
		fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop...\n\n")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}
	return watcher, nil
}

// runWatchLoop runs the main watch loop with signal handling
func runWatchLoop(ctx context.Context, watcher *fsnotify.Watcher, filename string, report func(context.Context)) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-signals:
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, stopping...\n")
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if shouldReload(event, filename) {
				report(ctx)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
			}
		}
	}
}

// shouldReload reports whether event rewrote the watched file
func shouldReload(event fsnotify.Event, filename string) bool {
	if filepath.Clean(event.Name) != filename {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}
