package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/config"
)

func TestMain(m *testing.M) {
	stdoutIsTerminal = func() bool { return false }
	os.Exit(m.Run())
}

func salesCSV() string {
	var b strings.Builder
	b.WriteString("region,units,price\n")
	regions := []string{"North", "South", "East"}
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "%s,%s,%.1f\n", regions[i%3], strings.Repeat("1", i%3+1), float64(i)*1.5+2)
	}
	return b.String()
}

const citiesCSV = "city,country\nOslo,Norway\nRome,Italy\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// execute runs the root command against an isolated config file
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cfgPath := writeFile(t, t.TempDir(), "config.yaml", config.MinimalSampleConfig())

	cmd := NewRootCommand("dev", "none", "unknown")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	cmd.SetArgs(append([]string{"--no-emoji", "--config", cfgPath}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "DataSum development (local-build) built on local-build") {
		t.Errorf("Expected development version line, got %q", out)
	}
}

func TestAnalyzeCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sales.csv", salesCSV())

	out, err := execute(t, "", "analyze", path)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	for _, want := range []string{
		"Data Analysis Summary",
		"sales.csv",
		"Preview (first 10 of 12 rows, slider 5-12)",
		"Column Types",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
	if strings.Contains(out, "Line Chart") {
		t.Error("Expected no chart without --chart")
	}
}

func TestAnalyzeJSONWithChart(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sales.csv", salesCSV())

	out, err := execute(t, "", "analyze", "-o", "json", "--rows", "20", "--chart", "pie", "--value", "price", path)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var decoded struct {
		Window struct {
			Value int `json:"value"`
		} `json:"preview_window"`
		Chart struct {
			Request chart.Request `json:"request"`
			Chart   struct {
				Title string `json:"title"`
			} `json:"chart"`
		} `json:"chart"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Invalid JSON: %v\n%s", err, out)
	}
	if decoded.Window.Value != 12 {
		t.Errorf("Expected preview clamped to 12 rows, got %d", decoded.Window.Value)
	}
	if decoded.Chart.Request.Category != "region" || decoded.Chart.Request.Value != "price" {
		t.Errorf("Expected pie of price by region, got %+v", decoded.Chart.Request)
	}
	if decoded.Chart.Chart.Title != "price by region" {
		t.Errorf("Expected title %q, got %q", "price by region", decoded.Chart.Chart.Title)
	}
}

func TestAnalyzeOutputFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sales.csv", salesCSV())
	report := filepath.Join(dir, "report.md")

	out, err := execute(t, "", "analyze", "-o", "markdown", "--output-file", report, path)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected nothing on stdout, got %q", out)
	}

	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("Expected report file: %v", err)
	}
	if !strings.Contains(string(data), "# Data Analysis Report") {
		t.Errorf("Expected markdown report, got %q", data)
	}
}

func TestAnalyzeStdin(t *testing.T) {
	out, err := execute(t, citiesCSV, "analyze", "-o", "csv")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !strings.HasPrefix(out, "column,dtype,kind") {
		t.Errorf("Expected CSV header, got %q", out)
	}
	if !strings.Contains(out, "city,object,categorical") {
		t.Errorf("Expected city row, got %q", out)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sales.csv", salesCSV())

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown output format", []string{"analyze", "-o", "xml", path}, "unknown format: xml"},
		{"missing file", []string{"analyze", filepath.Join(dir, "nope.csv")}, "file does not exist"},
		{"directory", []string{"analyze", dir}, "path is a directory"},
		{"unknown chart", []string{"analyze", "--chart", "radar", path}, "unknown chart type"},
		{"bad delimiter", []string{"analyze", "--delimiter", ";;", path}, "single character"},
		{"unknown input format", []string{"analyze", "--format", "parquet", path}, "unknown input format"},
		{"xlsx from stdin", []string{"analyze", "--format", "xlsx"}, "cannot be read from stdin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			if err == nil {
				t.Fatalf("Expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestChartCommandTerminal(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sales.csv", salesCSV())

	out, err := execute(t, "", "chart", "--type", "bar", "--x", "units", "--y", "price", path)
	if err != nil {
		t.Fatalf("chart failed: %v", err)
	}
	if !strings.Contains(out, "Bar Chart") {
		t.Errorf("Expected bar chart, got %q", out)
	}
}

func TestChartCommandWarnings(t *testing.T) {
	dir := t.TempDir()
	cities := writeFile(t, dir, "cities.csv", citiesCSV)
	numbers := writeFile(t, dir, "numbers.csv", "a,b\n1,2\n3,4\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"histogram without numeric", []string{"chart", "--type", "histogram", cities}, chart.WarningNoNumeric},
		{"line without numeric", []string{"chart", "--type", "line", cities}, chart.WarningNoNumeric},
		{"pie without categorical", []string{"chart", "--type", "pie", numbers}, chart.WarningPie},
		{"pie without numeric", []string{"chart", "--type", "pie", cities}, chart.WarningPie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", tt.args...)
			if err != nil {
				t.Fatalf("Expected a warning, not an error: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("Expected %q, got %q", tt.want, out)
			}
		})
	}
}

func TestChartCommandInvalidColumn(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sales.csv", salesCSV())

	_, err := execute(t, "", "chart", "--type", "scatter", "--x", "region", path)
	if err == nil {
		t.Fatal("Expected an error for a categorical x column")
	}
	if !strings.Contains(err.Error(), `"region"`) {
		t.Errorf("Expected error to name the column, got %v", err)
	}
}

func TestChartCommandPNG(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sales.csv", salesCSV())
	image := filepath.Join(dir, "heatmap.png")

	out, err := execute(t, "", "chart", "--type", "heatmap", "--png", image, path)
	if err != nil {
		t.Fatalf("chart failed: %v", err)
	}
	if !strings.Contains(out, "Saved Correlation Heatmap") {
		t.Errorf("Expected save confirmation, got %q", out)
	}
	if info, err := os.Stat(image); err != nil || info.Size() == 0 {
		t.Errorf("Expected non-empty image at %s: %v", image, err)
	}
}

func TestChartCommandExportAll(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sales.csv", salesCSV())
	exportDir := filepath.Join(dir, "charts")

	out, err := execute(t, "", "chart", "--all", "--export-dir", exportDir, path)
	if err != nil {
		t.Fatalf("chart --all failed: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(exportDir, "*.png"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(files) != len(chart.Types) {
		t.Errorf("Expected %d images, got %d: %v", len(chart.Types), len(files), files)
	}
	if !strings.Contains(out, "Saved 7 charts") {
		t.Errorf("Expected summary line, got %q", out)
	}
}

func TestChartCommandExportAllSkipsWarnings(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "numbers.csv", "a,b\n1,2\n3,4\n5,7\n")

	out, err := execute(t, "", "chart", "--all", "--export-dir", dir, path)
	if err != nil {
		t.Fatalf("chart --all failed: %v", err)
	}
	if !strings.Contains(out, "Pie Chart: "+chart.WarningPie) {
		t.Errorf("Expected pie warning, got %q", out)
	}
	if !strings.Contains(out, "Saved 6 charts") {
		t.Errorf("Expected six exported charts, got %q", out)
	}
}

func TestChartCommandFlagConflict(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sales.csv", salesCSV())
	_, err := execute(t, "", "chart", "--all", "--png", "x.png", path)
	if err == nil || !strings.Contains(err.Error(), "cannot be combined") {
		t.Errorf("Expected flag conflict error, got %v", err)
	}
}

func TestExploreFallsBackToReport(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sales.csv", salesCSV())

	out, err := execute(t, "", "explore", "--chart", "histogram", path)
	if err != nil {
		t.Fatalf("explore failed: %v", err)
	}
	if !strings.Contains(out, "Data Analysis Summary") || !strings.Contains(out, "Histogram") {
		t.Errorf("Expected text report with histogram, got %q", out)
	}
}

func TestShouldUseTUIMode(t *testing.T) {
	tests := []struct {
		name         string
		noTUI        bool
		outputFormat string
		verbose      bool
		terminal     bool
		want         bool
	}{
		{"should use TUI - all conditions met", false, "text", false, true, true},
		{"no-tui flag set", true, "text", false, true, false},
		{"json output", false, "json", false, true, false},
		{"verbose mode", false, "text", true, true, false},
		{"stdout is not a terminal", false, "text", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldNoTUI, oldVerbose, oldOutputFmt, oldTerminal := exploreNoTUI, verbose, outputFmt, stdoutIsTerminal
			defer func() {
				exploreNoTUI, verbose, outputFmt, stdoutIsTerminal = oldNoTUI, oldVerbose, oldOutputFmt, oldTerminal
			}()

			exploreNoTUI = tt.noTUI
			verbose = tt.verbose
			outputFmt = tt.outputFormat
			terminal := tt.terminal
			stdoutIsTerminal = func() bool { return terminal }

			if got := shouldUseTUIMode(); got != tt.want {
				t.Errorf("shouldUseTUIMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "datasum.yaml")

	out, err := execute(t, "", "config", "init", "--output", cfgPath)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, "Configuration file created at: "+cfgPath) {
		t.Errorf("Unexpected init output %q", out)
	}

	if _, err := execute(t, "", "config", "init", "--output", cfgPath); err == nil {
		t.Error("Expected init to refuse overwriting without --force")
	}

	cmd := NewRootCommand("dev", "none", "unknown")
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--no-emoji", "--config", cfgPath, "config", "validate"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config validate failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Configuration is valid") {
		t.Errorf("Unexpected validate output %q", buf.String())
	}

	buf.Reset()
	cmd = NewRootCommand("dev", "none", "unknown")
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--config", cfgPath, "config", "show", "--format", "json"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	var shown config.Config
	if err := json.Unmarshal(buf.Bytes(), &shown); err != nil {
		t.Fatalf("Invalid JSON from config show: %v", err)
	}
	if shown.Display.PreviewRows != 10 || shown.Display.MinPreviewRows != 5 {
		t.Errorf("Expected preview defaults 10/5, got %d/%d", shown.Display.PreviewRows, shown.Display.MinPreviewRows)
	}
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	bad := writeFile(t, t.TempDir(), "bad.yaml", "display:\n  theme: neon\n")

	cmd := NewRootCommand("dev", "none", "unknown")
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--no-emoji", "--config", bad, "config", "validate"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(buf.String(), "invalid theme: neon") {
		t.Errorf("Expected theme error, got %q", buf.String())
	}
}

func TestConfigSchema(t *testing.T) {
	out, err := execute(t, "", "config", "schema")
	if err != nil {
		t.Fatalf("config schema failed: %v", err)
	}
	if !strings.Contains(out, "DataSum configuration") || !strings.Contains(out, "preview_rows") {
		t.Errorf("Unexpected schema %q", out)
	}
}

func TestPromptCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sales.csv", salesCSV())

	out, err := execute(t, "", "prompt", "--sample-rows", "2", path)
	if err != nil {
		t.Fatalf("prompt failed: %v", err)
	}
	for _, want := range []string{"--- system ---", "DataSum assistant", "sales.csv", "region"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}

func TestPromptResponse(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sales.csv", salesCSV())
	reply := writeFile(t, dir, "reply.json", `{
  "summary": "Unit sales per region.",
  "data_quality": [{"column": "price", "issue": "constant"}],
  "charts": [
    {"type": "pie", "category": "region", "value": "units", "reason": "share per region"},
    {"type": "scatter", "x": "region", "y": "units", "reason": "bad column"},
    {"type": "radar", "reason": "unsupported"}
  ]
}`)

	out, err := execute(t, "", "prompt", "--response", reply, path)
	if err != nil {
		t.Fatalf("prompt --response failed: %v", err)
	}
	for _, want := range []string{
		"Unit sales per region.",
		"price: constant",
		"[OK] pie: share per region",
		"[ERR] scatter: bad column",
		"[ERR] radar: unsupported (unknown chart type",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestShouldReload(t *testing.T) {
	file := filepath.Join("data", "sales.csv")
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: file, Op: fsnotify.Write}, true},
		{"create after rename", fsnotify.Event{Name: file, Op: fsnotify.Create}, true},
		{"chmod", fsnotify.Event{Name: file, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: filepath.Join("data", "other.csv"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldReload(tt.event, file); got != tt.want {
				t.Errorf("shouldReload() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunWatchLoopReloadsOnWrite(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sales.csv", salesCSV())

	watcher, err := setupFileWatcher(path)
	if err != nil {
		t.Fatalf("setupFileWatcher failed: %v", err)
	}
	defer cleanupWatcher(watcher)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = os.WriteFile(path, []byte(salesCSV()+"West,5,1.0\n"), 0o600)
	}()

	reloads := 0
	err = runWatchLoop(ctx, watcher, path, func(context.Context) {
		reloads++
		cancel()
	})
	if err != nil {
		t.Fatalf("runWatchLoop failed: %v", err)
	}
	if reloads == 0 {
		t.Error("Expected at least one reload")
	}
}

func TestValidateWatchFilePath(t *testing.T) {
	dir := t.TempDir()
	if err := validateWatchFilePath(dir); err == nil {
		t.Error("Expected directories to be rejected")
	}
	if err := validateWatchFilePath("  "); err == nil {
		t.Error("Expected empty path to be rejected")
	}
	if err := validateWatchFilePath(writeFile(t, dir, "a.csv", "a\n1\n")); err != nil {
		t.Errorf("Expected regular file to be accepted, got %v", err)
	}
}
