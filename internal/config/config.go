package config

import (
	"fmt"
	"strings"
)

// Config holds the complete application configuration
type Config struct {
	Version string        `yaml:"version" json:"version"`
	Input   InputConfig   `yaml:"input" json:"input"`
	Display DisplayConfig `yaml:"display" json:"display"`
	Charts  ChartConfig   `yaml:"charts" json:"charts"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InputConfig configures how tabular files are read
type InputConfig struct {
	Format    string   `yaml:"format" json:"format" jsonschema:"enum=auto,enum=csv,enum=tsv,enum=xlsx,enum=jsonl,enum=logfmt,enum=log"`
	Delimiter string   `yaml:"delimiter" json:"delimiter"`   // single character, csv only
	Sheet     string   `yaml:"sheet" json:"sheet"`           // xlsx sheet name, empty = first sheet
	MaxRows   int      `yaml:"max_rows" json:"max_rows"`     // 0 = unlimited
	NaNValues []string `yaml:"nan_values" json:"nan_values"` // cell values treated as missing
}

// MinPreviewFloor is the smallest allowed slider minimum. Configuration may
// raise the minimum but never lower it.
const MinPreviewFloor = 5

// DisplayConfig configures the preview and the explorer look
type DisplayConfig struct {
	PreviewRows    int    `yaml:"preview_rows" json:"preview_rows"`
	MinPreviewRows int    `yaml:"min_preview_rows" json:"min_preview_rows" jsonschema:"minimum=5"`
	Theme          string `yaml:"theme" json:"theme" jsonschema:"enum=default,enum=dark,enum=light"`
	ColorMode      string `yaml:"color_mode" json:"color_mode" jsonschema:"enum=auto,enum=always,enum=never"`
	DisableEmoji   bool   `yaml:"disable_emoji" json:"disable_emoji"`
	MaxCellWidth   int    `yaml:"max_cell_width" json:"max_cell_width"`
}

// ChartConfig configures chart selection and rendering
type ChartConfig struct {
	DefaultType   string  `yaml:"default_type" json:"default_type"`
	Width         int     `yaml:"width" json:"width"`                   // terminal canvas columns
	Height        int     `yaml:"height" json:"height"`                 // terminal canvas rows
	HistogramBins int     `yaml:"histogram_bins" json:"histogram_bins"` // 0 = Sturges' rule
	ExportDir     string  `yaml:"export_dir" json:"export_dir"`
	ExportWidth   float64 `yaml:"export_width" json:"export_width"`   // inches
	ExportHeight  float64 `yaml:"export_height" json:"export_height"` // inches
	ExportWorkers int     `yaml:"export_workers" json:"export_workers"`
}

// OutputConfig configures report output
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // json|text|markdown|csv
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	IncludeChart  bool   `yaml:"include_chart" json:"include_chart"`
}

// LoggingConfig configures diagnostic logging on stderr
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug|info|warn|error
	Format string `yaml:"format" json:"format"` // text|json|logfmt
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Input: InputConfig{
			Format:    "auto",
			Delimiter: ",",
			Sheet:     "",
			MaxRows:   0,
			NaNValues: []string{"NA", "NaN", "<nil>"},
		},
		Display: DisplayConfig{
			PreviewRows:    10,
			MinPreviewRows: 5,
			Theme:          "default",
			ColorMode:      "auto",
			DisableEmoji:   false,
			MaxCellWidth:   24,
		},
		Charts: ChartConfig{
			DefaultType:   "line",
			Width:         60,
			Height:        16,
			HistogramBins: 0,
			ExportDir:     ".",
			ExportWidth:   6,
			ExportHeight:  4,
			ExportWorkers: 4,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			Verbose:       false,
			IncludeChart:  false,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateInputConfig(); err != nil {
		return err
	}
	if err := c.validateDisplayConfig(); err != nil {
		return err
	}
	if err := c.validateChartConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateLoggingConfig(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateInputConfig() error {
	if c.Input.Format != "" {
		validFormats := map[string]bool{
			"auto":   true,
			"csv":    true,
			"tsv":    true,
			"xlsx":   true,
			"jsonl":  true,
			"logfmt": true,
			"log":    true,
		}
		if !validFormats[c.Input.Format] {
			return fmt.Errorf("invalid input format: %s (must be one of: auto, csv, tsv, xlsx, jsonl, logfmt, log)", c.Input.Format)
		}
	}
	if c.Input.Delimiter != "" && len([]rune(c.Input.Delimiter)) != 1 {
		return fmt.Errorf("delimiter must be a single character")
	}
	if c.Input.MaxRows < 0 {
		return fmt.Errorf("max_rows must be non-negative")
	}
	return nil
}

func (c *Config) validateDisplayConfig() error {
	if c.Display.PreviewRows < 1 {
		return fmt.Errorf("preview_rows must be greater than 0")
	}
	if c.Display.MinPreviewRows < MinPreviewFloor {
		return fmt.Errorf("min_preview_rows must be at least %d", MinPreviewFloor)
	}
	if c.Display.Theme != "" {
		validThemes := map[string]bool{"default": true, "dark": true, "light": true}
		if !validThemes[c.Display.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, dark, light)", c.Display.Theme)
		}
	}
	if c.Display.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Display.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Display.ColorMode)
		}
	}
	return nil
}

// chartTypes mirrors the identifiers accepted by the chart package.
var chartTypes = []string{"line", "bar", "scatter", "histogram", "box", "pie", "heatmap"}

func (c *Config) validateChartConfig() error {
	if c.Charts.DefaultType != "" {
		valid := false
		for _, t := range chartTypes {
			if t == c.Charts.DefaultType {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid chart type: %s (must be one of: %s)", c.Charts.DefaultType, strings.Join(chartTypes, ", "))
		}
	}
	if c.Charts.Width < 10 {
		return fmt.Errorf("chart width must be at least 10")
	}
	if c.Charts.Height < 4 {
		return fmt.Errorf("chart height must be at least 4")
	}
	if c.Charts.HistogramBins < 0 {
		return fmt.Errorf("histogram_bins must be non-negative")
	}
	if c.Charts.ExportWidth <= 0 || c.Charts.ExportHeight <= 0 {
		return fmt.Errorf("export dimensions must be positive")
	}
	if c.Charts.ExportWorkers < 1 {
		return fmt.Errorf("export_workers must be greater than 0")
	}
	return nil
}

func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	return nil
}

func (c *Config) validateLoggingConfig() error {
	if c.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[c.Logging.Level] {
			return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.Logging.Level)
		}
	}
	if c.Logging.Format != "" {
		validFormats := map[string]bool{"text": true, "json": true, "logfmt": true}
		if !validFormats[c.Logging.Format] {
			return fmt.Errorf("invalid log format: %s (must be one of: text, json, logfmt)", c.Logging.Format)
		}
	}
	return nil
}

// DelimiterRune returns the configured delimiter, defaulting to a comma.
func (c *Config) DelimiterRune() rune {
	if r := []rune(c.Input.Delimiter); len(r) == 1 {
		return r[0]
	}
	return ','
}
