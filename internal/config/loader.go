package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.datasum.yaml",               // Project-specific config (highest priority)
	"~/.config/datasum/config.yaml", // User config
	"/etc/datasum/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.datasum.yaml
// 4. ~/.config/datasum/config.yaml
// 5. /etc/datasum/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// If custom path is provided, use only that path
	if customPath != "" {
		// Validate the custom path for security
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Load from standard paths in reverse priority order (lowest to highest)
		paths := make([]string, len(l.configPaths))
		copy(paths, l.configPaths)
		// Reverse the slice to load lowest priority first
		for i := len(paths)/2 - 1; i >= 0; i-- {
			opp := len(paths) - 1 - i
			paths[i], paths[opp] = paths[opp], paths[i]
		}

		for _, path := range paths {
			expandedPath := expandPath(path)
			if fileExists(expandedPath) {
				if err := l.loadFromFile(config, expandedPath); err != nil {
					// Log warning but continue with other config files
					fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
				}
			}
		}
	}

	// Apply environment variable overrides
	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	// Validate the final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() before reaching here
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// Create a temporary config to unmarshal into
	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Merge the file config into the existing config
	mergeConfigs(config, &fileConfig)

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Input Config
		"DATASUM_INPUT_FORMAT":    func(v string) error { config.Input.Format = v; return nil },
		"DATASUM_INPUT_DELIMITER": func(v string) error { config.Input.Delimiter = v; return nil },
		"DATASUM_INPUT_SHEET":     func(v string) error { config.Input.Sheet = v; return nil },
		"DATASUM_INPUT_MAX_ROWS":  func(v string) error { return parseInt(v, &config.Input.MaxRows) },

		// Display Config
		"DATASUM_DISPLAY_PREVIEW_ROWS":   func(v string) error { return parseInt(v, &config.Display.PreviewRows) },
		"DATASUM_DISPLAY_THEME":          func(v string) error { config.Display.Theme = v; return nil },
		"DATASUM_DISPLAY_COLOR_MODE":     func(v string) error { config.Display.ColorMode = v; return nil },
		"DATASUM_DISPLAY_DISABLE_EMOJI":  func(v string) error { return parseBool(v, &config.Display.DisableEmoji) },
		"DATASUM_DISPLAY_MAX_CELL_WIDTH": func(v string) error { return parseInt(v, &config.Display.MaxCellWidth) },

		// Chart Config
		"DATASUM_CHARTS_DEFAULT_TYPE":   func(v string) error { config.Charts.DefaultType = v; return nil },
		"DATASUM_CHARTS_WIDTH":          func(v string) error { return parseInt(v, &config.Charts.Width) },
		"DATASUM_CHARTS_HEIGHT":         func(v string) error { return parseInt(v, &config.Charts.Height) },
		"DATASUM_CHARTS_HISTOGRAM_BINS": func(v string) error { return parseInt(v, &config.Charts.HistogramBins) },
		"DATASUM_CHARTS_EXPORT_DIR":     func(v string) error { config.Charts.ExportDir = v; return nil },
		"DATASUM_CHARTS_EXPORT_WIDTH":   func(v string) error { return parseFloat(v, &config.Charts.ExportWidth) },
		"DATASUM_CHARTS_EXPORT_HEIGHT":  func(v string) error { return parseFloat(v, &config.Charts.ExportHeight) },
		"DATASUM_CHARTS_EXPORT_WORKERS": func(v string) error { return parseInt(v, &config.Charts.ExportWorkers) },

		// Output Config
		"DATASUM_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"DATASUM_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"DATASUM_OUTPUT_INCLUDE_CHART":  func(v string) error { return parseBool(v, &config.Output.IncludeChart) },

		// Logging Config
		"DATASUM_LOGGING_LEVEL":  func(v string) error { config.Logging.Level = v; return nil },
		"DATASUM_LOGGING_FORMAT": func(v string) error { config.Logging.Format = v; return nil },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// Missing-value markers are a comma-separated list
	if values := os.Getenv("DATASUM_INPUT_NAN_VALUES"); values != "" {
		config.Input.NaNValues = strings.Split(values, ",")
		for i, v := range config.Input.NaNValues {
			config.Input.NaNValues[i] = strings.TrimSpace(v)
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	// Clean the path to resolve any ".." components
	cleanPath := filepath.Clean(path)

	// Check for path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	// Ensure it's a YAML file
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	// Convert to absolute path for additional validation
	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	// Basic sanity check - ensure it's not in sensitive system directories
	if strings.HasPrefix(absPath, "/etc/passwd") ||
		strings.HasPrefix(absPath, "/etc/shadow") ||
		strings.HasPrefix(absPath, "/proc/") ||
		strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config
// Only non-zero values from source overwrite destination
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeInputConfig(&dst.Input, &src.Input)
	mergeDisplayConfig(&dst.Display, &src.Display)
	mergeChartConfig(&dst.Charts, &src.Charts)
	mergeOutputConfig(&dst.Output, &src.Output)
	mergeLoggingConfig(&dst.Logging, &src.Logging)
}

func mergeInputConfig(dst, src *InputConfig) {
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Delimiter != "" {
		dst.Delimiter = src.Delimiter
	}
	if src.Sheet != "" {
		dst.Sheet = src.Sheet
	}
	if src.MaxRows != 0 {
		dst.MaxRows = src.MaxRows
	}
	if len(src.NaNValues) > 0 {
		dst.NaNValues = src.NaNValues
	}
}

func mergeDisplayConfig(dst, src *DisplayConfig) {
	if src.PreviewRows != 0 {
		dst.PreviewRows = src.PreviewRows
	}
	if src.MinPreviewRows != 0 {
		dst.MinPreviewRows = src.MinPreviewRows
	}
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	if src.MaxCellWidth != 0 {
		dst.MaxCellWidth = src.MaxCellWidth
	}
	if src.DisableEmoji {
		dst.DisableEmoji = true
	}
}

func mergeChartConfig(dst, src *ChartConfig) {
	if src.DefaultType != "" {
		dst.DefaultType = src.DefaultType
	}
	if src.Width != 0 {
		dst.Width = src.Width
	}
	if src.Height != 0 {
		dst.Height = src.Height
	}
	if src.HistogramBins != 0 {
		dst.HistogramBins = src.HistogramBins
	}
	if src.ExportDir != "" {
		dst.ExportDir = src.ExportDir
	}
	if src.ExportWidth != 0 {
		dst.ExportWidth = src.ExportWidth
	}
	if src.ExportHeight != 0 {
		dst.ExportHeight = src.ExportHeight
	}
	if src.ExportWorkers != 0 {
		dst.ExportWorkers = src.ExportWorkers
	}
}

func mergeOutputConfig(dst, src *OutputConfig) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	// For boolean fields, we need to check if they were explicitly set
	// This is a limitation of YAML unmarshaling, but we'll handle it in env overrides
	mergeIfSet(&dst.Verbose, src.Verbose)
	mergeIfSet(&dst.IncludeChart, src.IncludeChart)
}

func mergeLoggingConfig(dst, src *LoggingConfig) {
	if src.Level != "" {
		dst.Level = src.Level
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
}

// mergeIfSet only merges boolean values if they appear to be explicitly set
// This is a simple heuristic, but works for most cases
func mergeIfSet(dst *bool, src bool) {
	// For now, always merge - this could be improved with custom unmarshaling
	*dst = src
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseFloat(s string, dst *float64) error {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
