package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	loader := NewLoader()

	// Test loading with no config files (should use defaults)
	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	if cfg.Input.Format != "auto" {
		t.Errorf("Expected default input format auto, got %s", cfg.Input.Format)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.DefaultFormat)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.yaml")

	configContent := `version: "1.0"
input:
  format: "csv"
  delimiter: ";"
  max_rows: 500
display:
  preview_rows: 20
charts:
  default_type: "pie"
  histogram_bins: 12
  export_width: 8.5
output:
  default_format: "json"
  verbose: true
`

	err := os.WriteFile(configPath, []byte(configContent), 0o600)
	if err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	loader := NewLoader()
	cfg, err := loader.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.Input.Format != "csv" {
		t.Errorf("Expected input format csv, got %s", cfg.Input.Format)
	}
	if cfg.DelimiterRune() != ';' {
		t.Errorf("Expected delimiter ';', got %q", cfg.DelimiterRune())
	}
	if cfg.Input.MaxRows != 500 {
		t.Errorf("Expected max rows 500, got %d", cfg.Input.MaxRows)
	}
	if cfg.Display.PreviewRows != 20 {
		t.Errorf("Expected preview rows 20, got %d", cfg.Display.PreviewRows)
	}
	if cfg.Charts.DefaultType != "pie" {
		t.Errorf("Expected default chart pie, got %s", cfg.Charts.DefaultType)
	}
	if cfg.Charts.HistogramBins != 12 {
		t.Errorf("Expected 12 histogram bins, got %d", cfg.Charts.HistogramBins)
	}
	if cfg.Charts.ExportWidth != 8.5 {
		t.Errorf("Expected export width 8.5, got %v", cfg.Charts.ExportWidth)
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("Expected output format json, got %s", cfg.Output.DefaultFormat)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid-config.yaml")

	invalidConfigContent := `version: "1.0"
input:
  format: "csv"
  # Invalid YAML - missing closing quote
output:
  default_format: "json
  verbose: true
`

	err := os.WriteFile(configPath, []byte(invalidConfigContent), 0o600)
	if err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	loader := NewLoader()
	_, err = loader.LoadConfig(configPath)
	if err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("charts:\n  default_type: radar\n"), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	_, err := NewLoader().LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected validation error, got none")
	}
	if !strings.Contains(err.Error(), "invalid chart type: radar") {
		t.Errorf("Expected chart type error, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	envVars := map[string]string{
		"DATASUM_INPUT_FORMAT":          "tsv",
		"DATASUM_DISPLAY_PREVIEW_ROWS":  "15",
		"DATASUM_OUTPUT_VERBOSE":        "true",
		"DATASUM_CHARTS_EXPORT_HEIGHT":  "3.5",
		"DATASUM_INPUT_NAN_VALUES":      "null, -, n/a",
		"DATASUM_DISPLAY_DISABLE_EMOJI": "true",
	}

	for key, value := range envVars {
		t.Setenv(key, value)
	}

	loader := NewLoader()
	cfg := DefaultConfig()

	err := loader.applyEnvOverrides(cfg)
	if err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.Input.Format != "tsv" {
		t.Errorf("Expected input format tsv, got %s", cfg.Input.Format)
	}
	if cfg.Display.PreviewRows != 15 {
		t.Errorf("Expected preview rows 15, got %d", cfg.Display.PreviewRows)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Charts.ExportHeight != 3.5 {
		t.Errorf("Expected export height 3.5, got %v", cfg.Charts.ExportHeight)
	}
	if !cfg.Display.DisableEmoji {
		t.Errorf("Expected emoji to be disabled")
	}
	expected := []string{"null", "-", "n/a"}
	if len(cfg.Input.NaNValues) != len(expected) {
		t.Fatalf("Expected %d NaN markers, got %d", len(expected), len(cfg.Input.NaNValues))
	}
	for i, want := range expected {
		if cfg.Input.NaNValues[i] != want {
			t.Errorf("Expected NaN marker %s, got %s", want, cfg.Input.NaNValues[i])
		}
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "DATASUM_DISPLAY_PREVIEW_ROWS", "not-a-number"},
		{"invalid bool", "DATASUM_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid float", "DATASUM_CHARTS_EXPORT_WIDTH", "wide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			loader := NewLoader()
			cfg := DefaultConfig()

			err := loader.applyEnvOverrides(cfg)
			if err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			}
		})
	}
}

func TestParseFloat(t *testing.T) {
	var value float64

	err := parseFloat("2.25", &value)
	if err != nil {
		t.Errorf("Failed to parse float: %v", err)
	}
	if value != 2.25 {
		t.Errorf("Expected 2.25, got %v", value)
	}

	err = parseFloat("invalid", &value)
	if err == nil {
		t.Error("Expected error for invalid float, but got none")
	}
}

func TestParseInt(t *testing.T) {
	var value int

	err := parseInt("42", &value)
	if err != nil {
		t.Errorf("Failed to parse int: %v", err)
	}
	if value != 42 {
		t.Errorf("Expected 42, got %d", value)
	}

	err = parseInt("not-a-number", &value)
	if err == nil {
		t.Error("Expected error for invalid int, but got none")
	}
}

func TestParseBool(t *testing.T) {
	var value bool

	err := parseBool("true", &value)
	if err != nil {
		t.Errorf("Failed to parse bool: %v", err)
	}
	if !value {
		t.Errorf("Expected true, got %v", value)
	}

	err = parseBool("false", &value)
	if err != nil {
		t.Errorf("Failed to parse bool: %v", err)
	}
	if value {
		t.Errorf("Expected false, got %v", value)
	}

	err = parseBool("not-a-bool", &value)
	if err == nil {
		t.Error("Expected error for invalid bool, but got none")
	}
}

func TestFindConfigFile(t *testing.T) {
	// Test when no config file exists
	_, found := FindConfigFile()
	if found {
		t.Error("Expected no config file to be found, but one was found")
	}

	// Create a temporary config file in current directory
	tempConfigPath := "./.datasum.yaml"
	err := os.WriteFile(tempConfigPath, []byte("version: 1.0"), 0o600)
	if err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	defer func() { _ = os.Remove(tempConfigPath) }()

	configPath, found := FindConfigFile()
	if !found {
		t.Error("Expected config file to be found, but none was found")
	}
	if configPath != tempConfigPath {
		t.Errorf("Expected config path %s, got %s", tempConfigPath, configPath)
	}
}

func TestFileExists(t *testing.T) {
	// Test with non-existent file
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist, but fileExists returned true")
	}

	// Create a temporary file
	tempFile := filepath.Join(t.TempDir(), "test-file")
	err := os.WriteFile(tempFile, []byte("test"), 0o600)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	if !fileExists(tempFile) {
		t.Error("Expected file to exist, but fileExists returned false")
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid yaml file",
			path:    "config.yaml",
			wantErr: false,
		},
		{
			name:    "valid yml file",
			path:    "config.yml",
			wantErr: false,
		},
		{
			name:    "path traversal attempt",
			path:    "../../../etc/passwd",
			wantErr: true,
			errMsg:  "path traversal not allowed",
		},
		{
			name:    "non-yaml file",
			path:    "config.txt",
			wantErr: true,
			errMsg:  "config file must have .yaml or .yml extension",
		},
		{
			name:    "system file access",
			path:    "/etc/passwd.yaml",
			wantErr: true,
			errMsg:  "access to system files not allowed",
		},
		{
			name:    "proc filesystem access",
			path:    "/proc/version.yaml",
			wantErr: true,
			errMsg:  "access to system files not allowed",
		},
		{
			name:    "relative path with valid extension",
			path:    "./configs/app.yaml",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
			}
		})
	}
}
