package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/yildizm/DataSum/internal/config"
	"github.com/yildizm/DataSum/internal/emoji"
	"github.com/yildizm/DataSum/internal/logger"
	"github.com/yildizm/DataSum/internal/ui"
)

const defaultLogLevel = "warn"

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string
	logLevel  string

	globalConfig *config.Config
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "datasum",
		Short: "Interactive CSV Data Exploration Tool",
		Long: `DataSum loads a tabular file and shows a preview of its rows, descriptive
statistics, column types and a chart of your choice.

It reads CSV, TSV, Excel workbooks and JSON or logfmt log lines, either in an
interactive terminal explorer or as text, JSON, Markdown or CSV reports.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupGlobals,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format (text, json, markdown, csv)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "force log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(newExploreCommand())
	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newChartCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newPromptCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// setupGlobals loads the configuration and applies it to the shared
// emoji, logging and styling state. Flags win over configuration values.
func setupGlobals(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	globalConfig = cfg

	if !flagChanged(cmd, "no-emoji") {
		// Auto-disable emojis on Windows if not explicitly set
		noEmoji = cfg.Display.DisableEmoji || runtime.GOOS == "windows"
	}
	emoji.SetEmojiDisabled(noEmoji)

	if !flagChanged(cmd, "output") {
		outputFmt = cfg.Output.DefaultFormat
	}
	if !flagChanged(cmd, "verbose") && cfg.Output.Verbose {
		verbose = true
	}

	var errs *multierror.Error
	if _, err := getFormatter(outputFmt, false); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("invalid --output: %w", err))
	}

	level := logLevel
	if level == "" && !verbose && cfg.Logging.Level != defaultLogLevel {
		level = cfg.Logging.Level
	}
	if err := logger.Configure(level, cfg.Logging.Format); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("invalid --log-level: %w", err))
	}

	if !ui.SetThemeByName(cfg.Display.Theme) {
		errs = multierror.Append(errs, fmt.Errorf("unknown theme: %s", cfg.Display.Theme))
	}
	if !useColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	return errs.ErrorOrNil()
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "DataSum %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// Global helpers
func isVerbose() bool {
	return verbose
}

func getOutputFormat() string {
	return outputFmt
}

// GetGlobalConfig returns the loaded configuration, or defaults before loading
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

func newLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

var stdoutIsTerminal = func() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// useColor resolves --no-color, NO_COLOR and the configured color mode
func useColor() bool {
	if noColor || ui.IsColorDisabled() {
		return false
	}
	switch GetGlobalConfig().Display.ColorMode {
	case "never":
		return false
	case "always":
		return true
	default:
		return stdoutIsTerminal()
	}
}
