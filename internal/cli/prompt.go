package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yildizm/DataSum/internal/analyzer"
	"github.com/yildizm/DataSum/internal/chart"
	"github.com/yildizm/DataSum/internal/dataset"
	"github.com/yildizm/DataSum/internal/emoji"
)

var (
	promptInput      inputFlags
	promptSampleRows int
	promptNoStats    bool
	promptResponse   string
)

func newPromptCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt [file]",
		Short: "Print an LLM prompt describing a dataset",
		Long: `Print a prompt that asks a language model to explain the dataset and suggest
charts. Paste the prompt into any chat model.

With --response, the model's JSON reply is read back instead: its summary is
printed and every suggested chart is checked against the dataset.

Examples:
  datasum prompt sales.csv
  datasum prompt --sample-rows 3 --no-stats sales.csv
  datasum prompt --response reply.json sales.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPrompt,
	}

	addInputFlags(cmd, &promptInput)
	cmd.Flags().IntVar(&promptSampleRows, "sample-rows", 5, "preview rows included in the prompt")
	cmd.Flags().BoolVar(&promptNoStats, "no-stats", false, "leave descriptive statistics out of the prompt")
	cmd.Flags().StringVar(&promptResponse, "response", "", "file holding a model reply to check against the dataset")

	return cmd
}

func runPrompt(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	ds, err := promptInput.loadDataset(ctx, cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if promptResponse != "" {
		// #nosec G304 - reading a user-specified reply file is the purpose of this flag
		data, err := os.ReadFile(filepath.Clean(promptResponse))
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		return checkResponse(out, ds, analyzer.ParseResponse(string(data)))
	}

	analysis, err := buildAnalysis(ctx, ds, GetGlobalConfig().Display.PreviewRows, nil)
	if err != nil {
		return err
	}

	pattern := analyzer.DatasetPrompt().WithAnalysis(analysis).WithSampleRows(promptSampleRows)
	if promptNoStats {
		pattern.WithoutStatistics()
	}
	prompt := pattern.Build()

	fmt.Fprintf(out, "--- system ---\n%s\n\n--- user ---\n%s\n", prompt.SystemPrompt, prompt.String())
	return nil
}

// checkResponse prints the reply summary and tries every suggested chart
func checkResponse(w io.Writer, ds *dataset.Dataset, response *analyzer.DatasetResponse) error {
	fmt.Fprintf(w, "%s Summary\n%s\n", emoji.GetEmoji("brain"), strings.TrimSpace(response.Summary))

	if len(response.DataQuality) > 0 {
		fmt.Fprintf(w, "\n%s Data quality\n", emoji.GetEmoji("missing"))
		for _, issue := range response.DataQuality {
			fmt.Fprintf(w, "  • %s: %s\n", issue.Column, issue.Issue)
		}
	}

	if len(response.Charts) == 0 {
		return nil
	}

	selector := chart.NewSelector(GetGlobalConfig().Charts.HistogramBins, newLogger("chart"))
	fmt.Fprintf(w, "\n%s Suggested charts\n", emoji.GetEmoji("chart"))
	for _, suggestion := range response.Charts {
		req, err := suggestion.Request()
		if err == nil {
			var result *chart.Result
			if result, err = selector.Select(ds, req); err == nil && result.Warned() {
				err = errors.New(result.Warning)
			}
		}

		status := emoji.GetEmoji("success")
		if err != nil {
			status = emoji.GetEmoji("error")
		}
		fmt.Fprintf(w, "  %s %s", status, suggestion.Type)
		if suggestion.Reason != "" {
			fmt.Fprintf(w, ": %s", suggestion.Reason)
		}
		if err != nil {
			fmt.Fprintf(w, " (%v)", err)
		}
		fmt.Fprintln(w)
	}
	return nil
}
