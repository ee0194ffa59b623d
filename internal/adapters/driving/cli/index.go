package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/journai/journai-core/internal/core/domain"
)

var indexJSON bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Run an index pass",
	Long: `Embeds, links and dates every entry edited since the last successful pass.
The first pass indexes the whole journal. Archived entries have their
derived data removed.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if err := requireServices(cmd.Context()); err != nil {
		return err
	}

	report, err := indexService.RunIndexPass(cmd.Context())
	if err != nil {
		return fmt.Errorf("index pass failed: %w", err)
	}

	if indexJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printIndexReport(cmd, report)
	return nil
}

func printIndexReport(cmd *cobra.Command, report *domain.IndexReport) {
	mode := "full"
	if report.Incremental {
		mode = "incremental"
	}
	cmd.Printf("Index pass (%s) started %s\n", mode, report.StartedAt.Format(time.RFC3339))
	cmd.Printf("  Selected: %d\n", report.Selected)
	cmd.Printf("  Indexed:  %d\n", report.Indexed)
	cmd.Printf("  Skipped:  %d\n", report.Skipped)
	cmd.Printf("  Cleared:  %d\n", report.Cleared)
	cmd.Printf("  Failed:   %d\n", report.Failed)
	if !report.WatermarkAdvanced {
		cmd.Println("Watermark not advanced; failed entries will be retried.")
	}
}
