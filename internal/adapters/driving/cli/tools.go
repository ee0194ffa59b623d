package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/journai/journai-core/internal/core/domain"
)

var (
	timelineDays int
	patternDays  int
	toolsFrom    string
	toolsTo      string
	toolsEntries bool
	toolsLimit   int
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Run the context tools directly",
	Long: `Runs the read-only tools the planner uses to gather context,
so you can see exactly what a chat model would be shown.`,
}

var toolsTimelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "List dated events from recent days",
	Args:  cobra.NoArgs,
	RunE:  runToolsTimeline,
}

var toolsRangeCmd = &cobra.Command{
	Use:   "range",
	Short: "List events or entries between two dates",
	Long: `Lists timeline events between --from and --to (YYYY-MM-DD or RFC 3339).
With --entries, lists the entries written in the range instead.`,
	Args: cobra.NoArgs,
	RunE: runToolsRange,
}

var toolsPatternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Report recurring people, places and topics",
	Args:  cobra.NoArgs,
	RunE:  runToolsPatterns,
}

var toolsPlanCmd = &cobra.Command{
	Use:   "plan [question]",
	Short: "Show the context gathered for a question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runToolsPlan,
}

func init() {
	toolsTimelineCmd.Flags().IntVarP(&timelineDays, "days", "d", domain.DefaultTimelineDays, "days to look back")
	toolsPatternsCmd.Flags().IntVarP(&patternDays, "days", "d", 30, "window in days")

	toolsRangeCmd.Flags().StringVar(&toolsFrom, "from", "", "range start")
	toolsRangeCmd.Flags().StringVar(&toolsTo, "to", "", "range end (a date is inclusive)")
	toolsRangeCmd.Flags().BoolVar(&toolsEntries, "entries", false, "list entries instead of events")
	toolsRangeCmd.Flags().IntVarP(&toolsLimit, "limit", "n", 10, "maximum number of entries")
	_ = toolsRangeCmd.MarkFlagRequired("from")
	_ = toolsRangeCmd.MarkFlagRequired("to")

	toolsCmd.AddCommand(toolsTimelineCmd)
	toolsCmd.AddCommand(toolsRangeCmd)
	toolsCmd.AddCommand(toolsPatternsCmd)
	toolsCmd.AddCommand(toolsPlanCmd)
	rootCmd.AddCommand(toolsCmd)
}

func runToolsTimeline(cmd *cobra.Command, _ []string) error {
	if err := requireServices(cmd.Context()); err != nil {
		return err
	}
	printBlock(cmd, toolsService.TimelineSummary(cmd.Context(), timelineDays), "No events in the last %d days.", timelineDays)
	return nil
}

func runToolsRange(cmd *cobra.Command, _ []string) error {
	r, err := domain.ParseDateRange(toolsFrom, toolsTo, time.Local)
	if err != nil {
		return err
	}
	if err := requireServices(cmd.Context()); err != nil {
		return err
	}

	if toolsEntries {
		printBlock(cmd, toolsService.EntriesSummaryRange(cmd.Context(), r.Start, r.End, toolsLimit), "No entries in range.")
		return nil
	}
	printBlock(cmd, toolsService.TimelineSummaryRange(cmd.Context(), r.Start, r.End), "No events in range.")
	return nil
}

func runToolsPatterns(cmd *cobra.Command, _ []string) error {
	if err := requireServices(cmd.Context()); err != nil {
		return err
	}
	printBlock(cmd, toolsService.MinePatterns(cmd.Context(), patternDays), "No recurring patterns in the last %d days.", patternDays)
	return nil
}

func runToolsPlan(cmd *cobra.Command, args []string) error {
	if err := requireServices(cmd.Context()); err != nil {
		return err
	}
	if plannerService == nil {
		return errNotConfigured("planner")
	}
	question := strings.Join(args, " ")
	printBlock(cmd, plannerService.PlanAndGather(cmd.Context(), question), "No relevant context found.")
	return nil
}

// printBlock prints a tool result, or the formatted fallback when it is empty.
func printBlock(cmd *cobra.Command, block, emptyFormat string, args ...any) {
	if strings.TrimSpace(block) == "" {
		cmd.Println(fmt.Sprintf(emptyFormat, args...))
		return
	}
	cmd.Println(strings.TrimRight(block, "\n"))
}
