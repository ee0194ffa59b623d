package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/journai/journai-core/internal/connectors/journaldir"
	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driving"
	"github.com/journai/journai-core/internal/core/services"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Inspect and run background tasks",
	Long: `Background tasks run while 'journai watch' is active:

  index-pass      indexes entries edited since the last pass
  journal-import  imports the configured journal.dir`,
}

var schedulerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show task state and recent runs",
	Args:  cobra.NoArgs,
	RunE:  runSchedulerStatus,
}

var schedulerRunCmd = &cobra.Command{
	Use:   "run [task-id]",
	Short: "Run a task now",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedulerRun,
}

func init() {
	schedulerCmd.AddCommand(schedulerStatusCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	rootCmd.AddCommand(schedulerCmd)
}

func runSchedulerStatus(cmd *cobra.Command, _ []string) error {
	if err := requireServices(cmd.Context()); err != nil {
		return err
	}
	if schedulerStore == nil {
		return errNotConfigured("scheduler store")
	}

	tasks, err := schedulerStore.ListTasks(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(tasks) == 0 {
		cmd.Println("No tasks yet. Run 'journai watch' or 'journai scheduler run index-pass'.")
		return nil
	}

	for i := range tasks {
		task := tasks[i]
		state := "enabled"
		if !task.Enabled {
			state = "disabled"
		}
		cmd.Printf("%s (%s, every %s)\n", task.ID, state, task.Interval)
		cmd.Printf("  Last run:     %s\n", formatTime(task.LastRun))
		cmd.Printf("  Last success: %s\n", formatTime(task.LastSuccess))
		cmd.Printf("  Next run:     %s\n", formatTime(task.NextRun))
		if task.LastError != "" {
			cmd.Printf("  Last error:   %s\n", task.LastError)
		}

		history, err := schedulerStore.GetTaskHistory(cmd.Context(), task.ID, 3)
		if err != nil {
			return fmt.Errorf("failed to get history: %w", err)
		}
		for _, r := range history {
			outcome := "ok"
			if !r.Success {
				outcome = "failed: " + r.Error
			}
			cmd.Printf("    %s  %d items  %s\n", formatTime(r.StartedAt), r.ItemsProcessed, outcome)
		}
		cmd.Println()
	}
	return nil
}

func runSchedulerRun(cmd *cobra.Command, args []string) error {
	if err := requireServices(cmd.Context()); err != nil {
		return err
	}
	if schedulerStore == nil {
		return errNotConfigured("scheduler store")
	}

	var importer driving.JournalImporter
	if dir := settingsService.JournalDir(); dir != "" {
		ji := journaldir.New(dir, entryService)
		defer ji.Close()
		importer = ji
	}

	scheduler := services.NewScheduler(schedulerConfigFor(importer), schedulerStore, indexService, importer)
	if err := scheduler.SyncTasks(cmd.Context()); err != nil {
		return fmt.Errorf("failed to sync tasks: %w", err)
	}

	result, err := scheduler.RunNow(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to run %s: %w", args[0], err)
	}
	if !result.Success {
		return fmt.Errorf("%s failed: %s", args[0], result.Error)
	}

	cmd.Printf("%s finished: %d items in %s.\n", args[0], result.ItemsProcessed,
		result.EndedAt.Sub(result.StartedAt).Round(time.Millisecond))
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// schedulerConfigFor enables the import task whenever an importer exists.
func schedulerConfigFor(importer driving.JournalImporter) domain.SchedulerConfig {
	cfg := settingsService.GetSchedulerConfig()
	if importer != nil {
		imp := cfg.TaskConfigs[domain.TaskIDJournalImport]
		imp.Enabled = true
		cfg.TaskConfigs[domain.TaskIDJournalImport] = imp
	}
	return cfg
}
