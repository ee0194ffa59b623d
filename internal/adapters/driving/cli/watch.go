package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/journai/journai-core/internal/connectors/journaldir"
	"github.com/journai/journai-core/internal/core/services"
	"github.com/journai/journai-core/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Keep the journal imported and indexed",
	Long: `Imports a journal directory, then follows it for changes until interrupted.
New and edited files are imported as they are saved; deleted files archive
their entry. The scheduler runs index passes in the background.
Without an argument the configured journal.dir is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireServices(cmd.Context()); err != nil {
		return err
	}
	if schedulerStore == nil {
		return errNotConfigured("scheduler store")
	}

	dir, err := journalDir(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	importer := journaldir.New(dir, entryService)
	defer importer.Close()

	n, err := importer.Import(ctx)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	cmd.Printf("Imported %d new or changed entries from %s.\n", n, dir)

	scheduler := services.NewScheduler(schedulerConfigFor(importer), schedulerStore, indexService, importer)
	go func() {
		if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("scheduler stopped: %v", err)
		}
	}()
	defer scheduler.Stop() //nolint:errcheck

	cmd.Println("Watching for changes. Press Ctrl-C to stop.")
	err = importer.Follow(ctx, func(change journaldir.Change, err error) {
		if err != nil {
			cmd.PrintErrf("%s %s: %v\n", change.Type, change.Path, err)
			return
		}
		cmd.Printf("%s %s\n", change.Type, change.Path)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.Println("Stopped.")
	return nil
}
