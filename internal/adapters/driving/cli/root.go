// Package cli provides the journai command line interface.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/journai/journai-core/internal/logger"
)

var (
	// version is set at build time via SetVersion.
	version = "dev"

	verbose bool
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:   "journai",
	Short: "Search and talk to your journal",
	Long: `JournAI keeps a private index of your journal entries on this machine.

Entries are chunked, embedded and mined for people, places and dates.
Questions are answered by a chat model that only sees the context
gathered from your own entries.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline details to stderr")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.journai)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command and releases every opened resource.
func Execute() error {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	defer closeServices()
	return rootCmd.Execute()
}
