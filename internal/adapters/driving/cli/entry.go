package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/journai/journai-core/internal/connectors/journaldir"
)

var (
	entryTitle    string
	entryArchived bool
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage journal entries",
	Long:  `Add, list, show, archive or import journal entries.`,
}

var entryAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a new entry",
	Long: `Adds a new journal entry. Use "-" or no argument to read the body from stdin.
Without --title the title is taken from the first line of the body.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEntryAdd,
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries",
	Args:  cobra.NoArgs,
	RunE:  runEntryList,
}

var entryShowCmd = &cobra.Command{
	Use:   "show [entry-id]",
	Short: "Print an entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryShow,
}

var entryArchiveCmd = &cobra.Command{
	Use:   "archive [entry-id]",
	Short: "Archive an entry",
	Long:  `Archives an entry. Its embeddings, entity links and timeline items are removed on the next index pass.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryArchive,
}

var entryImportCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Import entries from a directory",
	Long: `Imports every Markdown and text file under a directory, one entry per file.
Files are matched to entries by path, so importing again only updates changed files.
Without an argument the configured journal.dir is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEntryImport,
}

func init() {
	entryAddCmd.Flags().StringVarP(&entryTitle, "title", "t", "", "entry title")
	entryListCmd.Flags().BoolVarP(&entryArchived, "archived", "a", false, "include archived entries")
	entryCmd.AddCommand(entryAddCmd)
	entryCmd.AddCommand(entryListCmd)
	entryCmd.AddCommand(entryShowCmd)
	entryCmd.AddCommand(entryArchiveCmd)
	entryCmd.AddCommand(entryImportCmd)
	rootCmd.AddCommand(entryCmd)
}

func runEntryAdd(cmd *cobra.Command, args []string) error {
	if err := requireServices(cmd.Context()); err != nil {
		return err
	}

	var body string
	if len(args) == 1 && args[0] != "-" {
		body = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		body = string(data)
	}

	doc, err := entryService.Add(cmd.Context(), entryTitle, body)
	if err != nil {
		return fmt.Errorf("failed to add entry: %w", err)
	}

	cmd.Printf("Added entry %s: %s\n", doc.ID, doc.Title)
	return nil
}

func runEntryList(cmd *cobra.Command, _ []string) error {
	if err := requireServices(cmd.Context()); err != nil {
		return err
	}

	docs, err := entryService.List(cmd.Context(), entryArchived)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No entries.")
		return nil
	}

	for i := range docs {
		marker := ""
		if docs[i].Archived {
			marker = " [archived]"
		}
		cmd.Printf("%s  %s  %s%s\n", docs[i].CreatedAt.Format("2006-01-02 15:04"), docs[i].ID, docs[i].Title, marker)
	}
	return nil
}

func runEntryShow(cmd *cobra.Command, args []string) error {
	if err := requireServices(cmd.Context()); err != nil {
		return err
	}

	doc, err := entryService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	cmd.Printf("ID:      %s\n", doc.ID)
	cmd.Printf("Title:   %s\n", doc.Title)
	if doc.URI != "" {
		cmd.Printf("Source:  %s\n", doc.URI)
	}
	cmd.Printf("Created: %s\n", doc.CreatedAt.Format(time.RFC3339))
	cmd.Printf("Edited:  %s\n", doc.EditedAt.Format(time.RFC3339))
	if doc.Archived {
		cmd.Println("Status:  archived")
	}
	cmd.Println()
	cmd.Println(strings.TrimRight(doc.Body, "\n"))
	return nil
}

func runEntryArchive(cmd *cobra.Command, args []string) error {
	if err := requireServices(cmd.Context()); err != nil {
		return err
	}

	if err := entryService.Archive(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to archive entry: %w", err)
	}

	cmd.Printf("Archived entry %s.\n", args[0])
	return nil
}

func runEntryImport(cmd *cobra.Command, args []string) error {
	if err := requireServices(cmd.Context()); err != nil {
		return err
	}

	dir, err := journalDir(args)
	if err != nil {
		return err
	}

	importer := journaldir.New(dir, entryService)
	defer importer.Close()

	n, err := importer.Import(cmd.Context())
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	cmd.Printf("Imported %d new or changed entries from %s.\n", n, dir)
	return nil
}

// journalDir returns the directory argument or the configured journal.dir.
func journalDir(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if settingsService != nil {
		if dir := settingsService.JournalDir(); dir != "" {
			return dir, nil
		}
	}
	return "", fmt.Errorf("no journal directory: pass one or run 'journai settings set journal.dir <path>'")
}
