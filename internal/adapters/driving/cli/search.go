package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/journai/journai-core/internal/core/domain"
)

const snippetRunes = 160

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search journal entries",
	Long: `Ranks journal entries by semantic similarity to the query.
Only entries indexed with the current embedding model are considered.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultTopK, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := requireServices(cmd.Context()); err != nil {
		return err
	}

	results, err := retrievalService.SearchScored(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

type searchResultJSON struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	URI       string  `json:"uri,omitempty"`
	CreatedAt string  `json:"created_at"`
	Score     float32 `json:"score"`
	Snippet   string  `json:"snippet"`
}

func outputSearchJSON(cmd *cobra.Command, results []domain.ScoredDocument) error {
	out := make([]searchResultJSON, len(results))
	for i := range results {
		doc := results[i].Document
		out[i] = searchResultJSON{
			ID:        doc.ID,
			Title:     doc.Title,
			URI:       doc.URI,
			CreatedAt: doc.CreatedAt.Format(time.RFC3339),
			Score:     results[i].Score,
			Snippet:   snippet(doc.Body, snippetRunes),
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.ScoredDocument) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		// Format: [N] Title - date (Score)
		doc := results[i].Document
		title := doc.Title
		if title == "" {
			title = doc.ID
		}

		cmd.Printf("  [%d] %s - %s (%.2f)\n", i+1, title, doc.CreatedAt.Format("2006-01-02"), results[i].Score)
		if s := snippet(doc.Body, snippetRunes); s != "" {
			cmd.Printf("      %s\n", s)
		}
		cmd.Println()
	}

	return nil
}

// snippet flattens whitespace and cuts text to at most n runes.
func snippet(text string, n int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}
