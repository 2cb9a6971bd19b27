package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docqa/internal/index"
	"github.com/ziadkadry99/docqa/internal/qa"
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Semantically search the indexed documents",
	Long:  `Searches the vector index with a natural language query and prints the most similar passages without calling the LLM.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().Int("limit", qa.DefaultTopK, "maximum number of results")
	queryCmd.Flags().StringSlice("doc", nil, "restrict the search to these document IDs")
	queryCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	limit, _ := cmd.Flags().GetInt("limit")
	docIDs, _ := cmd.Flags().GetStringSlice("doc")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	passages, err := a.composer.Search(ctx, qa.Request{
		Question:    args[0],
		DocumentIDs: docIDs,
		TopK:        limit,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(passages) == 0 {
		fmt.Println("No results found. Run `docqa ingest` to add documents.")
		return nil
	}

	if jsonOutput {
		return printQueryResultsJSON(passages)
	}

	printQueryResultsTable(passages)
	return nil
}

type queryResultJSON struct {
	Rank       int     `json:"rank"`
	Similarity float64 `json:"similarity"`
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title"`
	PageNumber int     `json:"page_number"`
	Content    string  `json:"content"`
}

func printQueryResultsJSON(passages []index.Passage) error {
	out := make([]queryResultJSON, 0, len(passages))
	for i, p := range passages {
		out = append(out, queryResultJSON{
			Rank:       i + 1,
			Similarity: float64(p.Score),
			DocumentID: p.DocumentID,
			Title:      p.Title,
			PageNumber: p.PageNumber,
			Content:    truncate(p.Content, 200),
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printQueryResultsTable(passages []index.Passage) {
	fmt.Printf("Found %d results:\n\n", len(passages))
	for i, p := range passages {
		fmt.Printf("  %d. [%.1f%%] %s, page %d\n", i+1, p.Score*100, p.Title, p.PageNumber)
		fmt.Printf("     Document: %s\n", p.DocumentID)
		fmt.Printf("     %s\n\n", truncate(p.Content, 120))
	}
}

// truncate shortens s to at most max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
