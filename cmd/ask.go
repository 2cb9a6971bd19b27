package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docqa/internal/qa"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the indexed documents",
	Long:  `Retrieves the passages most similar to the question and asks the configured LLM to answer from them, listing the document and page of every source.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringSlice("doc", nil, "restrict the search to these document IDs")
	askCmd.Flags().Int("top-k", 0, "number of passages to retrieve (default from config)")
	askCmd.Flags().Bool("json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	docIDs, _ := cmd.Flags().GetStringSlice("doc")
	topK, _ := cmd.Flags().GetInt("top-k")
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

	answer, err := a.composer.Answer(ctx, qa.Request{
		Question:    args[0],
		DocumentIDs: docIDs,
		TopK:        topK,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	}

	fmt.Println(answer.Answer)
	if len(answer.Sources) > 0 {
		fmt.Println("\nSources:")
		for i, s := range answer.Sources {
			fmt.Printf("  %d. %s, page %d (%s)\n", i+1, s.DocumentTitle, s.PageNumber, s.DocumentID)
		}
	}
	return nil
}
