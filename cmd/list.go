package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docqa/internal/documents"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	RunE:  runList,
}

func init() {
	listCmd.Flags().String("collection", "", "only list documents in this collection")
	listCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	collection, _ := cmd.Flags().GetString("collection")
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

	recs, err := a.ingest.List(ctx, collection)
	if err != nil {
		return err
	}

	if jsonOutput {
		if recs == nil {
			recs = []documents.Record{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}

	if len(recs) == 0 {
		fmt.Println("No documents found.")
		return nil
	}
	for _, r := range recs {
		line := fmt.Sprintf("  %s  %s (%d pages, %s)", r.ID, r.Title, r.PageCount, r.UploadedAt.Format("2006-01-02 15:04"))
		if r.Collection != "" {
			line += " [" + r.Collection + "]"
		}
		fmt.Println(line)
	}
	return nil
}
