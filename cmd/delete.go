package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [document-id]...",
	Short: "Delete documents with their file and indexed chunks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := buildApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		for _, id := range args {
			if err := a.ingest.Delete(ctx, id); err != nil {
				return fmt.Errorf("deleting %s: %w", id, err)
			}
			fmt.Printf("Deleted %s\n", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
