package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/docqa/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing document question answering, passage search and document listing tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := buildApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		count, err := a.index.Count(ctx)
		if err != nil {
			return fmt.Errorf("reading index: %w", err)
		}
		if count == 0 {
			fmt.Fprintf(os.Stderr, "Index is empty. Run `docqa ingest` to add documents.\n")
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "docqa MCP server started on stdio (chunks=%d)\n", count)

		srv := mcpserver.NewServer(a.composer, a.ingest)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
