package cmd

import (
	"io"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about your PDF documents",
	Long: `docqa ingests PDF documents, indexes their text as embedded chunks and
answers natural-language questions with an LLM, citing the document and
page each answer came from. It runs as a CLI, an HTTP server, or an MCP
server for AI agents.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A .env file is optional; real environment variables win.
		_ = godotenv.Load()
		// The HTTP server always logs; other commands only with --verbose.
		if !verbose && cmd.Name() != "server" {
			log.SetOutput(io.Discard)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".docqa.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
