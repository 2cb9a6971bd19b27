package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docqa/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize docqa configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the LLM provider, storage backends and retrieval settings, and writes a .docqa.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
