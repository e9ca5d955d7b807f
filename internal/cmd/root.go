package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "purplerepo",
	Short: "A CLI tool for managing the purple-team repository registry",
	Long: `Purplerepo is a command-line tool around the repo-list.yaml registry.
It detects registry changes between two git revisions and emits JSON change
payloads for CI automation, and it enriches GitHub repository URLs with
metadata from the GitHub API, either one-shot or as an HTTP service.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
}
