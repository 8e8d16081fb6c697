package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "notion-sync",
	Short: "Mirror GitHub issues into a Notion database",
	Long: `notion-sync keeps a Notion database in step with GitHub issues.

The forward pass fetches every issue (open and closed) from the configured
repositories and creates or updates one database row per issue, keyed by
issue number and repository. With --bidirectional, a second pass walks the
whole database and pushes status and label edits made in Notion back to
GitHub.

Credentials come from the environment (a .env file is honored):
  NOTION_API_KEY      Notion integration token
  NOTION_DATABASE_ID  target database
  GITHUB_TOKEN        GitHub API token

Repositories and the repo-to-source map live in a JSON config file.`,
	SilenceUsage: true,
}

// Execute runs the root command, exiting non-zero on setup errors
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json", "Path to configuration file")
}
