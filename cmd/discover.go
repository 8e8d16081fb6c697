package cmd

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
	"github.com/spf13/cobra"

	"github.com/jakimhartford/notion-sync/config"
	"github.com/jakimhartford/notion-sync/internal/api"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List available repositories",
	Long: `List repositories from the configured organizations and the
authenticated user's account, and print a config snippet ready to paste into
the repositories list.`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.GitHubToken == "" {
		return fmt.Errorf("missing required configuration: %s", config.EnvGitHubToken)
	}

	client := api.NewGitHubClient(cfg.GitHubToken)
	ctx := context.Background()

	var all []*github.Repository

	for _, org := range cfg.Organizations {
		repos, err := client.ListOrgRepos(ctx, org)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%d repos)\n", org, len(repos))
		printRepos(repos)
		all = append(all, repos...)
	}

	repos, err := client.ListUserRepos(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Personal repos (%d)\n", len(repos))
	printRepos(repos)
	all = append(all, repos...)

	// Config snippet for copy-paste
	fmt.Println("\n\"repositories\": [")
	for _, repo := range all {
		fmt.Printf("  %q,\n", repo.GetFullName())
	}
	fmt.Println("]")

	fmt.Println("\n\"source_map\": {")
	for _, repo := range all {
		fmt.Printf("  %q: %q,\n", repo.GetName(), repo.GetName())
	}
	fmt.Println("}")

	return nil
}

func printRepos(repos []*github.Repository) {
	for _, repo := range repos {
		marker := " "
		if repo.GetHasIssues() {
			marker = "*"
		}
		fmt.Printf("  %s %s (%d open issues)\n", marker, repo.GetFullName(), repo.GetOpenIssuesCount())
	}
}
