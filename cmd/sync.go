package cmd

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakimhartford/notion-sync/config"
	"github.com/jakimhartford/notion-sync/internal/api"
	"github.com/jakimhartford/notion-sync/internal/notion"
	"github.com/jakimhartford/notion-sync/internal/sync"
)

var (
	syncRepo          string
	syncBidirectional bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync GitHub issues to Notion",
	Long: `Sync GitHub issues into the Notion database.

By default every configured repository is synced. If GITHUB_EVENT_PATH
points at a GitHub issues event payload, only the issue in the payload is
synced, which is how the GitHub Actions workflow invokes this command.

With --bidirectional, the forward pass is followed by a full database sweep
that closes, reopens, and relabels GitHub issues to match their Notion
records.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVar(&syncRepo, "repo", "", "Sync a single repository (format: owner/name)")
	syncCmd.Flags().BoolVar(&syncBidirectional, "bidirectional", false, "Also push Notion-side edits back to GitHub")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	github := api.NewGitHubClient(cfg.GitHubToken)
	notionClient := notion.NewClient(cfg.NotionAPIKey, cfg.NotionDatabaseID)
	syncer := sync.New(github, notionClient, cfg)

	ctx := context.Background()
	startTime := time.Now()

	switch {
	case syncRepo != "":
		owner, name, err := sync.ParseRepositoryString(syncRepo)
		if err != nil {
			return err
		}
		stats := syncer.SyncRepository(ctx, owner, name)
		log.Printf("Sync complete: %d created, %d updated, %d errors", stats.Created, stats.Updated, stats.Errored)

	case cfg.EventPath != "":
		if err := runEventSync(ctx, syncer, cfg.EventPath); err != nil {
			return err
		}

	default:
		stats := syncer.SyncAll(ctx)
		log.Printf("Sync complete: %d created, %d updated, %d errors", stats.Created, stats.Updated, stats.Errored)
	}

	if syncBidirectional {
		log.Printf("Sweeping Notion database for GitHub-bound changes")
		stats := syncer.SweepNotion(ctx)
		log.Printf("Sweep complete: %d closed, %d reopened, %d relabeled, %d skipped, %d errors",
			stats.Closed, stats.Reopened, stats.Relabeled, stats.Skipped, stats.Errored)
	}

	log.Printf("Done in %v", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// runEventSync handles a webhook-style invocation driven by an issues event
// payload written to disk by GitHub Actions.
func runEventSync(ctx context.Context, syncer *sync.Syncer, path string) error {
	event, err := api.LoadIssueEvent(path)
	if err != nil {
		return err
	}
	if event == nil {
		log.Printf("No issue in event payload, nothing to sync")
		return nil
	}

	log.Printf("Syncing %s/%s#%d (%s)", event.Owner, event.Repo, event.Issue.Number, event.Action)
	return syncer.SyncEvent(ctx, event.Owner, event.Repo, event.Action, event.Issue)
}
