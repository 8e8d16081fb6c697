// Package sync drives the reconciliation of GitHub issues against a Notion
// database: a forward pass that mirrors issues into pages, and an optional
// reverse pass that pushes Notion-side status and label edits back to GitHub.
package sync

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jakimhartford/notion-sync/config"
	"github.com/jakimhartford/notion-sync/internal/mapping"
	"github.com/jakimhartford/notion-sync/internal/models"
	"github.com/jakimhartford/notion-sync/internal/notion"
)

// GitHubService is the slice of the GitHub client the syncer depends on
type GitHubService interface {
	ListIssues(ctx context.Context, owner, repo string) []*models.Issue
	ListComments(ctx context.Context, owner, repo string, issueNumber int) []models.Comment
	GetIssue(ctx context.Context, owner, repo string, issueNumber int) (*models.Issue, error)
	SetIssueState(ctx context.Context, owner, repo string, issueNumber int, state string) error
	ReplaceLabels(ctx context.Context, owner, repo string, issueNumber int, labels []string) error
}

// NotionService is the slice of the Notion client the syncer depends on
type NotionService interface {
	FindIssuePage(ctx context.Context, issueNumber int, repo string) (*notion.Page, error)
	CreatePage(ctx context.Context, props notion.Properties, children []notion.Block) (*notion.Page, error)
	UpdatePage(ctx context.Context, pageID string, props notion.Properties) error
	AppendBlocks(ctx context.Context, pageID string, children []notion.Block) error
	QueryDatabase(ctx context.Context, req *notion.QueryRequest) (*notion.QueryResponse, error)
}

// Stats accumulates per-issue outcomes for a sync run
type Stats struct {
	Created int
	Updated int
	Errored int
}

// Add sums another set of counters into s
func (s *Stats) Add(other Stats) {
	s.Created += other.Created
	s.Updated += other.Updated
	s.Errored += other.Errored
}

// Syncer handles syncing GitHub issues to the Notion database
type Syncer struct {
	github GitHubService
	notion NotionService
	cfg    *config.Config
}

// New creates a new syncer
func New(github GitHubService, notionSvc NotionService, cfg *config.Config) *Syncer {
	return &Syncer{
		github: github,
		notion: notionSvc,
		cfg:    cfg,
	}
}

// SyncAll syncs every configured repository in order, summing counters
// across repositories. A failing repository does not stop the run.
func (s *Syncer) SyncAll(ctx context.Context) Stats {
	var total Stats

	for _, repoStr := range s.cfg.Repositories {
		owner, name, err := ParseRepositoryString(repoStr)
		if err != nil {
			log.Printf("Skipping invalid repository %s: %v", repoStr, err)
			continue
		}

		log.Printf("Syncing repository %s/%s (source: %s)", owner, name, s.cfg.SourceFor(name))
		stats := s.SyncRepository(ctx, owner, name)
		log.Printf("  %d created, %d updated, %d errors", stats.Created, stats.Updated, stats.Errored)
		total.Add(stats)
	}

	return total
}

// SyncRepository syncs all issues of one repository. Per-issue errors are
// counted and logged; the loop always runs to completion.
func (s *Syncer) SyncRepository(ctx context.Context, owner, name string) Stats {
	var stats Stats

	issues := s.github.ListIssues(ctx, owner, name)
	log.Printf("Found %d issues in %s/%s", len(issues), owner, name)

	for _, issue := range issues {
		action, err := s.SyncIssue(ctx, owner, name, issue)
		if err != nil {
			stats.Errored++
			log.Printf("  Error: #%d %s: %v", issue.Number, issue.Title, err)
			continue
		}

		switch action {
		case ActionCreated:
			stats.Created++
		case ActionUpdated:
			stats.Updated++
		}
	}

	return stats
}

// Outcomes of a single issue sync
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// SyncIssue reconciles one issue against the database: fetch comments,
// resolve the existing page by (issue number, repo), then either overwrite
// the page's properties or create a new page with properties and content.
func (s *Syncer) SyncIssue(ctx context.Context, owner, name string, issue *models.Issue) (string, error) {
	comments := s.github.ListComments(ctx, owner, name, issue.Number)

	existing, err := s.notion.FindIssuePage(ctx, issue.Number, name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve issue #%d: %w", issue.Number, err)
	}

	props := mapping.BuildProperties(issue, name, s.cfg.SourceFor(name), len(comments))

	if existing != nil {
		if err := s.notion.UpdatePage(ctx, existing.ID, props); err != nil {
			return "", err
		}
		return ActionUpdated, nil
	}

	page, err := s.notion.CreatePage(ctx, props, mapping.BodyBlocks(issue.Body))
	if err != nil {
		return "", err
	}

	if blocks := mapping.CommentBlocks(comments); len(blocks) > 0 {
		if err := s.notion.AppendBlocks(ctx, page.ID, blocks); err != nil {
			return "", fmt.Errorf("failed to append comments to #%d: %w", issue.Number, err)
		}
	}

	return ActionCreated, nil
}

// SyncEvent handles a webhook-style single-issue run. Missing pages are only
// created for opened/reopened/edited actions, matching the event-driven
// workflow; any other action on an unknown issue is a no-op.
func (s *Syncer) SyncEvent(ctx context.Context, owner, name, action string, issue *models.Issue) error {
	existing, err := s.notion.FindIssuePage(ctx, issue.Number, name)
	if err != nil {
		return fmt.Errorf("failed to resolve issue #%d: %w", issue.Number, err)
	}

	if existing == nil {
		switch action {
		case "opened", "reopened", "edited":
			// fall through to create
		default:
			log.Printf("No existing page for #%d and action is %q, doing nothing", issue.Number, action)
			return nil
		}
	}

	_, err = s.SyncIssue(ctx, owner, name, issue)
	return err
}

// ParseRepositoryString parses a repository string in the format "owner/name"
func ParseRepositoryString(repoStr string) (string, string, error) {
	parts := strings.Split(repoStr, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository format, expected 'owner/name', got '%s'", repoStr)
	}
	return parts[0], parts[1], nil
}
