package sync

import (
	"context"
	"log"
	"strconv"

	"github.com/jakimhartford/notion-sync/internal/mapping"
	"github.com/jakimhartford/notion-sync/internal/models"
	"github.com/jakimhartford/notion-sync/internal/notion"
)

// SweepStats accumulates per-record outcomes for a reverse pass
type SweepStats struct {
	Closed    int
	Reopened  int
	Relabeled int
	Skipped   int
	Errored   int
}

// SweepNotion walks every page in the database and pushes corrective writes
// back to GitHub where the page and the issue disagree: the page's status
// decides the issue's open/closed state, and the page's label set replaces
// the issue's labels outright when the sets differ. Records missing an issue
// number or repo are skipped; each record is reconciled independently.
func (s *Syncer) SweepNotion(ctx context.Context) SweepStats {
	var stats SweepStats
	owners := s.repoOwners()

	cursor := ""
	for {
		resp, err := s.notion.QueryDatabase(ctx, &notion.QueryRequest{StartCursor: cursor})
		if err != nil {
			log.Printf("Error listing database pages: %v", err)
			stats.Errored++
			return stats
		}

		for i := range resp.Results {
			s.sweepPage(ctx, &resp.Results[i], owners, &stats)
		}

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return stats
}

// sweepPage reconciles one database record against its source issue
func (s *Syncer) sweepPage(ctx context.Context, page *notion.Page, owners map[string]string, stats *SweepStats) {
	record := extractRecord(page)
	if record == nil {
		stats.Skipped++
		return
	}

	owner, ok := owners[record.Repo]
	if !ok {
		log.Printf("Skipping record for unconfigured repo %q", record.Repo)
		stats.Skipped++
		return
	}

	issue, err := s.github.GetIssue(ctx, owner, record.Repo, record.IssueNumber)
	if err != nil {
		stats.Errored++
		log.Printf("  Error: #%d in %s: %v", record.IssueNumber, record.Repo, err)
		return
	}

	expected := mapping.StateForStatus(record.Status)
	if issue.State != expected {
		if err := s.github.SetIssueState(ctx, owner, record.Repo, record.IssueNumber, expected); err != nil {
			stats.Errored++
			log.Printf("  Error: #%d in %s: %v", record.IssueNumber, record.Repo, err)
			return
		}
		if expected == "closed" {
			stats.Closed++
			log.Printf("  Closed %s#%d (status %s)", record.Repo, record.IssueNumber, record.Status)
		} else {
			stats.Reopened++
			log.Printf("  Reopened %s#%d (status %s)", record.Repo, record.IssueNumber, record.Status)
		}
	}

	if !models.SameLabels(issue.Labels, record.Labels) {
		if err := s.github.ReplaceLabels(ctx, owner, record.Repo, record.IssueNumber, record.Labels); err != nil {
			stats.Errored++
			log.Printf("  Error: #%d in %s: %v", record.IssueNumber, record.Repo, err)
			return
		}
		stats.Relabeled++
		log.Printf("  Replaced labels on %s#%d", record.Repo, record.IssueNumber)
	}
}

// record is the slice of a database page the reverse pass acts on
type record struct {
	IssueNumber int
	Repo        string
	Status      mapping.Status
	Labels      []string
}

// extractRecord pulls the reverse-sync fields out of a page's properties.
// It returns nil for malformed records (missing or non-numeric issue ID,
// missing repo), which the sweep skips silently.
func extractRecord(page *notion.Page) *record {
	idText := page.Properties["Issue ID"].Plain()
	repo := page.Properties["Repo"].Plain()
	if idText == "" || repo == "" {
		return nil
	}

	number, err := strconv.Atoi(idText)
	if err != nil {
		return nil
	}

	return &record{
		IssueNumber: number,
		Repo:        repo,
		Status:      mapping.Status(page.Properties["Status"].SelectName()),
		Labels:      page.Properties["Labels"].MultiSelectNames(),
	}
}

// repoOwners maps configured repository short names to their owners
func (s *Syncer) repoOwners() map[string]string {
	owners := make(map[string]string, len(s.cfg.Repositories))
	for _, repoStr := range s.cfg.Repositories {
		owner, name, err := ParseRepositoryString(repoStr)
		if err != nil {
			continue
		}
		owners[name] = owner
	}
	return owners
}
