package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakimhartford/notion-sync/internal/models"
	"github.com/jakimhartford/notion-sync/internal/notion"
)

func sweepPageFor(number, repo, status string, labels ...string) notion.Page {
	options := make([]notion.SelectOption, 0, len(labels))
	for _, l := range labels {
		options = append(options, notion.SelectOption{Name: l})
	}

	props := map[string]notion.PageProperty{
		"Repo":   {Type: "rich_text", RichText: []notion.RichText{{PlainText: repo}}},
		"Status": {Type: "select", Select: &notion.SelectOption{Name: status}},
		"Labels": {Type: "multi_select", MultiSelect: options},
	}
	if number != "" {
		props["Issue ID"] = notion.PageProperty{Type: "rich_text", RichText: []notion.RichText{{PlainText: number}}}
	}
	return notion.Page{ID: "page-" + number, Properties: props}
}

func TestSweepClosesDoneIssue(t *testing.T) {
	gh := newFakeGitHub()
	gh.byNumber[42] = &models.Issue{Number: 42, State: "open", Labels: []string{"bug"}}
	nt := newFakeNotion()
	nt.queryResults = []notion.Page{sweepPageFor("42", "trackers", "Done", "bug")}
	syncer := New(gh, nt, testConfig())

	stats := syncer.SweepNotion(context.Background())
	assert.Equal(t, SweepStats{Closed: 1}, stats)
	require.Len(t, gh.stateCalls, 1)
	assert.Equal(t, "trackers#42=closed", gh.stateCalls[0])
	// Labels already match, so they are left alone
	assert.Empty(t, gh.labelCalls)
}

func TestSweepReopensIssue(t *testing.T) {
	gh := newFakeGitHub()
	gh.byNumber[7] = &models.Issue{Number: 7, State: "closed"}
	nt := newFakeNotion()
	nt.queryResults = []notion.Page{sweepPageFor("7", "trackers", "In Progress")}
	syncer := New(gh, nt, testConfig())

	stats := syncer.SweepNotion(context.Background())
	assert.Equal(t, SweepStats{Reopened: 1}, stats)
	require.Len(t, gh.stateCalls, 1)
	assert.Equal(t, "trackers#7=open", gh.stateCalls[0])
}

func TestSweepReplacesDivergedLabels(t *testing.T) {
	gh := newFakeGitHub()
	gh.byNumber[9] = &models.Issue{Number: 9, State: "open", Labels: []string{"bug", "stale"}}
	nt := newFakeNotion()
	nt.queryResults = []notion.Page{sweepPageFor("9", "trackers", "Backlog", "bug", "urgent")}
	syncer := New(gh, nt, testConfig())

	stats := syncer.SweepNotion(context.Background())
	assert.Equal(t, SweepStats{Relabeled: 1}, stats)
	assert.Empty(t, gh.stateCalls)
	// Full replace: the database's label set wins wholesale
	assert.Equal(t, []string{"bug", "urgent"}, gh.labelCalls[9])
}

func TestSweepMatchingRecordIsNoop(t *testing.T) {
	gh := newFakeGitHub()
	gh.byNumber[3] = &models.Issue{Number: 3, State: "open", Labels: []string{"bug"}}
	nt := newFakeNotion()
	nt.queryResults = []notion.Page{sweepPageFor("3", "trackers", "Backlog", "bug")}
	syncer := New(gh, nt, testConfig())

	stats := syncer.SweepNotion(context.Background())
	assert.Equal(t, SweepStats{}, stats)
	assert.Empty(t, gh.stateCalls)
	assert.Empty(t, gh.labelCalls)
}

func TestSweepSkipsMalformedRecords(t *testing.T) {
	gh := newFakeGitHub()
	nt := newFakeNotion()
	nt.queryResults = []notion.Page{
		sweepPageFor("", "trackers", "Done"),        // missing issue id
		sweepPageFor("abc", "trackers", "Done"),     // non-numeric issue id
		sweepPageFor("5", "unknown-repo", "Done"),   // repo not configured
	}
	syncer := New(gh, nt, testConfig())

	stats := syncer.SweepNotion(context.Background())
	assert.Equal(t, SweepStats{Skipped: 3}, stats)
	assert.Empty(t, gh.stateCalls)
}

func TestSweepIsolatesRecordFailures(t *testing.T) {
	gh := newFakeGitHub()
	// Issue 1 is unknown to the fake, issue 2 diverges
	gh.byNumber[2] = &models.Issue{Number: 2, State: "open"}
	nt := newFakeNotion()
	nt.queryResults = []notion.Page{
		sweepPageFor("1", "trackers", "Done"),
		sweepPageFor("2", "trackers", "Done"),
	}
	syncer := New(gh, nt, testConfig())

	stats := syncer.SweepNotion(context.Background())
	assert.Equal(t, SweepStats{Closed: 1, Errored: 1}, stats)
	require.Len(t, gh.stateCalls, 1)
	assert.Equal(t, "trackers#2=closed", gh.stateCalls[0])
}
