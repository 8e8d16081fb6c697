// Package mapping translates GitHub issue fields into Notion properties and
// content blocks, and Notion statuses back into GitHub issue states. All
// functions are pure; the mapping tables are fixed at compile time.
package mapping

import (
	"fmt"
	"strings"

	"github.com/jakimhartford/notion-sync/internal/models"
	"github.com/jakimhartford/notion-sync/internal/notion"
)

// Status is a workflow state in the Notion database
type Status string

const (
	StatusBacklog         Status = "Backlog"
	StatusInProgress      Status = "In Progress"
	StatusBlocked         Status = "Blocked"
	StatusWaitingOnClient Status = "Waiting on Client"
	StatusUnderReview     Status = "Under Review"
	StatusDone            Status = "Done"
)

// Priority is the Notion priority level derived from issue labels
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

const (
	// MaxBodyLength caps the total issue body carried into Notion content.
	MaxBodyLength = 4000
	// BlockTextLimit is Notion's per-block rich text ceiling.
	BlockTextLimit = 2000
)

// statusRules maps label keywords to statuses, checked in order. The first
// matching keyword wins; a closed issue never reaches this table because
// closed always maps to Done.
var statusRules = []struct {
	keyword string
	status  Status
}{
	{"blocked", StatusBlocked},
	{"in-progress", StatusInProgress},
	{"in progress", StatusInProgress},
	{"review", StatusUnderReview},
	{"under-review", StatusUnderReview},
}

// priorityRules maps label keywords to priorities, checked in order.
var priorityRules = []struct {
	keywords []string
	priority Priority
}{
	{[]string{"high-priority", "high", "urgent"}, PriorityHigh},
	{[]string{"medium", "medium-priority"}, PriorityMedium},
	{[]string{"low", "low-priority"}, PriorityLow},
}

// statusToState is the reverse mapping from Notion status to GitHub state.
// Every status except Done collapses to "open"; richer workflow detail is
// lost on the way back, which is intentional.
var statusToState = map[Status]string{
	StatusBacklog:         "open",
	StatusInProgress:      "open",
	StatusBlocked:         "open",
	StatusWaitingOnClient: "open",
	StatusUnderReview:     "open",
	StatusDone:            "closed",
}

// MapStatus maps a GitHub issue state and label set to a Notion status.
// A closed issue is always Done regardless of labels.
func MapStatus(state string, labels []string) Status {
	if state == "closed" {
		return StatusDone
	}

	names := lowerSet(labels)
	for _, rule := range statusRules {
		if names[rule.keyword] {
			return rule.status
		}
	}
	return StatusBacklog
}

// PriorityFromLabels derives a priority from issue labels, defaulting to Medium.
func PriorityFromLabels(labels []string) Priority {
	names := lowerSet(labels)
	for _, rule := range priorityRules {
		for _, kw := range rule.keywords {
			if names[kw] {
				return rule.priority
			}
		}
	}
	return PriorityMedium
}

// StateForStatus maps a Notion status back to a GitHub issue state. Unknown
// statuses map to "open" so an unrecognized status can never close an issue.
func StateForStatus(status Status) string {
	if state, ok := statusToState[status]; ok {
		return state
	}
	return "open"
}

// BuildProperties builds the full Notion property payload for an issue.
// Every property is written on every sync; updates replace, never merge.
func BuildProperties(issue *models.Issue, repo, source string, commentCount int) notion.Properties {
	props := notion.Properties{
		"Name":     notion.NewTitle(issue.Title),
		"Issue ID": notion.NewRichText(fmt.Sprintf("%d", issue.Number)),
		"Repo":     notion.NewRichText(repo),
		"URL":      notion.NewURL(issue.HTMLURL),
		"Status":   notion.NewSelect(string(MapStatus(issue.State, issue.Labels))),
		"Source":   notion.NewSelect(source),
		"Priority": notion.NewSelect(string(PriorityFromLabels(issue.Labels))),
		"Comments": notion.NewNumber(commentCount),
	}

	options := make([]notion.SelectOption, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		options = append(options, notion.SelectOption{Name: label})
	}
	props["Labels"] = notion.MultiSelectProperty{MultiSelect: options}

	if issue.Milestone != nil {
		props["Milestone"] = notion.NewSelect(issue.Milestone.Title)
		if issue.Milestone.DueOn != nil {
			props["Due Date"] = notion.NewDate(issue.Milestone.DueOn.Format("2006-01-02"))
		}
	}

	if len(issue.Assignees) > 0 {
		props["Assignee"] = notion.NewRichText(strings.Join(issue.Assignees, ", "))
	}

	return props
}

// BodyBlocks partitions an issue body into paragraph blocks. The body is
// truncated to MaxBodyLength and split into segments of at most
// BlockTextLimit characters, preserving order.
func BodyBlocks(body string) []notion.Block {
	if body == "" {
		return nil
	}

	var blocks []notion.Block
	for _, chunk := range chunk(truncate(body, MaxBodyLength), BlockTextLimit) {
		blocks = append(blocks, notion.NewParagraph(chunk))
	}
	return blocks
}

// CommentBlocks renders issue comments as a divider, a heading, and one
// paragraph per comment in the order the source returned them.
func CommentBlocks(comments []models.Comment) []notion.Block {
	if len(comments) == 0 {
		return nil
	}

	blocks := []notion.Block{
		notion.NewDivider(),
		notion.NewHeading("Comments"),
	}
	for _, c := range comments {
		text := fmt.Sprintf("%s on %s:\n%s",
			c.Author, c.CreatedAt.Format("2006-01-02"), truncate(c.Body, BlockTextLimit))
		blocks = append(blocks, notion.NewParagraph(truncate(text, BlockTextLimit)))
	}
	return blocks
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func chunk(s string, size int) []string {
	runes := []rune(s)
	var chunks []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

func lowerSet(labels []string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[strings.ToLower(l)] = true
	}
	return set
}
