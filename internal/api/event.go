package api

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/go-github/v57/github"

	"github.com/jakimhartford/notion-sync/internal/models"
)

// IssueEvent is a parsed GitHub issues webhook payload
type IssueEvent struct {
	Action string
	Issue  *models.Issue
	Owner  string
	Repo   string
}

// LoadIssueEvent reads an issues event payload from disk, as delivered by a
// GitHub Actions run via GITHUB_EVENT_PATH. It returns nil with no error
// when the payload carries no issue (e.g. a different event type).
func LoadIssueEvent(path string) (*IssueEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}

	var event github.IssuesEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to parse event payload: %w", err)
	}

	if event.Issue == nil {
		return nil, nil
	}

	return &IssueEvent{
		Action: event.GetAction(),
		Issue:  ConvertGitHubIssue(event.Issue),
		Owner:  event.GetRepo().GetOwner().GetLogin(),
		Repo:   event.GetRepo().GetName(),
	}, nil
}
