package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/jakimhartford/notion-sync/internal/models"
)

// issuesPerPage is the page size used for every paginated GitHub listing
const issuesPerPage = 100

// GitHubClient represents a client for the GitHub API
type GitHubClient struct {
	client *github.Client
}

// NewGitHubClient creates a new GitHub API client
func NewGitHubClient(token string) *GitHubClient {
	var tc *http.Client

	if token != "" {
		// Create an authenticated client if a token is provided
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(tc)
	return &GitHubClient{client: client}
}

// ListIssues fetches all issues for a repository across both open and closed
// states. Each state is paginated until a page comes back with fewer than
// issuesPerPage items. Pull requests are filtered out since GitHub's issues
// endpoint includes them. A failed page fetch aborts pagination for that
// state only; whatever was fetched so far is returned without an error.
func (c *GitHubClient) ListIssues(ctx context.Context, owner, repo string) []*models.Issue {
	var all []*models.Issue

	for _, state := range []string{"open", "closed"} {
		opts := &github.IssueListByRepoOptions{
			State: state,
			ListOptions: github.ListOptions{
				PerPage: issuesPerPage,
				Page:    1,
			},
		}

		for {
			issues, _, err := c.client.Issues.ListByRepo(ctx, owner, repo, opts)
			if err != nil {
				log.Printf("Error fetching %s issues for %s/%s: %v", state, owner, repo, err)
				break
			}
			if len(issues) == 0 {
				break
			}

			for _, issue := range issues {
				if issue.IsPullRequest() {
					continue
				}
				all = append(all, ConvertGitHubIssue(issue))
			}

			if len(issues) < issuesPerPage {
				break
			}
			opts.Page++
		}
	}

	return all
}

// ListComments fetches all comments for an issue in chronological order.
// Like ListIssues, a failed fetch returns what was collected so far.
func (c *GitHubClient) ListComments(ctx context.Context, owner, repo string, issueNumber int) []models.Comment {
	var all []models.Comment
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{
			PerPage: issuesPerPage,
			Page:    1,
		},
	}

	for {
		comments, _, err := c.client.Issues.ListComments(ctx, owner, repo, issueNumber, opts)
		if err != nil {
			log.Printf("Error fetching comments for %s/%s#%d: %v", owner, repo, issueNumber, err)
			break
		}
		if len(comments) == 0 {
			break
		}

		for _, comment := range comments {
			all = append(all, ConvertGitHubComment(comment))
		}

		if len(comments) < issuesPerPage {
			break
		}
		opts.Page++
	}

	return all
}

// GetIssue fetches a single issue
func (c *GitHubClient) GetIssue(ctx context.Context, owner, repo string, issueNumber int) (*models.Issue, error) {
	issue, _, err := c.client.Issues.Get(ctx, owner, repo, issueNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get issue %s/%s#%d: %w", owner, repo, issueNumber, err)
	}
	return ConvertGitHubIssue(issue), nil
}

// SetIssueState sets an issue's state to "open" or "closed"
func (c *GitHubClient) SetIssueState(ctx context.Context, owner, repo string, issueNumber int, state string) error {
	req := &github.IssueRequest{State: &state}
	if _, _, err := c.client.Issues.Edit(ctx, owner, repo, issueNumber, req); err != nil {
		return fmt.Errorf("failed to set state of %s/%s#%d: %w", owner, repo, issueNumber, err)
	}
	return nil
}

// ReplaceLabels overwrites the full label set on an issue. Labels present on
// GitHub but absent from the given set are removed.
func (c *GitHubClient) ReplaceLabels(ctx context.Context, owner, repo string, issueNumber int, labels []string) error {
	if labels == nil {
		labels = []string{}
	}
	if _, _, err := c.client.Issues.ReplaceLabelsForIssue(ctx, owner, repo, issueNumber, labels); err != nil {
		return fmt.Errorf("failed to replace labels on %s/%s#%d: %w", owner, repo, issueNumber, err)
	}
	return nil
}

// ListOrgRepos lists all repositories of an organization
func (c *GitHubClient) ListOrgRepos(ctx context.Context, org string) ([]*github.Repository, error) {
	var all []*github.Repository
	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: issuesPerPage},
	}

	for {
		repos, resp, err := c.client.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories for %s: %w", org, err)
		}
		all = append(all, repos...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// ListUserRepos lists the authenticated user's own repositories
func (c *GitHubClient) ListUserRepos(ctx context.Context) ([]*github.Repository, error) {
	var all []*github.Repository
	opts := &github.RepositoryListOptions{
		Affiliation: "owner",
		ListOptions: github.ListOptions{PerPage: issuesPerPage},
	}

	for {
		repos, resp, err := c.client.Repositories.List(ctx, "", opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list user repositories: %w", err)
		}
		all = append(all, repos...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// ConvertGitHubIssue converts a GitHub issue to our model
func ConvertGitHubIssue(issue *github.Issue) *models.Issue {
	labels := make([]string, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		labels = append(labels, label.GetName())
	}

	assignees := make([]string, 0, len(issue.Assignees))
	for _, user := range issue.Assignees {
		assignees = append(assignees, user.GetLogin())
	}

	var milestone *models.Milestone
	if issue.Milestone != nil {
		milestone = &models.Milestone{Title: issue.Milestone.GetTitle()}
		if issue.Milestone.DueOn != nil {
			t := issue.Milestone.DueOn.Time
			milestone.DueOn = &t
		}
	}

	return &models.Issue{
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		State:     issue.GetState(),
		Labels:    labels,
		Milestone: milestone,
		Assignees: assignees,
		HTMLURL:   issue.GetHTMLURL(),
	}
}

// ConvertGitHubComment converts a GitHub comment to our model
func ConvertGitHubComment(comment *github.IssueComment) models.Comment {
	return models.Comment{
		Author:    comment.GetUser().GetLogin(),
		Body:      comment.GetBody(),
		CreatedAt: comment.GetCreatedAt().Time,
	}
}
