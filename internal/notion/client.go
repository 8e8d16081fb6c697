// Package notion is a minimal client for the Notion REST API, covering the
// four operations the sync needs: database query, page create, page update,
// and block append.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

const (
	// DefaultBaseURL is the production Notion API endpoint
	DefaultBaseURL = "https://api.notion.com/v1"

	// apiVersion is the pinned Notion-Version header value
	apiVersion = "2022-06-28"
)

// Client represents a client for the Notion API, scoped to one database
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	databaseID string
}

// NewClient creates a new Notion API client for the given database
func NewClient(apiKey, databaseID string) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		databaseID: databaseID,
	}
}

// SetBaseURL overrides the API endpoint, primarily for tests
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// do issues one JSON request and decodes the response into out (if non-nil).
// Non-2xx responses become errors carrying the response body.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notion API returned %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// QueryDatabase runs one query request against the database and returns a
// single page of results plus the continuation cursor.
func (c *Client) QueryDatabase(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	var resp QueryResponse
	path := fmt.Sprintf("/databases/%s/query", c.databaseID)
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to query database: %w", err)
	}
	return &resp, nil
}

// FindIssuePage looks up the page keyed by (issue number, repo). It returns
// the first match or nil. More than one match means duplicate rows in the
// database; the extras are logged and ignored.
func (c *Client) FindIssuePage(ctx context.Context, issueNumber int, repo string) (*Page, error) {
	req := &QueryRequest{
		Filter: &Filter{
			And: []PropertyFilter{
				{Property: "Issue ID", RichText: &TextCondition{Equals: fmt.Sprintf("%d", issueNumber)}},
				{Property: "Repo", RichText: &TextCondition{Equals: repo}},
			},
		},
	}

	resp, err := c.QueryDatabase(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	if len(resp.Results) > 1 {
		log.Printf("Warning: %d pages match issue #%d in %s, using the first", len(resp.Results), issueNumber, repo)
	}
	return &resp.Results[0], nil
}

// createPageRequest is the page create payload
type createPageRequest struct {
	Parent     parent     `json:"parent"`
	Properties Properties `json:"properties"`
	Children   []Block    `json:"children,omitempty"`
}

type parent struct {
	DatabaseID string `json:"database_id"`
}

// CreatePage creates a new page in the database with the given properties
// and optional content blocks.
func (c *Client) CreatePage(ctx context.Context, props Properties, children []Block) (*Page, error) {
	req := &createPageRequest{
		Parent:     parent{DatabaseID: c.databaseID},
		Properties: props,
		Children:   children,
	}

	var page Page
	if err := c.do(ctx, http.MethodPost, "/pages", req, &page); err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return &page, nil
}

// updatePageRequest is the page update payload
type updatePageRequest struct {
	Properties Properties `json:"properties"`
}

// UpdatePage replaces the page's properties. Updates overwrite every mapped
// property; content blocks are left untouched.
func (c *Client) UpdatePage(ctx context.Context, pageID string, props Properties) error {
	req := &updatePageRequest{Properties: props}
	if err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, req, nil); err != nil {
		return fmt.Errorf("failed to update page: %w", err)
	}
	return nil
}

// appendBlocksRequest is the block append payload
type appendBlocksRequest struct {
	Children []Block `json:"children"`
}

// AppendBlocks appends content blocks to the end of an existing page
func (c *Client) AppendBlocks(ctx context.Context, pageID string, children []Block) error {
	req := &appendBlocksRequest{Children: children}
	if err := c.do(ctx, http.MethodPatch, "/blocks/"+pageID+"/children", req, nil); err != nil {
		return fmt.Errorf("failed to append blocks: %w", err)
	}
	return nil
}
