package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// EnvGitHubToken is the environment variable name for the GitHub API token
	EnvGitHubToken = "GITHUB_TOKEN"

	// EnvNotionAPIKey is the environment variable name for the Notion API key
	EnvNotionAPIKey = "NOTION_API_KEY"

	// EnvNotionDatabaseID is the environment variable name for the Notion database ID
	EnvNotionDatabaseID = "NOTION_DATABASE_ID"

	// EnvEventPath is the environment variable pointing at a GitHub issues
	// event payload for single-issue webhook-style runs
	EnvEventPath = "GITHUB_EVENT_PATH"
)

// Config represents the application configuration. Credentials come from the
// environment (a .env file is honored); repositories and the source map come
// from an optional JSON config file.
type Config struct {
	// GitHub API token for authentication
	GitHubToken string `json:"github_token"`

	// Notion integration token
	NotionAPIKey string `json:"notion_api_key"`

	// Notion database to sync into
	NotionDatabaseID string `json:"notion_database_id"`

	// List of repositories to sync in the format "owner/name"
	Repositories []string `json:"repositories"`

	// SourceMap maps a repository short name to the value written into the
	// database's Source property. Unmapped repositories use their own name.
	SourceMap map[string]string `json:"source_map"`

	// Organizations scanned by repository discovery
	Organizations []string `json:"organizations"`

	// EventPath points at a GitHub issues event payload, if any
	EventPath string `json:"-"`
}

// Load reads the configuration from an optional JSON file and the
// environment. Environment values always win for credentials. A missing
// config file is fine as long as the environment provides everything.
func Load(path string) (*Config, error) {
	// Pick up a local .env if present
	_ = godotenv.Load()

	config := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if token := os.Getenv(EnvGitHubToken); token != "" {
		config.GitHubToken = token
	}
	if key := os.Getenv(EnvNotionAPIKey); key != "" {
		config.NotionAPIKey = key
	}
	if id := os.Getenv(EnvNotionDatabaseID); id != "" {
		config.NotionDatabaseID = id
	}
	config.EventPath = os.Getenv(EnvEventPath)

	return config, nil
}

// Validate checks that every required credential is present
func (c *Config) Validate() error {
	var missing []string
	if c.NotionAPIKey == "" {
		missing = append(missing, EnvNotionAPIKey)
	}
	if c.NotionDatabaseID == "" {
		missing = append(missing, EnvNotionDatabaseID)
	}
	if c.GitHubToken == "" {
		missing = append(missing, EnvGitHubToken)
	}

	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}

// SourceFor returns the Source property value for a repository short name
func (c *Config) SourceFor(repo string) string {
	if source, ok := c.SourceMap[repo]; ok {
		return source
	}
	return repo
}
