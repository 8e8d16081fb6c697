package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvGitHubToken, "")
	t.Setenv(EnvNotionAPIKey, "")
	t.Setenv(EnvNotionDatabaseID, "")
	t.Setenv(EnvEventPath, "")
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"github_token": "gh-from-file",
		"notion_api_key": "notion-from-file",
		"notion_database_id": "db-1",
		"repositories": ["acme/trackers", "acme/widgets"],
		"source_map": {"trackers": "Acme"}
	}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gh-from-file", cfg.GitHubToken)
	assert.Equal(t, []string{"acme/trackers", "acme/widgets"}, cfg.Repositories)
	assert.NoError(t, cfg.Validate())
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvGitHubToken, "gh-from-env")

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"github_token": "gh-from-file"}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gh-from-env", cfg.GitHubToken)
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvGitHubToken, "gh")
	t.Setenv(EnvNotionAPIKey, "notion")
	t.Setenv(EnvNotionDatabaseID, "db")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestValidateReportsAllMissing(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvNotionAPIKey)
	assert.Contains(t, err.Error(), EnvNotionDatabaseID)
	assert.Contains(t, err.Error(), EnvGitHubToken)
}

func TestLoadBadJSON(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSourceFor(t *testing.T) {
	cfg := &Config{SourceMap: map[string]string{"trackers": "Acme"}}

	assert.Equal(t, "Acme", cfg.SourceFor("trackers"))
	assert.Equal(t, "widgets", cfg.SourceFor("widgets"))
}
