package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/scout/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:11434/v1", cfg.AI.Host)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "scout.db", cfg.Dataset.Path)
	assert.Equal(t, search.DefaultMaxRows, cfg.Search.MaxRows)
	assert.Equal(t, 8, cfg.Search.WindowSize)
	assert.Equal(t, 6, cfg.Search.SummaryThreshold)
	assert.Equal(t, search.DefaultDisclosure, cfg.Search.Disclosure)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ai:
  host: http://llm.internal:8000
  model: gpt-4o-mini
  timeout: 15s
search:
  max_rows: 25
cache:
  enabled: false
server:
  addr: 127.0.0.1:9000
`), 0o600))

	t.Setenv("SCOUT_AI_MODEL", "qwen2.5:14b")
	t.Setenv("SCOUT_SEARCH_WINDOW_SIZE", "4")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://llm.internal:8000", cfg.AI.Host)
	assert.Equal(t, "qwen2.5:14b", cfg.AI.Model)
	assert.Equal(t, 15*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 25, cfg.Search.MaxRows)
	assert.Equal(t, 4, cfg.Search.WindowSize)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	// untouched keys keep their defaults
	assert.Equal(t, 6, cfg.Search.SummaryThreshold)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_NoFileSearched(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestConfig_AIConfig(t *testing.T) {
	cfg := Default()
	cfg.AI.Host = "https://api.openai.com/"
	cfg.AI.Token = ""

	aiCfg := cfg.AIConfig()
	assert.Equal(t, "https://api.openai.com/v1", aiCfg.Host)
	assert.Equal(t, "none", aiCfg.Token)
	assert.NoError(t, aiCfg.Validate())
}

func TestConfig_SearchOptions(t *testing.T) {
	cfg := Default()
	assert.Len(t, cfg.SearchOptions(), 6)
}
