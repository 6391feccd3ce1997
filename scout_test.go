package scout

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/scout/ai/mock"
	"github.com/poiesic/scout/config"
	"github.com/poiesic/scout/core"
	"github.com/poiesic/scout/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const backendDraft = `{
	"dataQuery": "SELECT id, full_name FROM profiles WHERE UPPER(title) LIKE '%BACKEND%' ORDER BY id",
	"countQuery": "SELECT COUNT(*) FROM profiles WHERE UPPER(title) LIKE '%BACKEND%'",
	"explanation": "Backend titles.",
	"assistantMessage": "Encontrei 3 perfis.",
	"searchCriteriaSummary": "Backend"
}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	csvPath := filepath.Join(t.TempDir(), "profiles.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sqlite.SampleProfilesCSV), 0o600))

	cfg := config.Default()
	cfg.Dataset.Path = ""
	cfg.Dataset.ImportCSV = csvPath
	cfg.Cache.Enabled = true
	cfg.Cache.Path = ""
	return cfg
}

func TestNew_ProcessTurn(t *testing.T) {
	provider := mock.NewMockProvider(backendDraft)
	engine, err := New(testConfig(t), WithProvider(provider))
	require.NoError(t, err)

	result, err := engine.ProcessTurn(context.Background(), core.TurnRequest{Message: "backend"})
	require.NoError(t, err)
	assert.Len(t, result.Rows, 3)
	assert.Equal(t, int64(3), result.TotalCount)

	require.NoError(t, engine.Close())
	assert.True(t, provider.(*mock.MockProvider).Closed())
}

func TestNew_CachesSummaries(t *testing.T) {
	provider := mock.NewMockProvider("Role: backend.", backendDraft, backendDraft)
	engine, err := New(testConfig(t), WithProvider(provider))
	require.NoError(t, err)
	defer engine.Close()

	history := make([]core.DialogueTurn, 0, 8)
	for i := 0; i < 4; i++ {
		history = append(history,
			core.DialogueTurn{Role: core.RoleUser, Content: "backend developers"},
			core.DialogueTurn{Role: core.RoleAssistant, Content: "ok"},
		)
	}
	req := core.TurnRequest{Message: "more please", History: history}

	_, err = engine.ProcessTurn(context.Background(), req)
	require.NoError(t, err)
	_, err = engine.ProcessTurn(context.Background(), req)
	require.NoError(t, err)

	gen := provider.(*mock.MockProvider).GetMockGenerator()
	calls := gen.Calls()
	require.Len(t, calls, 3)
	assert.Contains(t, calls[1].SystemPrompt, "Role: backend.")
	assert.Contains(t, calls[2].SystemPrompt, "Role: backend.")
}

func TestNew_FileDataset(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dataset.Path = filepath.Join(t.TempDir(), "data", "scout.db")
	cfg.Cache.Enabled = false

	engine, err := New(cfg, WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer engine.Close()

	rows, err := engine.Dataset().Execute(context.Background(), "SELECT COUNT(*) AS n FROM profiles")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 5, rows[0]["n"])
	assert.NotNil(t, engine.Searcher())
}

func TestNew_Errors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dataset.ImportCSV = filepath.Join(t.TempDir(), "missing.csv")
	_, err := New(cfg, WithProvider(mock.NewMockProvider()))
	assert.ErrorContains(t, err, "profiles CSV")

	cfg = testConfig(t)
	cfg.AI.Model = ""
	_, err = New(cfg)
	assert.ErrorContains(t, err, "invalid AI configuration")
}
