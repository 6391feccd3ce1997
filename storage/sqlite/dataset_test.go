package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/scout/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDataset(t *testing.T) storage.Dataset {
	t.Helper()
	dataset, err := NewMemoryDataset(SampleProfilesCSV)
	require.NoError(t, err)
	t.Cleanup(func() { dataset.Close() })
	return dataset
}

func TestDataset_Execute(t *testing.T) {
	dataset := setupDataset(t)
	ctx := context.Background()

	rows, err := dataset.Execute(ctx, "SELECT id, full_name, seniority_rank FROM profiles WHERE UPPER(location) LIKE '%PAULO%' ORDER BY id")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "p1", rows[0].ID())
	assert.Equal(t, "Ana Souza", rows[0].String("full_name"))
	assert.Equal(t, int64(2), rows[0]["seniority_rank"])
}

func TestImportCSV_FoldsLocation(t *testing.T) {
	dataset := setupDataset(t)

	rows, err := dataset.Execute(context.Background(), "SELECT location FROM profiles WHERE id = 'p1'")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sao Paulo, SP", rows[0].String("location"))

	rows, err = dataset.Execute(context.Background(), "SELECT id FROM profiles WHERE UPPER(location) LIKE '%SAO PAULO%'")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestDataset_NumericComparison(t *testing.T) {
	dataset := setupDataset(t)

	rows, err := dataset.Execute(context.Background(), "SELECT id FROM profiles WHERE seniority_rank <= 2 ORDER BY id")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "p1", rows[0].ID())
	assert.Equal(t, "p4", rows[1].ID())
}

func TestDataset_Count(t *testing.T) {
	dataset := setupDataset(t)

	rows, err := dataset.Execute(context.Background(), "SELECT COUNT(*) AS total FROM profiles")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(5), rows[0]["total"])
}

func TestDataset_EmptyResult(t *testing.T) {
	dataset := setupDataset(t)

	rows, err := dataset.Execute(context.Background(), "SELECT id FROM profiles WHERE 1 = 0")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDataset_RejectsMutation(t *testing.T) {
	dataset := setupDataset(t)
	ctx := context.Background()

	_, err := dataset.Execute(ctx, "DELETE FROM profiles")
	assert.ErrorIs(t, err, storage.ErrReadOnlyViolation)

	rows, err := dataset.Execute(ctx, "SELECT COUNT(*) AS n FROM profiles")
	require.NoError(t, err)
	assert.Equal(t, int64(5), rows[0]["n"])
}

func TestDataset_SQLError(t *testing.T) {
	dataset := setupDataset(t)

	_, err := dataset.Execute(context.Background(), "SELECT missing_column FROM profiles")
	assert.Error(t, err)
}

func TestDataset_Closed(t *testing.T) {
	dataset, err := OpenMemory()
	require.NoError(t, err)
	require.NoError(t, dataset.Close())

	_, err = dataset.Execute(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, dataset.Close(), storage.ErrStorageClosed)
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "scout.db")
	dataset, err := Open(path)
	require.NoError(t, err)

	n, err := dataset.ImportCSV(context.Background(), strings.NewReader(SampleProfilesCSV))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.NoError(t, dataset.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	rows, err := reopened.Execute(context.Background(), "SELECT id FROM profiles")
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}

func TestImportCSV(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		want    int
		wantErr error
	}{
		{
			name: "header aliases and unknown columns",
			csv:  "ID,Full Name,Seniority-Rank,favorite_color\nx1,Zé,2,blue\n",
			want: 1,
		},
		{
			name: "blank id skipped",
			csv:  "id,full_name\n,Nobody\nx2,Somebody\n",
			want: 1,
		},
		{
			name: "replaces existing id",
			csv:  "id,full_name\nx3,First\nx3,Second\n",
			want: 2,
		},
		{
			name:    "missing id column",
			csv:     "full_name\nNobody\n",
			wantErr: storage.ErrInvalidDataset,
		},
		{
			name:    "empty input",
			csv:     "",
			wantErr: storage.ErrInvalidDataset,
		},
		{
			name:    "bad integer",
			csv:     "id,seniority_rank\nx4,high\n",
			wantErr: storage.ErrInvalidDataset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dataset, err := OpenMemory()
			require.NoError(t, err)
			defer dataset.Close()

			n, err := dataset.ImportCSV(context.Background(), strings.NewReader(tt.csv))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestImportCSV_ReplaceKeepsLatest(t *testing.T) {
	dataset, err := NewMemoryDataset("id,full_name,years_experience\nx3,First,1\nx3,Second,\"2,5\"\n")
	require.NoError(t, err)
	defer dataset.Close()

	rows, err := dataset.Execute(context.Background(), "SELECT full_name, years_experience FROM profiles WHERE id = 'x3'")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Second", rows[0].String("full_name"))
	assert.Equal(t, 2.5, rows[0]["years_experience"])
}
