package sqlite

import (
	"testing"

	"github.com/poiesic/scout/storage"
	"github.com/stretchr/testify/assert"
)

func TestCheckReadOnly(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr error
	}{
		{"select", "SELECT id FROM profiles", nil},
		{"lowercase with trailing semicolon", "select id from profiles;", nil},
		{"cte", "WITH s AS (SELECT id FROM profiles) SELECT * FROM s", nil},
		{"keyword inside literal", "SELECT id FROM profiles WHERE headline LIKE '%delete%'", nil},
		{"keyword inside comment", "SELECT id FROM profiles -- drop table\n", nil},
		{"replace function", "SELECT REPLACE(location, 'SP', 'São Paulo') FROM profiles", nil},
		{"updated_at column", "SELECT updated_at FROM profiles", nil},
		{"escaped quote", "SELECT id FROM profiles WHERE full_name = 'D''Avila'", nil},
		{"empty", "   ", storage.ErrEmptyQuery},
		{"delete", "DELETE FROM profiles", storage.ErrReadOnlyViolation},
		{"stacked statements", "SELECT 1; DROP TABLE profiles", storage.ErrReadOnlyViolation},
		{"cte delete", "WITH s AS (SELECT id FROM profiles) DELETE FROM profiles", storage.ErrReadOnlyViolation},
		{"pragma", "PRAGMA table_info(profiles)", storage.ErrReadOnlyViolation},
		{"attach", "SELECT 1 FROM profiles; ATTACH 'x.db' AS x", storage.ErrReadOnlyViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckReadOnly(tt.query)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
