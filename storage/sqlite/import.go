// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sqlite

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/poiesic/scout/storage"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ImportCSV loads profiles from r. The first row is the header; columns are
// matched to the profiles table by name and unknown columns are ignored.
// An id column is required. Blank cells are stored as NULL.
func (d *Dataset) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	if d.closed.Load() {
		return 0, storage.ErrStorageClosed
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w: missing header row", storage.ErrInvalidDataset)
		}
		return 0, fmt.Errorf("%w: %w", storage.ErrInvalidDataset, err)
	}

	var (
		cols    []column
		indexes []int
		hasID   bool
	)
	for i, h := range header {
		c, ok := lookupColumn(h)
		if !ok {
			d.logger.Debug("ignoring unknown column", "column", h)
			continue
		}
		if c.name == "id" {
			hasID = true
		}
		cols = append(cols, c)
		indexes = append(indexes, i)
	}
	if !hasID {
		return 0, fmt.Errorf("%w: header has no id column", storage.ErrInvalidDataset)
	}

	names := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
		placeholders[i] = "?"
	}
	stmtText := fmt.Sprintf("INSERT OR REPLACE INTO profiles (%s) VALUES (%s)",
		strings.Join(names, ", "), strings.Join(placeholders, ", "))

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, stmtText)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	skipped := 0
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%w: line %d: %w", storage.ErrInvalidDataset, line, err)
		}

		args := make([]any, len(cols))
		blankID := false
		for i, c := range cols {
			cell := ""
			if indexes[i] < len(row) {
				cell = strings.TrimSpace(row[indexes[i]])
			}
			if c.name == "id" && cell == "" {
				blankID = true
				break
			}
			v, err := convertCell(c, cell)
			if err != nil {
				return 0, fmt.Errorf("%w: line %d: column %s: %w", storage.ErrInvalidDataset, line, c.name, err)
			}
			args[i] = v
		}
		if blankID {
			skipped++
			continue
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("failed to insert line %d: %w", line, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	d.logger.Info("imported profiles", "rows", count, "skipped", skipped)
	return count, nil
}

func convertCell(c column, cell string) (any, error) {
	if cell == "" {
		return nil, nil
	}
	switch c.kind {
	case kindInteger:
		return strconv.ParseInt(cell, 10, 64)
	case kindReal:
		return strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64)
	default:
		if c.fold {
			return stripAccents(cell), nil
		}
		return cell, nil
	}
}

// stripAccents removes combining marks, turning "São Paulo" into "Sao Paulo".
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
