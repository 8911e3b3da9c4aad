package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "stories.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, Run(db))
	first, err := Columns(ctx, db, "stories")
	require.NoError(t, err)

	require.NoError(t, Run(db), "second run must not fail on duplicate columns")
	second, err := Columns(ctx, db, "stories")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{
		"id", "theme", "language", "chunks", "image_paths", "audio_path", "created_at",
		"age_group", "image_style", "title",
	}, second)
}

func TestRun_UpgradesLegacyTable(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, err := db.ExecContext(ctx, `
		CREATE TABLE stories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			theme TEXT NOT NULL,
			language TEXT NOT NULL,
			chunks TEXT NOT NULL,
			image_paths TEXT NOT NULL,
			audio_path TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		`INSERT INTO stories (theme, language, chunks, image_paths) VALUES ('fox', 'English', '[]', '[]')`)
	require.NoError(t, err)

	require.NoError(t, Run(db))

	var ageGroup, style string
	err = db.QueryRowContext(ctx, `SELECT age_group, image_style FROM stories WHERE theme = 'fox'`).Scan(&ageGroup, &style)
	require.NoError(t, err)
	assert.Equal(t, "25+", ageGroup)
	assert.Equal(t, "cartoon", style)
}
