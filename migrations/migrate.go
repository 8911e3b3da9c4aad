package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

//go:embed *.sql
var fs embed.FS

// columnMigration adds one column to a table when it is not already present.
type columnMigration struct {
	table      string
	column     string
	definition string
}

// columnMigrations are applied in order after the base schema. Only additive
// changes belong here; each is skipped when the column already exists.
var columnMigrations = []columnMigration{
	{table: "stories", column: "age_group", definition: "TEXT DEFAULT '25+'"},
	{table: "stories", column: "image_style", definition: "TEXT DEFAULT 'cartoon'"},
	{table: "stories", column: "title", definition: "TEXT DEFAULT ''"},
}

// Run applies the base schema and any missing columns. Safe to call on every startup.
func Run(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	entries, err := fs.ReadDir(".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := fs.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		log.Debug().Str("version", strings.TrimSuffix(name, ".sql")).Msg("Applying schema")
		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("run %s: %w", name, err)
		}
	}

	for _, m := range columnMigrations {
		if err := addColumnIfMissing(ctx, db, m); err != nil {
			return err
		}
	}

	return nil
}

func addColumnIfMissing(ctx context.Context, db *sql.DB, m columnMigration) error {
	columns, err := Columns(ctx, db, m.table)
	if err != nil {
		return err
	}
	for _, c := range columns {
		if c == m.column {
			return nil
		}
	}

	log.Info().Str("table", m.table).Str("column", m.column).Msg("Adding column")
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.table, m.column, m.definition)
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("add column %s.%s: %w", m.table, m.column, err)
	}
	return nil
}

// Columns returns the column names of table in declaration order.
func Columns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("scan table info %s: %w", table, err)
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}
