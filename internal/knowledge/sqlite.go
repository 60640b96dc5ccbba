package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"supportdesk/internal/logging"

	_ "modernc.org/sqlite"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkTable(table string) (string, error) {
	if table == "" {
		table = "faqs"
	}
	if !tableNamePattern.MatchString(table) {
		return "", fmt.Errorf("invalid table name: %q", table)
	}
	return table, nil
}

// LoadSQLite reads FAQ entries from table (default "faqs") in rowid order.
// The table needs question, answer and category columns.
func LoadSQLite(ctx context.Context, dsn, table string) (*Base, error) {
	table, err := checkTable(table)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	query := fmt.Sprintf(`SELECT question, answer, COALESCE(category, '') FROM %s ORDER BY rowid`, table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var entries []FAQEntry
	for rows.Next() {
		var e FAQEntry
		if err := rows.Scan(&e.Question, &e.Answer, &e.Category); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}

	base := New(entries)
	logging.Knowledge("loaded %d/%d entries from sqlite table %s", base.Len(), len(entries), table)
	return base, nil
}

// WriteSQLite exports b into table, creating it if needed and replacing its rows.
func WriteSQLite(ctx context.Context, dsn, table string, b *Base) error {
	table, err := checkTable(table)
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		category TEXT
	);`, table)
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
		return fmt.Errorf("failed to clear table: %w", err)
	}

	insert := fmt.Sprintf(`INSERT INTO %s (question, answer, category) VALUES (?, ?, ?)`, table)
	for _, e := range b.Entries() {
		if _, err := tx.ExecContext(ctx, insert, e.Question, e.Answer, e.Category); err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
	}

	return tx.Commit()
}
