// Package sqlite provides a SQLite-backed statement store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/parleyhq/parley/pkg/conversation"
	"github.com/parleyhq/parley/pkg/storage"
)

// Driver implements storage.Driver using SQLite as the storage backend.
type Driver struct {
	db *sql.DB
}

// NewDriver creates a new SQLite-backed statement store.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func NewDriver(ctx context.Context, dbPath string) (*Driver, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := &Driver{db: db}

	if err := d.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return d, nil
}

// migrate creates the necessary tables if they don't exist.
func (d *Driver) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS statements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		search_text TEXT NOT NULL,
		in_response_to TEXT NOT NULL DEFAULT '',
		search_in_response_to TEXT NOT NULL DEFAULT '',
		conversation TEXT NOT NULL DEFAULT '',
		persona TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_statements_search_in_response_to ON statements(search_in_response_to);
	`

	_, err := d.db.ExecContext(ctx, schema)
	return err
}

// Put stores a statement and returns it with ID and CreatedAt assigned.
// Statements are append-only: repeating an utterance inserts a new row.
func (d *Driver) Put(ctx context.Context, st *conversation.Statement) (*conversation.Statement, error) {
	if st == nil {
		return nil, fmt.Errorf("cannot store nil statement")
	}

	created := time.Now().UTC()
	query := `INSERT INTO statements
		(text, search_text, in_response_to, search_in_response_to, conversation, persona, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	res, err := d.db.ExecContext(ctx, query,
		st.Text, st.SearchText, st.InResponseTo, st.SearchInResponseTo,
		st.Conversation, st.Persona, created)
	if err != nil {
		return nil, fmt.Errorf("failed to insert statement: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read insert id: %w", err)
	}

	st.ID = id
	st.CreatedAt = created

	return st, nil
}

// Replies returns all statements recorded as replies, oldest first.
func (d *Driver) Replies(ctx context.Context) ([]*conversation.Statement, error) {
	query := `SELECT id, text, search_text, in_response_to, search_in_response_to, conversation, persona, created_at
		FROM statements WHERE in_response_to != '' ORDER BY id`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query replies: %w", err)
	}
	defer rows.Close()

	return d.scanStatements(rows)
}

// ResponsesTo returns all replies to the given normalized prompt, oldest first.
func (d *Driver) ResponsesTo(ctx context.Context, searchText string) ([]*conversation.Statement, error) {
	query := `SELECT id, text, search_text, in_response_to, search_in_response_to, conversation, persona, created_at
		FROM statements WHERE search_in_response_to = ? AND in_response_to != '' ORDER BY id`

	rows, err := d.db.QueryContext(ctx, query, searchText)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	return d.scanStatements(rows)
}

// Count returns the number of stored statements.
func (d *Driver) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM statements`

	var count int
	if err := d.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count statements: %w", err)
	}

	return count, nil
}

// Recent returns up to limit statements, newest first.
func (d *Driver) Recent(ctx context.Context, limit int) ([]*conversation.Statement, error) {
	query := `SELECT id, text, search_text, in_response_to, search_in_response_to, conversation, persona, created_at
		FROM statements ORDER BY id DESC LIMIT ?`

	rows, err := d.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent statements: %w", err)
	}
	defer rows.Close()

	return d.scanStatements(rows)
}

// scanStatements scans multiple rows into Statement structs.
func (d *Driver) scanStatements(rows *sql.Rows) ([]*conversation.Statement, error) {
	var statements []*conversation.Statement

	for rows.Next() {
		var st conversation.Statement

		err := rows.Scan(&st.ID, &st.Text, &st.SearchText, &st.InResponseTo,
			&st.SearchInResponseTo, &st.Conversation, &st.Persona, &st.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement: %w", err)
		}

		statements = append(statements, &st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return statements, nil
}

// Close closes the database connection.
func (d *Driver) Close() error {
	return d.db.Close()
}

// Ensure Driver implements storage.Driver
var _ storage.Driver = (*Driver)(nil)
