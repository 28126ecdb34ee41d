package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Well-known board keys
const (
	KeyBoardVersions = "board_versions"
	KeyBoardBacklog  = "board_backlog"
	KeyAgentEmail    = "agent_email"
)

// Store is a small JSON key-value store backing the updates/roadmap
// board and remembered agent email. Values carry no schema version;
// reads of missing keys return an empty state instead of an error.
type Store struct {
	db *sqlx.DB
}

// New creates a key-value store over the given database
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Get returns the stored JSON value for key, or (nil, nil) when the
// key has never been written.
func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var raw []byte
	query := s.db.Rebind(`SELECT value FROM board_entries WHERE key = ?`)
	err := s.db.GetContext(ctx, &raw, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return json.RawMessage(raw), nil
}

// Set upserts the JSON value for key
func (s *Store) Set(ctx context.Context, key string, value json.RawMessage) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for key %q is not valid JSON", key)
	}
	query := s.db.Rebind(`INSERT INTO board_entries (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP`)
	if _, err := s.db.ExecContext(ctx, query, key, []byte(value)); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Delete removes a key; deleting a missing key is not an error
func (s *Store) Delete(ctx context.Context, key string) error {
	query := s.db.Rebind(`DELETE FROM board_entries WHERE key = ?`)
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}
