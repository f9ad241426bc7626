package locallist

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const listKey = "tasks"

// SQLiteStorage keeps the serialized list under a single key of a
// key/value table.
type SQLiteStorage struct {
	db *sql.DB
}

func OpenSQLiteStorage(path string) (*SQLiteStorage, error) {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create database dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	const createKVStoreQuery = `
CREATE TABLE IF NOT EXISTS kv_store (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)
`
	_, err = db.Exec(createKVStoreQuery)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create kv_store table: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Load() ([]Item, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv_store WHERE key = ?`, listKey).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Item{}, nil
		}
		return nil, fmt.Errorf("failed to select list: %w", err)
	}

	items := make([]Item, 0)
	err = json.Unmarshal([]byte(value), &items)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidListFile, err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

func (s *SQLiteStorage) Save(items []Item) error {
	if items == nil {
		items = []Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal list: %w", err)
	}

	const upsertListQuery = `
INSERT INTO kv_store (key, value) VALUES (?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value
`
	_, err = s.db.Exec(upsertListQuery, listKey, string(raw))
	if err != nil {
		return fmt.Errorf("failed to save list: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
