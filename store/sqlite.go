package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLite persists game state in a SQLite database.
type SQLite struct {
	db *sql.DB
}

const createGamesTable = `
CREATE TABLE IF NOT EXISTS games (
	key TEXT PRIMARY KEY,
	state BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// OpenSQLite opens (creating if needed) a SQLite game store.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(createGamesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create games table: %w", err)
	}
	log.Info().Str("path", path).Msg("opened game store")
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Save(ctx context.Context, key string, state []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO games (key, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET state = excluded.state,
			updated_at = excluded.updated_at`,
		key, state, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("saving game %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Load(ctx context.Context, key string) ([]byte, error) {
	var state []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM games WHERE key = ?`, key).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading game %s: %w", key, err)
	}
	return state, nil
}

func (s *SQLite) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM games ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
