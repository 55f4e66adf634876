package session

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Partition is the metadata key the session is persisted under.
const Partition = "auth"

//go:embed migrations/*.sql
var migrations embed.FS

// TokenStore persists the session token between runs.
// Load returns an empty token and no error when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

type persisted struct {
	Token string `json:"token"`
}

// SQLiteStore keeps the token in a local sqlite metadata table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the sqlite database at path and
// applies its migrations.
func OpenStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("run state migrations: %w", err)
	}
	return nil
}

// Load returns the stored token.
func (s *SQLiteStore) Load(ctx context.Context) (string, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, Partition).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}

	var p persisted
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", fmt.Errorf("decode session: %w", err)
	}
	return p.Token, nil
}

// Save stores token, replacing any previous one.
func (s *SQLiteStore) Save(ctx context.Context, token string) error {
	raw, err := json.Marshal(persisted{Token: token})
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, Partition, raw)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes the stored token.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, Partition); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
