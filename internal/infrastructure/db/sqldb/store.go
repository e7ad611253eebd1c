// Package sqldb is the key-value store on SQLite or PostgreSQL. Both share one
// kv_entries table whose schema is managed by embedded migrations.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects the database. For SQLite, DSN is a file path whose directory
// is created when missing.
type Config struct {
	Driver    string
	DSN       string
	Namespace string
}

type Store struct {
	db        *sqlx.DB
	namespace string

	getQuery    string
	upsertQuery string
	deleteQuery string
}

// Open connects, migrates and returns a ready Store.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	switch cfg.Driver {
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}
	if cfg.Driver == DriverSQLite {
		// One writer at a time keeps SQLite from returning SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}

	if err := RunMigrations(cfg.Driver, cfg.DSN); err != nil {
		db.Close()
		return nil, err
	}

	return newStore(db, cfg.Namespace), nil
}

func newStore(db *sqlx.DB, namespace string) *Store {
	return &Store{
		db:          db,
		namespace:   namespace,
		getQuery:    db.Rebind(`SELECT value FROM kv_entries WHERE entry_key = ?`),
		upsertQuery: db.Rebind(`INSERT INTO kv_entries (entry_key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT (entry_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		deleteQuery: db.Rebind(`DELETE FROM kv_entries WHERE entry_key = ?`),
	}
}

func (s *Store) key(k string) string {
	if s.namespace == "" {
		return k
	}
	return s.namespace + ":" + k
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.getQuery, s.key(key))
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.upsertQuery, s.key(key), value, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.deleteQuery, s.key(key)); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
