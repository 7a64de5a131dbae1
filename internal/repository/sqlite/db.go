// Package sqlite is the single-file storage backend, used for local installs
// and hermetic tests.
package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/NordCoder/update-notifier/internal/repository/migrate"
)

type DB struct {
	X *sqlx.DB
}

// New opens (or creates) the database at path and applies migrations.
// ":memory:" is supported; the pool is pinned to one connection so every
// query sees the same database.
func New(path string) (*DB, error) {
	x, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	x.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"} {
		if _, err := x.Exec(pragma); err != nil {
			_ = x.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := migrate.Up(x.DB, migrate.DriverSQLite); err != nil {
		_ = x.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &DB{X: x}, nil
}

func (db *DB) Close() error { return db.X.Close() }

func (db *DB) Ping(ctx context.Context) error { return db.X.PingContext(ctx) }

type txKey struct{}

type queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

func (db *DB) q(ctx context.Context) queryer {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok && tx != nil {
		return tx
	}
	return db.X
}
