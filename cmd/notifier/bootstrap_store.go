package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	config "github.com/NordCoder/update-notifier/internal/config/notifier"
	"github.com/NordCoder/update-notifier/internal/domain/category"
	"github.com/NordCoder/update-notifier/internal/domain/cursor"
	"github.com/NordCoder/update-notifier/internal/domain/item"
	"github.com/NordCoder/update-notifier/internal/repository/migrate"
	pg "github.com/NordCoder/update-notifier/internal/repository/postgres"
	"github.com/NordCoder/update-notifier/internal/repository/schema"
	"github.com/NordCoder/update-notifier/internal/repository/sqlite"
)

// store bundles one storage backend behind the domain ports.
type store struct {
	Cursors cursor.Store
	Tx      cursor.Transactor
	Items   map[category.Kind]item.Repository
	Health  func(ctx context.Context) error
	Close   func()
}

func openStore(ctx context.Context, cfg config.DB, log *zap.Logger) (*store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := pg.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		items, err := itemRepos(func(t schema.ItemTable) item.Repository { return pg.NewItemRepo(db, t) })
		if err != nil {
			db.Close()
			return nil, err
		}
		return &store{
			Cursors: pg.NewCursorRepo(db),
			Tx:      pg.NewTransactor(db, log),
			Items:   items,
			Health:  db.Ping,
			Close:   db.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.New(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		items, err := itemRepos(func(t schema.ItemTable) item.Repository { return sqlite.NewItemRepo(db, t) })
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return &store{
			Cursors: sqlite.NewCursorRepo(db),
			Tx:      sqlite.NewTransactor(db),
			Items:   items,
			Health:  db.Ping,
			Close:   func() { _ = db.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
}

func itemRepos(build func(schema.ItemTable) item.Repository) (map[category.Kind]item.Repository, error) {
	out := make(map[category.Kind]item.Repository, 2)
	for _, k := range []category.Kind{category.KindContentType, category.KindVocabulary} {
		t, ok := schema.ForKind(k)
		if !ok {
			return nil, fmt.Errorf("no item table for kind %q", k)
		}
		out[k] = build(t)
	}
	return out, nil
}

// migrateUp applies the embedded migrations and returns the resulting version.
func migrateUp(cfg config.DB) (int64, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err = sql.Open("pgx", cfg.Postgres.DSN)
	case config.DriverSQLite:
		db, err = sql.Open("sqlite", cfg.SQLite.Path)
	default:
		return 0, fmt.Errorf("unknown db driver %q", cfg.Driver)
	}
	if err != nil {
		return 0, fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := migrate.Up(db, cfg.Driver); err != nil {
		return 0, err
	}
	return migrate.Version(db, cfg.Driver)
}
