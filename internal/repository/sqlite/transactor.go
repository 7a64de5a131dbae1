package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/NordCoder/update-notifier/internal/domain/cursor"
)

var _ cursor.Transactor = (*Transactor)(nil)

type Transactor struct{ db *DB }

func NewTransactor(db *DB) *Transactor { return &Transactor{db: db} }

func (t *Transactor) WithTx(ctx context.Context, function func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok && tx != nil {
		return function(ctx)
	}

	tx, err := t.db.X.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := function(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("function execution error: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
