package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/NordCoder/update-notifier/internal/domain/category"
	"github.com/NordCoder/update-notifier/internal/domain/item"
	"github.com/NordCoder/update-notifier/internal/repository/schema"
)

var _ item.Repository = (*ItemRepoImpl)(nil)

type ItemRepoImpl struct {
	db    *DB
	table schema.ItemTable
}

func NewItemRepo(db *DB, table schema.ItemTable) *ItemRepoImpl {
	return &ItemRepoImpl{db: db, table: table}
}

func scanItem(row pgx.Row) (*item.Item, error) {
	var (
		it     item.Item
		status int
	)
	if err := row.Scan(&it.ID, &it.CategoryID, &status, &it.Title, &it.CanonicalURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, item.ErrNotFound
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	it.Published = status == 1
	return &it, nil
}

func (r *ItemRepoImpl) FindFirst(ctx context.Context, categoryID string, order category.SortOrder) (*item.Item, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	return scanItem(r.db.Pool.QueryRow(ctx, r.table.FirstQuery(order, schema.Dollar), categoryID))
}

func (r *ItemRepoImpl) FindNext(ctx context.Context, categoryID string, order category.SortOrder, afterID int64) (*item.Item, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	return scanItem(r.db.Pool.QueryRow(ctx, r.table.NextQuery(order, schema.Dollar), categoryID, afterID))
}
