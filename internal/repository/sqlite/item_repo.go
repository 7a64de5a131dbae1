package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/NordCoder/update-notifier/internal/domain/category"
	"github.com/NordCoder/update-notifier/internal/domain/item"
	"github.com/NordCoder/update-notifier/internal/repository/schema"
)

var _ item.Repository = (*ItemRepo)(nil)

type ItemRepo struct {
	db    *DB
	table schema.ItemTable
}

func NewItemRepo(db *DB, table schema.ItemTable) *ItemRepo {
	return &ItemRepo{db: db, table: table}
}

func (r *ItemRepo) get(ctx context.Context, query string, args ...any) (*item.Item, error) {
	var (
		it     item.Item
		status int
	)
	row := r.db.q(ctx).QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&it.ID, &it.CategoryID, &status, &it.Title, &it.CanonicalURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, item.ErrNotFound
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	it.Published = status == 1
	return &it, nil
}

func (r *ItemRepo) FindFirst(ctx context.Context, categoryID string, order category.SortOrder) (*item.Item, error) {
	return r.get(ctx, r.table.FirstQuery(order, schema.Question), categoryID)
}

func (r *ItemRepo) FindNext(ctx context.Context, categoryID string, order category.SortOrder, afterID int64) (*item.Item, error) {
	return r.get(ctx, r.table.NextQuery(order, schema.Question), categoryID, afterID)
}
