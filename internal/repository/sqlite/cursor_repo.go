package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/NordCoder/update-notifier/internal/domain/cursor"
)

var _ cursor.Store = (*CursorRepo)(nil)

type CursorRepo struct{ db *DB }

func NewCursorRepo(db *DB) *CursorRepo { return &CursorRepo{db: db} }

type cursorRow struct {
	CategoryID    string        `db:"category_id"`
	LastItemID    sql.NullInt64 `db:"last_item_id"`
	LastTimestamp sql.NullInt64 `db:"last_timestamp"`
}

func (r cursorRow) toDomain() *cursor.Cursor {
	c := &cursor.Cursor{CategoryID: r.CategoryID}
	if r.LastItemID.Valid {
		v := r.LastItemID.Int64
		c.LastItemID = &v
	}
	if r.LastTimestamp.Valid {
		v := r.LastTimestamp.Int64
		c.LastTimestamp = &v
	}
	return c
}

const (
	qCursorGet = `SELECT category_id, last_item_id, last_timestamp FROM notification_cursors WHERE category_id = ?`

	qCursorUpsert = `
INSERT INTO notification_cursors (category_id, last_item_id, last_timestamp)
VALUES (?, ?, ?)
ON CONFLICT (category_id) DO UPDATE
SET last_item_id   = excluded.last_item_id,
    last_timestamp = excluded.last_timestamp`

	qCursorDelete = `DELETE FROM notification_cursors WHERE category_id IN (?)`

	qCursorList = `SELECT category_id, last_item_id, last_timestamp FROM notification_cursors ORDER BY category_id`
)

func (r *CursorRepo) Get(ctx context.Context, categoryID string) (*cursor.Cursor, error) {
	var row cursorRow
	if err := r.db.q(ctx).GetContext(ctx, &row, qCursorGet, categoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cursor.ErrNotFound
		}
		return nil, fmt.Errorf("get cursor: %w", err)
	}
	return row.toDomain(), nil
}

func (r *CursorRepo) Upsert(ctx context.Context, categoryID string, itemID int64, timestamp int64) error {
	if _, err := r.db.q(ctx).ExecContext(ctx, qCursorUpsert, categoryID, itemID, timestamp); err != nil {
		return fmt.Errorf("upsert cursor: %w", err)
	}
	return nil
}

func (r *CursorRepo) DeleteForCategories(ctx context.Context, categoryIDs []string) (int64, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}
	q := r.db.q(ctx)
	query, args, err := sqlx.In(qCursorDelete, categoryIDs)
	if err != nil {
		return 0, fmt.Errorf("expand delete: %w", err)
	}
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("delete cursors: %w", err)
	}
	return res.RowsAffected()
}

func (r *CursorRepo) List(ctx context.Context) ([]*cursor.Cursor, error) {
	var rows []cursorRow
	if err := r.db.q(ctx).SelectContext(ctx, &rows, qCursorList); err != nil {
		return nil, fmt.Errorf("list cursors: %w", err)
	}
	out := make([]*cursor.Cursor, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
