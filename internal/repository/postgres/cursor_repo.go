package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/NordCoder/update-notifier/internal/domain/cursor"
)

var _ cursor.Store = (*CursorRepoImpl)(nil)

type CursorRepoImpl struct {
	db *DB
}

func NewCursorRepo(db *DB) *CursorRepoImpl { return &CursorRepoImpl{db: db} }

const (
	qCursorGet = `
SELECT category_id, last_item_id, last_timestamp
FROM notification_cursors
WHERE category_id = $1;
`

	qCursorUpsert = `
INSERT INTO notification_cursors (category_id, last_item_id, last_timestamp)
VALUES ($1, $2, $3)
ON CONFLICT (category_id) DO UPDATE
SET last_item_id   = EXCLUDED.last_item_id,
    last_timestamp = EXCLUDED.last_timestamp;
`

	qCursorDelete = `DELETE FROM notification_cursors WHERE category_id = ANY($1);`

	qCursorList = `
SELECT category_id, last_item_id, last_timestamp
FROM notification_cursors
ORDER BY category_id
FOR UPDATE;
`
)

func scanCursor(row pgx.Row, c *cursor.Cursor) error {
	if err := row.Scan(&c.CategoryID, &c.LastItemID, &c.LastTimestamp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cursor.ErrNotFound
		}
		return fmt.Errorf("scan cursor: %w", err)
	}
	return nil
}

func (r *CursorRepoImpl) Get(ctx context.Context, categoryID string) (*cursor.Cursor, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var c cursor.Cursor
	if err := scanCursor(r.db.execQueryer(ctx).QueryRow(ctx, qCursorGet, categoryID), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CursorRepoImpl) Upsert(ctx context.Context, categoryID string, itemID int64, timestamp int64) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.execQueryer(ctx).Exec(ctx, qCursorUpsert, categoryID, itemID, timestamp); err != nil {
		return fmt.Errorf("upsert cursor: %w", err)
	}
	return nil
}

func (r *CursorRepoImpl) DeleteForCategories(ctx context.Context, categoryIDs []string) (int64, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	cmd, err := r.db.execQueryer(ctx).Exec(ctx, qCursorDelete, categoryIDs)
	if err != nil {
		return 0, fmt.Errorf("delete cursors: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// List locks the returned rows when called inside a transaction.
func (r *CursorRepoImpl) List(ctx context.Context) ([]*cursor.Cursor, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.execQueryer(ctx).Query(ctx, qCursorList)
	if err != nil {
		return nil, fmt.Errorf("query cursors: %w", err)
	}
	defer rows.Close()

	var out []*cursor.Cursor
	for rows.Next() {
		var c cursor.Cursor
		if err := scanCursor(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
