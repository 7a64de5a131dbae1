package cursor

import "context"

type Store interface {
	// Get returns ErrNotFound when the category was never notified.
	Get(ctx context.Context, categoryID string) (*Cursor, error)
	// Upsert creates or replaces the single cursor row in one atomic write.
	Upsert(ctx context.Context, categoryID string, itemID int64, timestamp int64) error
	DeleteForCategories(ctx context.Context, categoryIDs []string) (int64, error)
	List(ctx context.Context) ([]*Cursor, error)
}

type Transactor interface {
	WithTx(ctx context.Context, function func(ctx context.Context) error) error
}
