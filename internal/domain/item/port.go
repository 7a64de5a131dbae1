package item

import (
	"context"
	"fmt"

	"github.com/NordCoder/update-notifier/internal/domain/category"
)

// Repository reads published items. Both finders return ErrNotFound when
// nothing qualifies.
type Repository interface {
	FindFirst(ctx context.Context, categoryID string, order category.SortOrder) (*Item, error)
	FindNext(ctx context.Context, categoryID string, order category.SortOrder, afterID int64) (*Item, error)
}

// Registry selects the repository serving a category kind.
type Registry map[category.Kind]Repository

func (r Registry) For(kind category.Kind) (Repository, error) {
	repo, ok := r[kind]
	if !ok || repo == nil {
		return nil, fmt.Errorf("no item repository for kind %q", kind)
	}
	return repo, nil
}
