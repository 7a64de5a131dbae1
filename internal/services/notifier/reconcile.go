package notifier

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/NordCoder/update-notifier/internal/domain/cursor"
)

// Reconciler removes cursor rows of categories that are no longer configured.
type Reconciler struct {
	Cursors cursor.Store
	Tx      cursor.Transactor
	Log     *zap.Logger
}

func NewReconciler(cursors cursor.Store, tx cursor.Transactor, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{Cursors: cursors, Tx: tx, Log: log.With(zap.String("component", "notifier.reconcile"))}
}

// Prune returns the ids whose cursors were deleted.
func (r *Reconciler) Prune(ctx context.Context, configured []string) ([]string, error) {
	keep := make(map[string]struct{}, len(configured))
	for _, id := range configured {
		keep[id] = struct{}{}
	}

	var stale []string
	err := r.Tx.WithTx(ctx, func(ctx context.Context) error {
		stale = stale[:0]
		all, err := r.Cursors.List(ctx)
		if err != nil {
			return fmt.Errorf("list cursors: %w", err)
		}
		for _, c := range all {
			if _, ok := keep[c.CategoryID]; !ok {
				stale = append(stale, c.CategoryID)
			}
		}
		if len(stale) == 0 {
			return nil
		}
		if _, err := r.Cursors.DeleteForCategories(ctx, stale); err != nil {
			return fmt.Errorf("delete cursors: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: prune cursors: %w", ErrStorage, err)
	}
	if len(stale) > 0 {
		r.Log.Info("pruned cursors of removed categories", zap.Strings("categories", stale))
	}
	return stale, nil
}
