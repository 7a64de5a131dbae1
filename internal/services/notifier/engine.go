package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/update-notifier/internal/domain/category"
	"github.com/NordCoder/update-notifier/internal/domain/cursor"
	"github.com/NordCoder/update-notifier/internal/domain/item"
)

type Reason string

const (
	ReasonColdStart Reason = "cold_start"
	ReasonDue       Reason = "due"
	ReasonBypass    Reason = "bypass"
	ReasonNotDue    Reason = "not_due"
	ReasonExhausted Reason = "exhausted"
	ReasonNoItems   Reason = "no_items"
)

// Decision is the due-check verdict for one category in one pass.
type Decision struct {
	Eligible  bool
	Reason    Reason
	Candidate *item.Item
	Cursor    *cursor.Cursor
}

// Engine picks the next candidate of a category and decides whether it is due.
//
// The cursor stores the id of the item last notified, and the candidate is
// always the adjacent published item strictly beyond it in the configured
// direction. The walk never wraps around: once exhausted a category stays
// silent until new items appear ahead of the cursor.
type Engine struct {
	Cursors cursor.Store
	Items   item.Registry
}

func NewEngine(cursors cursor.Store, items item.Registry) *Engine {
	return &Engine{Cursors: cursors, Items: items}
}

func (e *Engine) Evaluate(ctx context.Context, cat category.Category, now time.Time, bypassInterval bool) (Decision, error) {
	repo, err := e.Items.For(cat.Kind)
	if err != nil {
		return Decision{}, fmt.Errorf("%w: category %q: %w", ErrConfiguration, cat.ID, err)
	}

	cur, err := e.Cursors.Get(ctx, cat.ID)
	switch {
	case errors.Is(err, cursor.ErrNotFound):
		cur = nil
	case err != nil:
		return Decision{}, fmt.Errorf("%w: read cursor %q: %w", ErrStorage, cat.ID, err)
	}

	// A row without a position is treated like no row at all.
	if !cur.Positioned() {
		first, err := repo.FindFirst(ctx, cat.ID, cat.SortOrder)
		if errors.Is(err, item.ErrNotFound) {
			return Decision{Reason: ReasonNoItems, Cursor: cur}, nil
		}
		if err != nil {
			return Decision{}, fmt.Errorf("%w: find first in %q: %w", ErrConfiguration, cat.ID, err)
		}
		return Decision{Eligible: true, Reason: ReasonColdStart, Candidate: first, Cursor: cur}, nil
	}

	next, err := repo.FindNext(ctx, cat.ID, cat.SortOrder, *cur.LastItemID)
	if errors.Is(err, item.ErrNotFound) {
		return Decision{Reason: ReasonExhausted, Cursor: cur}, nil
	}
	if err != nil {
		return Decision{}, fmt.Errorf("%w: find next in %q: %w", ErrConfiguration, cat.ID, err)
	}

	if Due(cur, cat, now) {
		return Decision{Eligible: true, Reason: ReasonDue, Candidate: next, Cursor: cur}, nil
	}
	if bypassInterval {
		return Decision{Eligible: true, Reason: ReasonBypass, Candidate: next, Cursor: cur}, nil
	}
	return Decision{Reason: ReasonNotDue, Cursor: cur}, nil
}

// Due reports whether the category interval has elapsed since the cursor's
// timestamp. The boundary is inclusive.
func Due(cur *cursor.Cursor, cat category.Category, now time.Time) bool {
	if cur == nil || cur.LastTimestamp == nil {
		return true
	}
	return now.Unix()-*cur.LastTimestamp >= cat.IntervalSeconds()
}
