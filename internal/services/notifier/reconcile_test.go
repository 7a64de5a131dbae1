package notifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NordCoder/update-notifier/internal/domain/category"
)

type passTx struct{ calls int }

func (p *passTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

func TestReconciler_Prune(t *testing.T) {
	ctx := context.Background()
	cur := newMemCursors()
	for _, id := range []string{"articles", "pages", "tags"} {
		require.NoError(t, cur.Upsert(ctx, id, 1, 1))
	}
	tx := &passTx{}
	r := NewReconciler(cur, tx, nil)

	removed, err := r.Prune(ctx, []string{"articles", "events"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"pages", "tags"}, removed)
	assert.Equal(t, 1, tx.calls)

	_, _, ok := cur.at("articles")
	assert.True(t, ok)
	_, _, ok = cur.at("pages")
	assert.False(t, ok)

	removed, err = r.Prune(ctx, []string{"articles"})
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestStore_ReplaceKeepsSnapshots(t *testing.T) {
	s := NewStore([]category.Category{{ID: "a"}, {ID: "b"}})
	snap := s.ListCategories()

	s.Replace([]category.Category{{ID: "c"}})
	assert.Len(t, snap, 2)
	assert.Equal(t, []string{"c"}, s.IDs())
	assert.Empty(t, (&Store{}).ListCategories())
}
