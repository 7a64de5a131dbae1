package repo

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NordCoder/update-notifier/internal/domain/category"
	"github.com/NordCoder/update-notifier/internal/domain/item"
)

type stubRepo struct{ it *item.Item }

func (s stubRepo) FindFirst(context.Context, string, category.SortOrder) (*item.Item, error) {
	if s.it == nil {
		return nil, item.ErrNotFound
	}
	cp := *s.it
	return &cp, nil
}

func (s stubRepo) FindNext(ctx context.Context, id string, o category.SortOrder, _ int64) (*item.Item, error) {
	return s.FindFirst(ctx, id, o)
}

func TestCanonical(t *testing.T) {
	base, err := url.Parse("https://example.org/site")
	require.NoError(t, err)

	cases := map[string]string{
		"/node/5":                "https://example.org/site/node/5",
		"node/5":                 "https://example.org/site/node/5",
		"taxonomy/term/3?x=1#a":  "https://example.org/site/taxonomy/term/3?x=1#a",
		"http://other.test/path": "http://other.test/path",
		"/a%2Fb":                 "https://example.org/site/a%2Fb",
		"/caf%C3%A9":             "https://example.org/site/caf%C3%A9",
	}
	for in, want := range cases {
		assert.Equal(t, want, Canonical(base, in), in)
	}
	assert.Equal(t, "/node/5", Canonical(nil, "/node/5"))
}

func TestRegistryResolvesURLs(t *testing.T) {
	base, _ := url.Parse("http://x/")
	reg := NewRegistry(base, map[category.Kind]item.Repository{
		category.KindContentType: stubRepo{it: &item.Item{ID: 1, Title: "Foo", CanonicalURL: "/1"}},
		category.KindVocabulary:  stubRepo{},
	})

	r, err := reg.For(category.KindContentType)
	require.NoError(t, err)
	it, err := r.FindNext(context.Background(), "articles", category.Ascending, 0)
	require.NoError(t, err)
	assert.Equal(t, "http://x/1", it.CanonicalURL)

	r, err = reg.For(category.KindVocabulary)
	require.NoError(t, err)
	_, err = r.FindFirst(context.Background(), "tags", category.Ascending)
	assert.ErrorIs(t, err, item.ErrNotFound)
}
