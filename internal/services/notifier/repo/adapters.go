package repo

import (
	"context"
	"net/url"
	"strings"

	"github.com/NordCoder/update-notifier/internal/domain/category"
	"github.com/NordCoder/update-notifier/internal/domain/item"
)

var _ item.Repository = ItemReader{}

// ItemReader turns the stored item path into an absolute canonical URL.
type ItemReader struct {
	R    item.Repository
	Base *url.URL
}

func (a ItemReader) FindFirst(ctx context.Context, categoryID string, order category.SortOrder) (*item.Item, error) {
	it, err := a.R.FindFirst(ctx, categoryID, order)
	if err != nil {
		return nil, err
	}
	return a.resolve(it), nil
}

func (a ItemReader) FindNext(ctx context.Context, categoryID string, order category.SortOrder, afterID int64) (*item.Item, error) {
	it, err := a.R.FindNext(ctx, categoryID, order, afterID)
	if err != nil {
		return nil, err
	}
	return a.resolve(it), nil
}

func (a ItemReader) resolve(it *item.Item) *item.Item {
	it.CanonicalURL = Canonical(a.Base, it.CanonicalURL)
	return it
}

// Canonical resolves path against base. Absolute inputs are returned as is.
func Canonical(base *url.URL, path string) string {
	path = strings.TrimSpace(path)
	ref, err := url.Parse(path)
	if err != nil || ref.IsAbs() || base == nil {
		return path
	}
	if !strings.HasSuffix(base.Path, "/") {
		b := *base
		b.Path += "/"
		if b.RawPath != "" {
			b.RawPath += "/"
		}
		base = &b
	}
	if ref.Host == "" {
		// Relative to the site root, not the host root; Path and RawPath
		// move together so escapes such as %2F survive.
		cp := *ref
		cp.Path = strings.TrimPrefix(cp.Path, "/")
		cp.RawPath = strings.TrimPrefix(cp.RawPath, "/")
		ref = &cp
	}
	return base.ResolveReference(ref).String()
}

// NewRegistry wraps each kind's repository with URL resolution.
func NewRegistry(base *url.URL, byKind map[category.Kind]item.Repository) item.Registry {
	reg := make(item.Registry, len(byKind))
	for k, r := range byKind {
		reg[k] = ItemReader{R: r, Base: base}
	}
	return reg
}
