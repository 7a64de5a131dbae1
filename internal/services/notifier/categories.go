package notifier

import (
	"sync/atomic"

	"github.com/NordCoder/update-notifier/internal/domain/category"
)

var _ category.Lister = (*Store)(nil)

// Store holds the live category list. A reload swaps the whole list, so a
// running pass keeps the snapshot it started with.
type Store struct {
	cats atomic.Pointer[[]category.Category]
}

func NewStore(cats []category.Category) *Store {
	s := &Store{}
	s.Replace(cats)
	return s
}

func (s *Store) ListCategories() []category.Category {
	p := s.cats.Load()
	if p == nil {
		return nil
	}
	return *p
}

func (s *Store) Replace(cats []category.Category) {
	cp := make([]category.Category, len(cats))
	copy(cp, cats)
	s.cats.Store(&cp)
}

func (s *Store) IDs() []string {
	cats := s.ListCategories()
	ids := make([]string, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	return ids
}
