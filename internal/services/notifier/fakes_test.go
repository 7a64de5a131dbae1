package notifier

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/NordCoder/update-notifier/internal/domain/category"
	"github.com/NordCoder/update-notifier/internal/domain/cursor"
	"github.com/NordCoder/update-notifier/internal/domain/item"
)

type memCursors struct {
	mu      sync.Mutex
	rows    map[string]*cursor.Cursor
	getErr  error
	upErr   error
	upserts int
}

func newMemCursors() *memCursors { return &memCursors{rows: map[string]*cursor.Cursor{}} }

func (m *memCursors) Get(_ context.Context, id string) (*cursor.Cursor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	c, ok := m.rows[id]
	if !ok {
		return nil, cursor.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCursors) Upsert(ctx context.Context, id string, itemID, ts int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upErr != nil {
		return m.upErr
	}
	// Behave like a database driver and refuse cancelled contexts.
	if err := ctx.Err(); err != nil {
		return err
	}
	m.upserts++
	m.rows[id] = &cursor.Cursor{CategoryID: id, LastItemID: &itemID, LastTimestamp: &ts}
	return nil
}

func (m *memCursors) DeleteForCategories(_ context.Context, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := m.rows[id]; ok {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

func (m *memCursors) List(context.Context) ([]*cursor.Cursor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*cursor.Cursor, 0, len(m.rows))
	for _, c := range m.rows {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryID < out[j].CategoryID })
	return out, nil
}

func (m *memCursors) at(id string) (int64, int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return 0, 0, false
	}
	return *c.LastItemID, *c.LastTimestamp, true
}

// memItems walks items by id the way the SQL repositories do.
type memItems struct {
	items []item.Item
	err   error
}

func (m *memItems) add(cat string, published bool, ids ...int64) *memItems {
	for _, id := range ids {
		m.items = append(m.items, item.Item{ID: id, CategoryID: cat, Published: published, Title: "item"})
	}
	return m
}

func (m *memItems) walk(cat string, order category.SortOrder, after *int64) (*item.Item, error) {
	if m.err != nil {
		return nil, m.err
	}
	var best *item.Item
	for i := range m.items {
		it := &m.items[i]
		if it.CategoryID != cat || !it.Published {
			continue
		}
		if order == category.Descending {
			if after != nil && it.ID >= *after {
				continue
			}
			if best == nil || it.ID > best.ID {
				best = it
			}
		} else {
			if after != nil && it.ID <= *after {
				continue
			}
			if best == nil || it.ID < best.ID {
				best = it
			}
		}
	}
	if best == nil {
		return nil, item.ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (m *memItems) FindFirst(_ context.Context, cat string, order category.SortOrder) (*item.Item, error) {
	return m.walk(cat, order, nil)
}

func (m *memItems) FindNext(_ context.Context, cat string, order category.SortOrder, afterID int64) (*item.Item, error) {
	return m.walk(cat, order, &afterID)
}

type sentMail struct {
	To, Subject, Body, Lang string
}

type fakeSender struct {
	mu     sync.Mutex
	fail   map[string]error
	sent   []sentMail
	onSend func()
}

func (f *fakeSender) Send(_ context.Context, to, subject, body, lang string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body, Lang: lang})
	if f.onSend != nil {
		f.onSend()
	}
	if err := f.fail[to]; err != nil {
		return err
	}
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var errBoom = errors.New("boom")
