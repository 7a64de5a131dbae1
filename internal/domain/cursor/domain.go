package cursor

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("cursor not found")

// Cursor points at the item last notified for a category and when.
type Cursor struct {
	CategoryID    string `json:"category_id"`
	LastItemID    *int64 `json:"last_item_id"`
	LastTimestamp *int64 `json:"last_timestamp"` // epoch seconds
}

// Positioned reports whether both the item id and the timestamp are recorded.
func (c *Cursor) Positioned() bool {
	return c != nil && c.LastItemID != nil && c.LastTimestamp != nil
}

func (c *Cursor) LastNotifiedAt() time.Time {
	if c == nil || c.LastTimestamp == nil {
		return time.Time{}
	}
	return time.Unix(*c.LastTimestamp, 0).UTC()
}
