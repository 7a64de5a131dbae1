package item

import "errors"

var ErrNotFound = errors.New("item not found")

type Item struct {
	ID           int64  `json:"id"`
	CategoryID   string `json:"category_id"`
	Published    bool   `json:"published"`
	Title        string `json:"title"`
	CanonicalURL string `json:"url"`
}
