package category

import (
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindContentType Kind = "content_type"
	KindVocabulary  Kind = "vocabulary"
)

func (k Kind) Valid() bool {
	return k == KindContentType || k == KindVocabulary
}

type SortOrder string

const (
	Ascending  SortOrder = "ASC"
	Descending SortOrder = "DESC"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ASC", "ASCENDING":
		return Ascending, nil
	case "DESC", "DESCENDING":
		return Descending, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

const secondsPerDay = 86400

// Category is a configured group of items sharing notification settings.
type Category struct {
	ID           string    `json:"id" yaml:"id"`
	Kind         Kind      `json:"kind" yaml:"kind"`
	SortOrder    SortOrder `json:"sort_order" yaml:"sort_order"`
	IntervalDays int       `json:"interval_days" yaml:"interval_days"`
	Recipients   []string  `json:"recipients" yaml:"recipients"`
	Template     string    `json:"template" yaml:"template"`
}

// IntervalSeconds is zero for non-positive intervals: every pass is due.
func (c Category) IntervalSeconds() int64 {
	if c.IntervalDays <= 0 {
		return 0
	}
	return int64(c.IntervalDays) * secondsPerDay
}

func (c Category) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds()) * time.Second
}

// Lister is the read side of the configuration store.
type Lister interface {
	ListCategories() []Category
}
