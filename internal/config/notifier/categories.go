package notifier_config

import (
	"fmt"
	"strings"

	"github.com/NordCoder/update-notifier/internal/domain/category"
)

const DefaultIntervalDays = 1

// ParseRecipients accepts a comma-separated string or a list. Entries are
// trimmed, empties dropped and duplicates removed keeping first occurrence.
func ParseRecipients(v any) ([]string, error) {
	var raw []string
	switch t := v.(type) {
	case nil:
	case string:
		raw = strings.Split(t, ",")
	case []string:
		raw = t
	case []any:
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("recipient %v is not a string", e)
			}
			raw = append(raw, strings.Split(s, ",")...)
		}
	default:
		return nil, fmt.Errorf("unsupported recipients type %T", v)
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out, nil
}

func (c CategoryCfg) Category() (category.Category, error) {
	order, err := category.ParseSortOrder(c.SortOrder)
	if err != nil {
		return category.Category{}, err
	}
	recipients, err := ParseRecipients(c.Recipients)
	if err != nil {
		return category.Category{}, err
	}
	days := DefaultIntervalDays
	if c.IntervalDays != nil {
		days = *c.IntervalDays
	}
	return category.Category{
		ID:           strings.TrimSpace(c.ID),
		Kind:         category.Kind(strings.TrimSpace(c.Kind)),
		SortOrder:    order,
		IntervalDays: days,
		Recipients:   recipients,
		Template:     c.Template,
	}, nil
}
