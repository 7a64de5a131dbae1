package notifier_config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/emersion/go-message/mail"
	"github.com/robfig/cron/v3"

	"github.com/NordCoder/update-notifier/internal/domain/category"
)

var ErrInvalid = errors.New("invalid config")

// Validate reports every problem at once, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.Postgres.DSN == "" {
			add("db.postgres.dsn is required")
		}
	case DriverSQLite:
		if c.DB.SQLite.Path == "" {
			add("db.sqlite.path is required")
		}
	default:
		add("db.driver %q: want %s or %s", c.DB.Driver, DriverPostgres, DriverSQLite)
	}

	if spec, err := c.Schedule.CronSpec(); err != nil {
		errs = append(errs, err)
	} else if _, err := cron.ParseStandard(spec); err != nil {
		add("schedule.spec %q: %w", spec, err)
	}
	if _, err := c.Schedule.Location(); err != nil {
		errs = append(errs, err)
	}

	if u, err := url.Parse(c.Site.BaseURL); err != nil || !u.IsAbs() {
		add("site.base_url %q must be an absolute URL", c.Site.BaseURL)
	}
	if _, err := mail.ParseAddress(c.SMTP.From); err != nil {
		add("smtp.from %q: %w", c.SMTP.From, err)
	}
	if c.Events.Enable && (len(c.Events.Brokers) == 0 || c.Events.Topic == "") {
		add("events: brokers and topic are required when enabled")
	}

	seen := make(map[string]struct{}, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.ID == "" {
			add("categories[%d]: id is required", i)
			continue
		}
		if _, dup := seen[cat.ID]; dup {
			add("categories[%d]: duplicate id %q", i, cat.ID)
		}
		seen[cat.ID] = struct{}{}
		if !cat.Kind.Valid() {
			add("category %q: kind %q: want %s or %s", cat.ID, cat.Kind, category.KindContentType, category.KindVocabulary)
		}
		if len(cat.Recipients) == 0 {
			add("category %q: at least one recipient is required", cat.ID)
		}
		for _, r := range cat.Recipients {
			if _, err := mail.ParseAddress(r); err != nil {
				add("category %q: recipient %q: %w", cat.ID, r, err)
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}
