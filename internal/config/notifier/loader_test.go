package notifier_config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NordCoder/update-notifier/internal/domain/category"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notifier.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const sample = `
site:
  base_url: https://example.org/
db:
  driver: sqlite
  sqlite:
    path: /tmp/n.db
schedule:
  cron_time: "06:30"
  timezone: Europe/Berlin
categories:
  - id: articles
    kind: content_type
    recipients: "a@x.test, b@x.test ,a@x.test,,"
    template: "Update: [entity-title] at [entity-url]"
  - id: tags
    kind: vocabulary
    sort_order: desc
    interval_days: 0
    recipients: [c@x.test, "d@x.test,c@x.test"]
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/n.db", cfg.DB.SQLite.Path)
	assert.Equal(t, 2*time.Second, cfg.DB.Postgres.QueryTimeout)
	assert.Equal(t, "en", cfg.Site.DefaultLanguage)

	require.Len(t, cfg.Categories, 2)
	assert.Equal(t, category.Category{
		ID:           "articles",
		Kind:         category.KindContentType,
		SortOrder:    category.Ascending,
		IntervalDays: 1,
		Recipients:   []string{"a@x.test", "b@x.test"},
		Template:     "Update: [entity-title] at [entity-url]",
	}, cfg.Categories[0])

	tags := cfg.Categories[1]
	assert.Equal(t, category.Descending, tags.SortOrder)
	assert.Equal(t, 0, tags.IntervalDays)
	assert.Equal(t, []string{"c@x.test", "d@x.test"}, tags.Recipients)

	spec, err := cfg.Schedule.CronSpec()
	require.NoError(t, err)
	assert.Equal(t, "30 6 * * *", spec)
	loc, err := cfg.Schedule.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SMTP_ADDR", "mail.test:2525")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "mail.test:2525", cfg.SMTP.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"duplicate id": `
categories:
  - {id: a, kind: content_type, recipients: x@y.test}
  - {id: a, kind: content_type, recipients: x@y.test}
`,
		"unknown kind": `
categories:
  - {id: a, kind: forum, recipients: x@y.test}
`,
		"no recipients": `
categories:
  - {id: a, kind: content_type, recipients: " , "}
`,
		"bad recipient": `
categories:
  - {id: a, kind: content_type, recipients: not-an-address}
`,
		"bad sort order": `
categories:
  - {id: a, kind: content_type, sort_order: sideways, recipients: x@y.test}
`,
		"bad cron time": `
schedule:
  cron_time: "24:00"
`,
		"bad timezone": `
schedule:
  timezone: Mars/Olympus
`,
		"bad driver": `
db:
  driver: oracle
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, h)
	assert.Equal(t, 0, m)

	h, m, err = ParseClock(" 23:59 ")
	require.NoError(t, err)
	assert.Equal(t, 23, h)
	assert.Equal(t, 59, m)

	for _, bad := range []string{"", "7", "12:60", "-1:00", "ab:cd"} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestCronSpecOverride(t *testing.T) {
	spec, err := Schedule{CronTime: "garbage", Spec: "*/5 * * * *"}.CronSpec()
	require.NoError(t, err)
	assert.Equal(t, "*/5 * * * *", spec)
}

func TestParseRecipients(t *testing.T) {
	got, err := ParseRecipients(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ParseRecipients(42)
	assert.Error(t, err)
	_, err = ParseRecipients([]any{"a@x", 1})
	assert.Error(t, err)
}
