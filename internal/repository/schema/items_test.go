package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NordCoder/update-notifier/internal/domain/category"
)

func squash(s string) string { return strings.Join(strings.Fields(s), " ") }

func TestNextQuery_Direction(t *testing.T) {
	asc := squash(NodeTable.NextQuery(category.Ascending, Dollar))
	assert.Equal(t,
		"SELECT nid, type, status, title, path FROM nodes WHERE type = $1 AND status = 1 AND nid > $2 ORDER BY nid ASC LIMIT 1;",
		asc)

	desc := squash(TermTable.NextQuery(category.Descending, Question))
	assert.Equal(t,
		"SELECT tid, vid, status, name, path FROM taxonomy_terms WHERE vid = ? AND status = 1 AND tid < ? ORDER BY tid DESC LIMIT 1;",
		desc)
}

func TestFirstQuery_NoBound(t *testing.T) {
	q := squash(NodeTable.FirstQuery(category.Descending, Dollar))
	assert.Equal(t,
		"SELECT nid, type, status, title, path FROM nodes WHERE type = $1 AND status = 1 ORDER BY nid DESC LIMIT 1;",
		q)
}

func TestForKind(t *testing.T) {
	tbl, ok := ForKind(category.KindVocabulary)
	assert.True(t, ok)
	assert.Equal(t, "taxonomy_terms", tbl.Name)

	_, ok = ForKind("media")
	assert.False(t, ok)
}
