package migrate

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestUp_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Up(db, DriverSQLite))
	require.NoError(t, Up(db, DriverSQLite), "second run is a no-op")

	v, err := Version(db, DriverSQLite)
	require.NoError(t, err)
	assert.EqualValues(t, 2, v)

	for _, table := range []string{"notification_cursors", "nodes", "taxonomy_terms"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestUp_UnknownDriver(t *testing.T) {
	assert.Error(t, Up(nil, "oracle"))
	_, err := Version(nil, "oracle")
	assert.Error(t, err)
}
