// Package migrate applies the embedded goose migrations.
package migrate

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/NordCoder/update-notifier/migrations"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// goose keeps dialect and filesystem in package state.
var mu sync.Mutex

func dialect(driver string) (string, error) {
	switch driver {
	case DriverPostgres:
		return "postgres", nil
	case DriverSQLite:
		return "sqlite3", nil
	}
	return "", fmt.Errorf("unknown db driver %q", driver)
}

// Up migrates db to the latest version for the given driver.
func Up(db *sql.DB, driver string) error {
	d, err := dialect(driver)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(d); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, driver); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Version reports the applied schema version.
func Version(db *sql.DB, driver string) (int64, error) {
	d, err := dialect(driver)
	if err != nil {
		return 0, err
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(d); err != nil {
		return 0, fmt.Errorf("set dialect: %w", err)
	}
	return goose.GetDBVersion(db)
}
