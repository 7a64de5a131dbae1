package main

import (
	"database/sql"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/NordCoder/update-notifier/internal/repository/migrate"
)

// migrator applies the embedded Postgres migrations to DB_DSN. It exists for
// container init jobs that should not carry the full notifier config.
func main() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is empty")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := migrate.Up(db, migrate.DriverPostgres); err != nil {
		log.Fatalf("migrate up: %v", err)
	}
	v, err := migrate.Version(db, migrate.DriverPostgres)
	if err != nil {
		log.Fatalf("version: %v", err)
	}
	log.Printf("migrations: up OK (version %d)", v)
}
