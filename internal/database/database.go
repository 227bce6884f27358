// Package database owns the PostgreSQL side of the catalog: it opens the
// pgx connection pool and brings the schema up to date from the goose
// migrations embedded next to this file. Seeding of the initial admin
// account and demo catalog lives in seed.go.
package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// migrationsDir is the embedded directory goose reads migrations from.
const migrationsDir = "migrations"

//go:embed migrations
var migrationsFS embed.FS

// Connect opens a pgx-backed *sql.DB for the given DSN and pings it, so
// callers fail fast on a bad DSN instead of at the first query.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("database connected")
	return db, nil
}

// Migrate applies any pending schema migrations. The SQL files are
// compiled into the binary, so deployment needs no migrations directory
// on disk.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	slog.Info("database migrations applied")
	return nil
}
