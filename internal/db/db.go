// internal/db/db.go
//
// Database helpers for the Word Scramble server.
// Responsibilities:
//   - Opening SQLite database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations (idempotent, recorded in _migrations).

package db

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens (and creates if missing) a SQLite database file.
//
//   - Ensures parent directory exists for relative DSNs (e.g. ./data/app.db).
//   - Configures busy timeout and WAL journaling mode.
//   - Enforces foreign keys.
func Open(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// Migrate applies embedded SQL migrations in lexical order.
//
//   - Uses a _migrations table to track applied files.
//   - Skips files already applied.
//   - Scripts that manage their own transaction (BEGIN TRANSACTION or
//     PRAGMA FOREIGN_KEYS=OFF) run outside of an outer transaction.
func Migrate(db *sql.DB) error {
	return migrate(db, migrations)
}

func migrate(db *sql.DB, fsys fs.FS) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		sqlText := string(sqlBytes)

		upper := strings.ToUpper(sqlText)
		selfManaged := strings.Contains(upper, "BEGIN TRANSACTION") ||
			strings.Contains(upper, "PRAGMA FOREIGN_KEYS=OFF") ||
			strings.Contains(upper, "PRAGMA FOREIGN_KEYS = OFF")

		if selfManaged {
			if _, err := db.Exec(sqlText); err != nil {
				return fmt.Errorf("apply %s: %w", f, err)
			}
			if _, err := db.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
				return fmt.Errorf("record %s: %w", f, err)
			}
			log.Info().Str("migration", f).Msg("applied (self-managed)")
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(sqlText); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}
