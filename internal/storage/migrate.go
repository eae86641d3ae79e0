package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TEXT NOT NULL
)`

type migration struct {
	version int
	name    string
	up      string
	down    string
}

// MigrateUp applies every migration not yet recorded in schema_migrations.
// The kv persister and the task repository may share one file; whichever
// opens it first creates the schema.
func MigrateUp(db *sql.DB) error {
	all, err := loadMigrations()
	if err != nil {
		return err
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}
	for _, m := range all {
		if slices.Contains(applied, m.version) {
			continue
		}
		err := inTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.up); err != nil {
				return err
			}
			_, err := tx.Exec(`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
				m.version, m.name, time.Now().UTC().Format(time.RFC3339))
			return err
		})
		if err != nil {
			return fmt.Errorf("storage: migrate up %s: %w", m.name, err)
		}
	}
	return nil
}

// MigrateDown reverts applied migrations, newest first.
func MigrateDown(db *sql.DB) error {
	all, err := loadMigrations()
	if err != nil {
		return err
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}
	for _, m := range slices.Backward(all) {
		if !slices.Contains(applied, m.version) {
			continue
		}
		err := inTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.down); err != nil {
				return err
			}
			_, err := tx.Exec(`DELETE FROM schema_migrations WHERE version = ?`, m.version)
			return err
		})
		if err != nil {
			return fmt.Errorf("storage: migrate down %s: %w", m.name, err)
		}
	}
	return nil
}

// AppliedMigrations lists recorded schema versions in ascending order.
func AppliedMigrations(db *sql.DB) ([]int, error) {
	return appliedVersions(db)
}

func appliedVersions(db *sql.DB) ([]int, error) {
	if _, err := db.Exec(createVersionTable); err != nil {
		return nil, fmt.Errorf("storage: create schema_migrations: %w", err)
	}
	rows, err := db.Query(`SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("storage: read schema_migrations: %w", err)
	}
	defer rows.Close()
	out := make([]int, 0)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("storage: scan schema version: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// loadMigrations pairs NNNN_name.up.sql with NNNN_name.down.sql, ordered
// by version.
func loadMigrations() ([]migration, error) {
	ups, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("storage: list migrations: %w", err)
	}
	out := make([]migration, 0, len(ups))
	for _, upPath := range ups {
		name := strings.TrimSuffix(path.Base(upPath), ".up.sql")
		prefix, _, ok := strings.Cut(name, "_")
		version, convErr := strconv.Atoi(prefix)
		if !ok || convErr != nil {
			return nil, fmt.Errorf("storage: migration %s has no numeric version", upPath)
		}
		up, err := migrationFiles.ReadFile(upPath)
		if err != nil {
			return nil, fmt.Errorf("storage: read %s: %w", upPath, err)
		}
		down, err := migrationFiles.ReadFile(path.Join("migrations", name+".down.sql"))
		if err != nil {
			return nil, fmt.Errorf("storage: migration %s has no down file: %w", name, err)
		}
		out = append(out, migration{version: version, name: name, up: string(up), down: string(down)})
	}
	slices.SortFunc(out, func(a, b migration) int { return a.version - b.version })
	return out, nil
}

func inTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
