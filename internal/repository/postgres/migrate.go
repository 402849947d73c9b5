package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const prefixPlaceholder = "{{prefix}}"

// Migration is one embedded schema step
type Migration struct {
	Version int
	Name    string
	UpSQL   string
}

// LoadMigrations reads the embedded migrations with the table prefix applied,
// ordered by version.
func LoadMigrations(prefix string) ([]Migration, error) {
	files, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}
	var migrations []Migration
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".sql") {
			continue
		}
		data, err := migrationsFS.ReadFile("migrations/" + f.Name())
		if err != nil {
			return nil, err
		}
		var v int
		if _, err := fmt.Sscanf(f.Name(), "%d_", &v); err != nil {
			return nil, fmt.Errorf("invalid migration filename %s: %w", f.Name(), err)
		}
		migrations = append(migrations, Migration{
			Version: v,
			Name:    f.Name(),
			UpSQL:   strings.ReplaceAll(string(data), prefixPlaceholder, prefix),
		})
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// Migrate applies pending embedded migrations in one transaction
func Migrate(ctx context.Context, pool *pgxpool.Pool, prefix string, logger *slog.Logger) error {
	tables := NewTableNames(prefix)
	migrations, err := LoadMigrations(prefix)
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (version INTEGER NOT NULL)`, tables.Schema)); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var current int
	err = tx.QueryRow(ctx, fmt.Sprintf(`SELECT version FROM %s LIMIT 1 FOR UPDATE`, tables.Schema)).Scan(&current)
	if err == pgx.ErrNoRows {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`INSERT INTO %s (version) VALUES (0)`, tables.Schema)); err != nil {
			return fmt.Errorf("init schema_version: %w", err)
		}
		current = 0
	} else if err != nil {
		return fmt.Errorf("read schema_version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if _, err := tx.Exec(ctx, m.UpSQL); err != nil {
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		if _, err := tx.Exec(ctx, fmt.Sprintf(`UPDATE %s SET version = $1`, tables.Schema), m.Version); err != nil {
			return fmt.Errorf("update schema_version: %w", err)
		}
		logger.Info("migration applied", "name", m.Name, "version", m.Version)
		current = m.Version
	}

	return tx.Commit(ctx)
}
