// Package migrate applies embedded SQL migrations on startup.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/and161185/task-keeper/migrations"
)

// Supported dialect names. They double as the migration directory names.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

var dialects = map[string]goose.Dialect{
	Postgres: goose.DialectPostgres,
	SQLite:   goose.DialectSQLite3,
}

// Up runs all pending migrations for dialect against db.
func Up(ctx context.Context, db *sql.DB, dialect string, log *zap.Logger) error {
	d, ok := dialects[dialect]
	if !ok {
		return fmt.Errorf("migrate: unknown dialect %q", dialect)
	}
	sub, err := fs.Sub(migrations.FS, dialect)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	p, err := goose.NewProvider(d, db, sub)
	if err != nil {
		return fmt.Errorf("migrate: provider: %w", err)
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate: up: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	for _, r := range results {
		log.Info("migration applied",
			zap.String("dialect", dialect),
			zap.Int64("version", r.Source.Version),
			zap.Duration("took", r.Duration))
	}
	return nil
}
