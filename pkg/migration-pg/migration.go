package migrationpg

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/thetanav/trading-system/pkg/errors"
	"github.com/thetanav/trading-system/pkg/logger"
	"github.com/thetanav/trading-system/pkg/postgresql"
)

// Migration represents a database migration
type Migration struct {
	ID      string
	Name    string
	UpSQL   string
	DownSQL string
}

// Runner applies and reverts migrations read from a filesystem.
type Runner struct {
	client    postgresql.PostgreSQLClient
	logger    logger.Interface
	source    fs.FS
	schema    string
	tableName string
}

// Config for migration runner
type Config struct {
	Schema    string // PostgreSQL schema name (default: "public")
	TableName string // Migration table name (default: "schema_migrations")
}

// NewRunner creates a migration runner reading <id>.up.sql and <id>.down.sql files from source.
func NewRunner(client postgresql.PostgreSQLClient, log logger.Interface, source fs.FS, config Config) *Runner {
	if config.Schema == "" {
		config.Schema = "public"
	}
	if config.TableName == "" {
		config.TableName = "schema_migrations"
	}

	return &Runner{
		client:    client,
		logger:    log,
		source:    source,
		schema:    config.Schema,
		tableName: config.TableName,
	}
}

func (r *Runner) table() string {
	return r.schema + "." + r.tableName
}

// EnsureMigrationTable creates the migration bookkeeping table if it doesn't exist
func (r *Runner) EnsureMigrationTable(ctx context.Context) error {
	_, err := r.client.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`, r.table()))
	if err != nil {
		return errors.NewTracer("failed to create migration table").Wrap(err)
	}
	return nil
}

// AppliedMigrations returns the set of applied migration IDs
func (r *Runner) AppliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := r.client.Query(ctx, fmt.Sprintf("SELECT id FROM %s ORDER BY applied_at", r.table()))
	if err != nil {
		return nil, errors.NewTracer("failed to read applied migrations").Wrap(err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		applied[id] = true
	}

	return applied, rows.Err()
}

// LoadMigrations reads every *.up.sql file and its optional *.down.sql pair, ordered by ID.
func (r *Runner) LoadMigrations() ([]Migration, error) {
	upFiles, err := fs.Glob(r.source, "*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(upFiles)

	migrations := make([]Migration, 0, len(upFiles))
	for _, upFile := range upFiles {
		upContent, err := fs.ReadFile(r.source, upFile)
		if err != nil {
			return nil, errors.NewTracerf("failed to read migration %s", upFile).Wrap(err)
		}

		id := strings.TrimSuffix(path.Base(upFile), ".up.sql")
		name := id
		if _, rest, ok := strings.Cut(id, "_"); ok {
			name = rest
		}

		var downSQL string
		if downContent, err := fs.ReadFile(r.source, strings.TrimSuffix(upFile, ".up.sql")+".down.sql"); err == nil {
			downSQL = strings.TrimSpace(string(downContent))
		}

		migrations = append(migrations, Migration{
			ID:      id,
			Name:    name,
			UpSQL:   strings.TrimSpace(string(upContent)),
			DownSQL: downSQL,
		})
	}

	return migrations, nil
}

// MigrateUp applies pending migrations. steps <= 0 applies all of them.
func (r *Runner) MigrateUp(ctx context.Context, steps int) error {
	if err := r.EnsureMigrationTable(ctx); err != nil {
		return err
	}

	migrations, err := r.LoadMigrations()
	if err != nil {
		return err
	}

	applied, err := r.AppliedMigrations(ctx)
	if err != nil {
		return err
	}

	var toApply []Migration
	for _, migration := range migrations {
		if !applied[migration.ID] {
			toApply = append(toApply, migration)
		}
	}

	if steps > 0 && len(toApply) > steps {
		toApply = toApply[:steps]
	}

	for _, migration := range toApply {
		if migration.UpSQL == "" {
			r.logger.Warn("Skipping empty migration", logger.NewField("migration", migration.ID))
			continue
		}

		err := postgresql.WithTx(ctx, r.client, func(txCtx context.Context) error {
			if _, err := r.client.Exec(txCtx, migration.UpSQL); err != nil {
				return err
			}
			_, err := r.client.Exec(txCtx,
				fmt.Sprintf("INSERT INTO %s (id, name, applied_at) VALUES ($1, $2, NOW())", r.table()),
				migration.ID, migration.Name,
			)
			return err
		})
		if err != nil {
			return errors.NewTracerf("failed to apply migration %s", migration.ID).Wrap(err)
		}

		r.logger.Info("Applied migration", logger.NewField("migration", migration.ID))
	}

	return nil
}

// MigrateDown reverts the last steps applied migrations.
func (r *Runner) MigrateDown(ctx context.Context, steps int) error {
	if steps <= 0 {
		return errors.NewErrorDetails("steps must be greater than 0 for down migrations", string(errors.GeneralBadRequestError), "steps")
	}

	migrations, err := r.LoadMigrations()
	if err != nil {
		return err
	}

	applied, err := r.AppliedMigrations(ctx)
	if err != nil {
		return err
	}

	var toRevert []Migration
	for i := len(migrations) - 1; i >= 0 && len(toRevert) < steps; i-- {
		if applied[migrations[i].ID] {
			toRevert = append(toRevert, migrations[i])
		}
	}

	for _, migration := range toRevert {
		if migration.DownSQL == "" {
			return errors.NewTracerf("no down migration for %s", migration.ID).Wrap(
				errors.NewErrorDetails("cannot revert", string(errors.GeneralBadRequestError), "steps"),
			)
		}

		err := postgresql.WithTx(ctx, r.client, func(txCtx context.Context) error {
			if _, err := r.client.Exec(txCtx, migration.DownSQL); err != nil {
				return err
			}
			_, err := r.client.Exec(txCtx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table()), migration.ID)
			return err
		})
		if err != nil {
			return errors.NewTracerf("failed to revert migration %s", migration.ID).Wrap(err)
		}

		r.logger.Info("Reverted migration", logger.NewField("migration", migration.ID))
	}

	return nil
}
