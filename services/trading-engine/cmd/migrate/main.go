package main

import (
	"context"
	"flag"

	pkgconfig "github.com/thetanav/trading-system/pkg/config"
	"github.com/thetanav/trading-system/pkg/logger"
	migration "github.com/thetanav/trading-system/pkg/migration-pg"
	"github.com/thetanav/trading-system/pkg/postgresql"
	"github.com/thetanav/trading-system/services/trading-engine/migrations"
	"github.com/thetanav/trading-system/services/trading-engine/pkg/config"
)

func main() {
	var (
		direction = flag.String("direction", "up", "Migration direction: up or down")
		steps     = flag.Int("steps", 0, "Number of steps to migrate (0 = all)")
	)
	flag.Parse()

	ctx := context.Background()

	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg := &config.Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "load_config"})
		return
	}

	pgClient, err := postgresql.NewClient(ctx, cfg.Postgres.Config)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "connect_postgres"})
		return
	}
	defer pgClient.Close()

	runner := migration.NewRunner(pgClient, log, migrations.FS, migration.Config{
		Schema:    "public",
		TableName: "schema_migrations",
	})

	switch *direction {
	case "up":
		err = runner.MigrateUp(ctx, *steps)
	case "down":
		err = runner.MigrateDown(ctx, *steps)
	default:
		log.Warn("Invalid direction, use 'up' or 'down'", logger.Field{Key: "direction", Value: *direction})
		return
	}
	if err != nil {
		log.Error(err, logger.Field{Key: "direction", Value: *direction})
		return
	}

	log.Info("Migration completed successfully", logger.Field{Key: "direction", Value: *direction})
}
