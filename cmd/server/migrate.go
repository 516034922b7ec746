package main

import (
	"context"
	"database/sql"
	"time"

	"careerpath/internal/database/migration"
	"careerpath/internal/pkg/logger"
	"careerpath/migrations"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, err := connectDB(cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		n, err := applyMigrations(ctx, db.SQLDB(), log)
		if err != nil {
			return err
		}
		log.Info("migrations applied", zap.Int("count", n))
		return nil
	},
}

func applyMigrations(ctx context.Context, db *sql.DB, log *zap.Logger) (int, error) {
	r := migration.Runner{FS: migrations.FS, Logger: logger.Component(log, "migration")}
	return r.Run(ctx, db)
}
