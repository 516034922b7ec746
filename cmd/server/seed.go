package main

import (
	"context"
	"time"

	"careerpath/internal/database/seeder"
	"careerpath/internal/pkg/logger"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed reference data and the admin account",
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

		r := seeder.Runner{Seeders: seeder.Defaults(cfg.Seed), Logger: logger.Component(log, "seeder")}
		return r.Run(ctx, db)
	},
}
