package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"careerpath/internal/config"
	dbpostgres "careerpath/internal/database/postgres"
	"careerpath/internal/onet"
	"careerpath/internal/pkg/logger"
	"careerpath/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile  string
	importDir   string
	enrichLimit int
)

var rootCmd = &cobra.Command{
	Use:           "onet",
	Short:         "Load and enrich the O*NET occupation database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import an O*NET text release directory",
	Long: `Import reads Occupation Data.txt, Interests.txt, Skills.txt, Work Styles.txt
and Job Zones.txt from --dir and upserts them. Re-running with the same release
is a no-op apart from refreshed timestamps.`,
	RunE: runImport,
}

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fetch descriptions and sample titles from O*NET OnLine",
	RunE:  runEnrich,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Optional config file; environment variables win")

	importCmd.Flags().StringVar(&importDir, "dir", "", "Directory holding the O*NET text files")
	_ = importCmd.MarkFlagRequired("dir")

	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 50, "Maximum occupations to enrich in this run")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(enrichCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runImport(cmd *cobra.Command, _ []string) error {
	dir := strings.TrimSpace(importDir)
	if dir == "" {
		return fmt.Errorf("--dir is required")
	}

	return withRepository(func(log *zap.Logger, _ config.Config, repo *repository.PostgresOccupationRepository) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
		defer cancel()

		summary, err := onet.NewImporter(repo, logger.Component(log, "onet-import")).Import(ctx, dir)
		if err != nil {
			return err
		}
		return printJSON(summary)
	})
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	if enrichLimit <= 0 {
		return fmt.Errorf("--limit must be positive")
	}

	return withRepository(func(log *zap.Logger, cfg config.Config, repo *repository.PostgresOccupationRepository) error {
		summary, err := onet.NewEnricher(repo, cfg.Onet, logger.Component(log, "onet-enrich")).Run(cmd.Context(), enrichLimit)
		if err != nil {
			return err
		}
		return printJSON(summary)
	})
}

func withRepository(fn func(*zap.Logger, config.Config, *repository.PostgresOccupationRepository) error) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.App.IsDevelopment())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := dbpostgres.Connect(ctx, cfg.Database, logger.Component(log, "postgres"))
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return fn(log, cfg, repository.NewPostgresOccupationRepository(db))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
