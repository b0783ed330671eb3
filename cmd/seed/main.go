package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tracker/internal/cache"
	"tracker/internal/config"
	"tracker/internal/db"
	"tracker/internal/logging"
	"tracker/internal/repository"
	"tracker/internal/seed"
	"tracker/internal/service"
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample users, projects, sprints and stories",
	Long: `Seed creates a small sample dataset in the configured database.
It does nothing when users already exist unless --reset is given.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		reset, _ := cmd.Flags().GetBool("reset")
		return run(cmd.Context(), reset)
	},
}

func init() {
	rootCmd.Flags().Bool("reset", false, "Drop all tables before seeding")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN, logger, cfg.LogLevel)
	if err != nil {
		return err
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}

	if reset || cfg.ResetDB {
		logger.Warn("dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, "tracker")
	defer cacheClient.Close()

	store := repository.NewStore(gormDB)
	seeder := seed.New(
		store,
		service.NewProjectService(store, cacheClient),
		service.NewSprintService(store),
		service.NewStoryService(store, service.NewTicketNumberer()),
		logger,
	)

	res, err := seeder.Run(ctx)
	if err != nil {
		return err
	}
	if res.Skipped {
		fmt.Println("Sample data already exists, skipping.")
		return nil
	}

	logger.Info("seed completed",
		slog.Int("users", res.Users),
		slog.Int("projects", res.Projects),
		slog.Int("sprints", res.Sprints),
		slog.Int("stories", res.Stories),
	)
	fmt.Println("Sample users:")
	for _, line := range seed.Credentials() {
		fmt.Println("  - " + line)
	}
	return nil
}
