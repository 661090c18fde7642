// Package main реализует утилиту миграций схемы сервиса заметок.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sharenote/internal/config"
	"sharenote/migrations"
	"sharenote/pkg/db/postgres"
	"sharenote/pkg/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newMigrator читает конфигурацию и открывает migrator. Вызывающий должен закрыть его.
func newMigrator(ctx context.Context) (*postgres.Migrator, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	src, err := migrations.Source()
	if err != nil {
		return nil, err
	}

	return postgres.NewMigrator(ctx, migrations.SourceName, src, cfg.Postgres.GetConnectionURL())
}

func withMigrator(cmd *cobra.Command, fn func(ctx context.Context, mg *postgres.Migrator) error) error {
	ctx := logger.NewRequestIDContext(cmd.Context(), "")

	mg, err := newMigrator(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := mg.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close migrator: %v\n", err)
		}
	}()

	return fn(ctx, mg)
}

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Manage the notes database schema",
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(cmd, func(ctx context.Context, mg *postgres.Migrator) error {
			return mg.Up(ctx)
		})
	},
}

var downSteps int

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if downSteps <= 0 {
			return fmt.Errorf("steps must be positive, got %d", downSteps)
		}
		return withMigrator(cmd, func(ctx context.Context, mg *postgres.Migrator) error {
			return mg.Down(ctx, downSteps)
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(cmd, func(_ context.Context, mg *postgres.Migrator) error {
			version, dirty, err := mg.Version()
			if err != nil {
				return err
			}

			src, err := migrations.Source()
			if err != nil {
				return err
			}
			latest, err := migrations.LatestVersion(src)
			if err != nil {
				return err
			}

			fmt.Printf("Version: %d\n", version)
			fmt.Printf("Latest:  %d\n", latest)
			fmt.Printf("Dirty:   %t\n", dirty)
			return nil
		})
	},
}

func init() {
	downCmd.Flags().IntVarP(&downSteps, "steps", "n", 1, "number of migrations to roll back")

	rootCmd.AddCommand(upCmd, downCmd, versionCmd)
}
