package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/DeborahScali/travelapp-sub000/internal/config"
	"github.com/DeborahScali/travelapp-sub000/migrations"
)

func migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate up|down|status",
		Short:     "Apply, roll back or list the embedded database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.WithStore(config.StorePostgres))
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel)

			db, err := sql.Open("pgx", cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return fmt.Errorf("ping database: %w", err)
			}

			provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
			if err != nil {
				return fmt.Errorf("create goose provider: %w", err)
			}

			switch args[0] {
			case "up":
				results, err := provider.Up(ctx)
				for _, r := range results {
					logger.Info("migration applied", "version", r.Source.Version, "path", r.Source.Path, "duration", r.Duration)
				}
				if err != nil {
					return fmt.Errorf("goose up: %w", err)
				}
				if len(results) == 0 {
					logger.Info("no pending migrations")
				}
			case "down":
				r, err := provider.Down(ctx)
				if errors.Is(err, goose.ErrNoNextVersion) {
					logger.Info("nothing to roll back")
					return nil
				}
				if err != nil {
					return fmt.Errorf("goose down: %w", err)
				}
				logger.Info("migration rolled back", "version", r.Source.Version, "path", r.Source.Path)
			case "status":
				statuses, err := provider.Status(ctx)
				if err != nil {
					return fmt.Errorf("goose status: %w", err)
				}
				for _, s := range statuses {
					fmt.Fprintf(cmd.OutOrStdout(), "%-8s %5d  %s\n", s.State, s.Source.Version, s.Source.Path)
				}
			}
			return nil
		},
	}
	return cmd
}
