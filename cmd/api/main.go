// Package main is the entry point for the travel planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/DeborahScali/travelapp-sub000/internal/config"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCommand runs serve when invoked without a subcommand.
func rootCommand() *cobra.Command {
	serveCmd := serveCommand()
	root := &cobra.Command{
		Use:           "travelapp",
		Short:         "Travel itinerary planner API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// Values already in the environment win over .env.
			return config.LoadDotEnv(".env")
		},
		RunE: serveCmd.RunE,
	}
	root.Flags().AddFlagSet(serveCmd.Flags())
	root.AddCommand(serveCmd, migrateCommand())
	return root
}

// loadConfig reads the environment and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var opts []config.Option
	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		opts = append(opts, config.WithPort(f.Value.String()))
	}
	if f := cmd.Flags().Lookup("store"); f != nil && f.Changed {
		opts = append(opts, config.WithStore(f.Value.String()))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the JSON logger used by every component.
// JSON handler writes machine-readable output suitable for log aggregators.
func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}
