package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"immoportal/internal/repos"
	"immoportal/internal/server"
	"immoportal/internal/services"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string
	var noSeed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long:  "Open the database, apply migrations, seed demo data when enabled, and serve the web UI and JSON API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if port != "" {
				cfg.Port = port
			}
			if noSeed {
				cfg.SeedDemo = false
			}
			if f := teeLog(cfg.LogFile); f != nil {
				defer f.Close()
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			ctx, stop := signal.NotifyContext(background(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.SeedDemo {
				if err := repos.Seed(ctx, db, services.HashPassword); err != nil {
					return err
				}
			}
			return server.New(cfg, db).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "port to listen on (default: $PORT or 8080)")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "skip demo data even when SEED_DEMO is set")

	return cmd
}

// background is used when a command runs without a cobra context.
func background(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
