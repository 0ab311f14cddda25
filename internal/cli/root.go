// Package cli defines the cobra command tree for immoportal.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"immoportal/internal/config"
	"immoportal/internal/repos"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var flagDB string

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "immoportal",
		Short:         "Real-estate marketplace server",
		Long:          "Property listings, role-based dashboards and account management for a real-estate agency.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagDB, "db", "", "database DSN (default: $DB_DSN or immoportal.db)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newUserCmd(),
		newVersionCmd(),
	)

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig reads the environment and applies the global flags on top.
func loadConfig() config.Config {
	cfg := config.Load()
	if flagDB != "" {
		cfg.DBDSN = flagDB
	}
	return cfg
}

// teeLog copies the standard logger to path in addition to stdout.
func teeLog(path string) io.Closer {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("[warn] could not open log file %s: %v", path, err)
		return nil
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
	return f
}

// openDB opens and migrates the configured database.
func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// closeDB closes the database, logging any error to stderr.
func closeDB(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
