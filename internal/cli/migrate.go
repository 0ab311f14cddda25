package cli

import (
	"fmt"

	"immoportal/internal/repos"
	"immoportal/internal/services"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  "Apply pending schema migrations, optionally inserting the demo profiles and listings into an empty database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			if seed {
				if err := repos.Seed(background(cmd), db, services.HashPassword); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "database %s is up to date\n", repos.Driver(cfg.DBDSN))
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "insert demo data when the database is empty")

	return cmd
}
