package cli

import (
	"errors"
	"fmt"

	"immoportal/internal/domain"
	"immoportal/internal/repos"
	"immoportal/internal/services"
	"immoportal/internal/validate"

	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newUserCreateCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var in services.NewUser
	var role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Long:  "Create an account with any role. This is the way to add the first administrator to a fresh database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !domain.ValidRole(role) {
				return fmt.Errorf("invalid role %q (admin|agent|client)", role)
			}
			in.Role = domain.Role(role)
			if !validate.Password(in.Password) {
				return errors.New("password must be 8-64 characters with upper and lower case letters, a digit and a symbol")
			}

			db, err := openDB(loadConfig())
			if err != nil {
				return err
			}
			defer closeDB(db)

			users := services.NewUserStore(repos.NewProfileRepo(db))
			p, err := users.Add(background(cmd), in)
			if errors.Is(err, services.ErrEmailTaken) {
				return fmt.Errorf("an account with email %s already exists", in.Email)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", p.Role, p.Email, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleClient), "role (admin|agent|client)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
