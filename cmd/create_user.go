package main

import (
	"errors"
	"fmt"

	"user_service/internal/repository"
	"user_service/internal/service"

	"github.com/spf13/cobra"
)

// NewCreateUserCmd creates the create-user subcommand. Every HTTP route that
// creates users needs a token, so the first account comes from here.
func NewCreateUserCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user account directly in the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" || email == "" || password == "" {
				return errors.New("--name, --email and --password are required")
			}

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			conn, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			defer closeDB(conn, log)

			users := service.NewUserService(repository.NewUserRepository(conn))
			u, err := users.Create(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			log.Infow("user_created", "id", u.ID, "email", u.Email)
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %d (%s)\n", u.ID, u.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	return cmd
}
