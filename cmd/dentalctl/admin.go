package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/dental-admin/internal/model"
	authservice "github.com/jwalitptl/dental-admin/internal/service/auth"
	"github.com/jwalitptl/dental-admin/pkg/security"
	"github.com/jwalitptl/dental-admin/pkg/validator"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Database.Driver == "memory" {
				fmt.Fprintln(cmd.OutOrStdout(), "Memory store has no schema; nothing to do.")
				return nil
			}

			_, closeStore, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			closeStore()

			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
			return nil
		},
	}
}

func userCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage staff accounts",
	}

	var req model.CreateUserRequest
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a staff account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Database.Driver == "memory" {
				return fmt.Errorf("accounts in the memory store do not outlive this command")
			}

			ctx := cmd.Context()

			store, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			svc := authservice.NewService(
				store.Users(),
				security.NewBcryptHasher(bcrypt.DefaultCost),
				validator.New(),
				nil,
			)
			user, err := svc.CreateUser(ctx, req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d, role %s)\n", user.Username, user.ID, user.Role)
			return nil
		},
	}
	addCmd.Flags().StringVar(&req.Username, "username", "", "Login name")
	addCmd.Flags().StringVar(&req.Password, "password", "", "Password (at least 8 characters)")
	addCmd.Flags().StringVar(&req.Name, "name", "", "Display name")
	addCmd.Flags().StringVar(&req.Role, "role", model.RoleStaff, "Role: admin or staff")
	_ = addCmd.MarkFlagRequired("username")
	_ = addCmd.MarkFlagRequired("password")
	cmd.AddCommand(addCmd)

	return cmd
}
