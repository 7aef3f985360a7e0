package cmd

import (
	"ReferralHub/internal/adapters/postgres"
	"ReferralHub/internal/core/domain"
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var userFlags struct {
	name       string
	email      string
	role       string
	telegramID int64
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user with zero balances in every currency",
	Example: `  referralhub user create --name "Ops Admin" --email ops@example.com --role admin --telegram-id 123456789
  referralhub user create --name "Sales Rep" --email rep@example.com --role employee`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}

		role, err := domain.ParseRole(userFlags.role)
		if err != nil {
			return err
		}
		var telegramID *int64
		if cmd.Flags().Changed("telegram-id") {
			telegramID = &userFlags.telegramID
		}
		user, err := domain.NewUser(userFlags.name, userFlags.email, role, telegramID)
		if err != nil {
			return err
		}

		ctx := context.Background()
		db, err := postgres.NewDB(ctx, cfg.Postgres.URL, 2, &log)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgres.NewUserRepository(db, &log).Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.Role, user.ID, user.Email)
		return nil
	},
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVar(&userFlags.name, "name", "", "display name")
	f.StringVar(&userFlags.email, "email", "", "unique email address")
	f.StringVar(&userFlags.role, "role", string(domain.RoleUser), "user, employee or admin")
	f.Int64Var(&userFlags.telegramID, "telegram-id", 0, "numeric Telegram user id, required for moderator bot access")
	_ = userCreateCmd.MarkFlagRequired("name")
	_ = userCreateCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}
