package cmd

import (
	"ReferralHub/internal/adapters/auth"
	"ReferralHub/internal/adapters/postgres"
	"ReferralHub/internal/core/domain"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var tokenUserID string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Work with API bearer tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a bearer token for an existing user",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(tokenUserID)
		if err != nil {
			return fmt.Errorf("invalid --user-id: %w", err)
		}

		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}

		ctx := context.Background()
		db, err := postgres.NewDB(ctx, cfg.Postgres.URL, 2, &log)
		if err != nil {
			return err
		}
		defer db.Close()

		user, err := postgres.NewUserRepository(db, &log).GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("load user %s: %w", id, err)
		}

		tokens, err := auth.NewJWTService(cfg.Auth.SigningKey, cfg.Auth.TokenTTL, &log)
		if err != nil {
			return err
		}
		token, err := tokens.Issue(domain.Actor{UserID: user.ID, Role: user.Role})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenIssueCmd.Flags().StringVar(&tokenUserID, "user-id", "", "id of the user the token represents")
	_ = tokenIssueCmd.MarkFlagRequired("user-id")

	tokenCmd.AddCommand(tokenIssueCmd)
	rootCmd.AddCommand(tokenCmd)
}
