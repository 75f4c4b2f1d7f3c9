package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an admin and save the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result LoginResult

			token, err := client.Login(email, password, &result)
			if err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", getEnvOrDefault("ROULETTE_EMAIL", ""), "Admin email (env: ROULETTE_EMAIL)")
	cmd.Flags().StringVar(&password, "password", getEnvOrDefault("ROULETTE_PASSWORD", ""), "Admin password (env: ROULETTE_PASSWORD)")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Message string `json:"message"`
			}

			if err := client.Post("/api/admin/logout", nil, &result); err != nil {
				return err
			}

			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(result.Message)
			return nil
		},
	}
}
