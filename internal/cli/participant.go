package cli

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func newParticipantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "participant",
		Short: "Participant commands",
	}

	cmd.AddCommand(newParticipantRegisterCmd())
	cmd.AddCommand(newParticipantStatusCmd())
	cmd.AddCommand(newParticipantListCmd())
	cmd.AddCommand(newParticipantExportCmd())

	return cmd
}

func newParticipantRegisterCmd() *cobra.Command {
	var name, surname, email, specialty, sessionID string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a participant",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"name":      name,
				"surname":   surname,
				"email":     email,
				"specialty": specialty,
			}
			if sessionID != "" {
				req["sessionId"] = sessionID
			}
			var result ParticipantResult

			if err := client.Post("/api/participants/register", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "First name (required)")
	cmd.Flags().StringVar(&surname, "surname", "", "Surname (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&specialty, "specialty", "", "Specialty")
	cmd.Flags().StringVar(&sessionID, "session", "", "Session to register into")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("surname")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newParticipantStatusCmd() *cobra.Command {
	var admin bool

	cmd := &cobra.Command{
		Use:   "status <participant-id> <status>",
		Short: "Set a participant's status",
		Long: `Set a participant's status.

Without --admin only playing and completed are accepted, as from the game
screen. With --admin the authenticated route is used and any status is allowed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/participants/update-status"
			if admin {
				path = "/api/admin/sessions/update-participant-status"
			}

			req := map[string]string{"participantId": args[0], "status": args[1]}
			var result ParticipantResult

			if err := client.Post(path, req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&admin, "admin", false, "Use the admin route")

	return cmd
}

func newParticipantListCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List participants",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ParticipantList

			if err := client.Get("/api/admin/participants"+sessionQuery(sessionID), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Only participants of this session")

	return cmd
}

func newParticipantExportCmd() *cobra.Command {
	var sessionID, file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export participants as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := client.Download("/api/admin/participants/export" + sessionQuery(sessionID))
			if err != nil {
				return err
			}

			if file == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}

			if err := os.WriteFile(file, data, 0600); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(fmt.Sprintf("Wrote %s", file))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Only participants of this session")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to a file instead of stdout")

	return cmd
}

func sessionQuery(sessionID string) string {
	if sessionID == "" {
		return ""
	}
	return "?sessionId=" + url.QueryEscape(sessionID)
}
