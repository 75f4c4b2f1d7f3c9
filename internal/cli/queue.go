package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Waiting queue commands",
	}

	cmd.AddCommand(newQueueGetCmd())
	cmd.AddCommand(newQueueSetCmd())

	return cmd
}

func newQueueGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <session-id>",
		Short: "Show who is still waiting to play",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result QueueResult

			path := "/api/admin/sessions/queue?sessionId=" + url.QueryEscape(args[0])
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newQueueSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <session-id> [participant-id...]",
		Short: "Replace the waiting queue; no ids clears it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"sessionId":    args[0],
				"waitingQueue": append([]string{}, args[1:]...),
			}
			var result QueueResult

			if err := client.Post("/api/admin/sessions/queue", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
