package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/logging"
	"github.com/cleared-dev/tally/internal/session"
)

func newShellCommand(g *globals) *cobra.Command {
	var prompt string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive ledger session",
		Long: "Start an interactive ledger session. The session ends on quit, exit or end of input (Ctrl-D); " +
			"Ctrl-C terminates tally immediately. Transactions are not kept after the session ends.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := g.newSession(cmd)
			logger := logging.FromContext(cmd.Context())
			logger.Info().Str("session", s.ID()).Msg("session started")
			fmt.Fprintln(cmd.OutOrStdout(), `type "help" for commands, "quit" or Ctrl-D to leave`)

			err := s.Run(cmd.Context(), cmd.InOrStdin(), session.RunOptions{Prompt: prompt, KeepGoing: true})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "> ", "prompt shown before each command")

	return cmd
}
