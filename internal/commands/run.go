package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/session"
)

func newRunCommand(g *globals) *cobra.Command {
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   "run <file|->",
		Short: "Execute ledger commands from a file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeFn, err := openScript(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			s := g.newSession(cmd)
			return s.Run(cmd.Context(), in, session.RunOptions{KeepGoing: keepGoing})
		},
	}

	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "report failed commands and continue")

	return cmd
}

func openScript(cmd *cobra.Command, name string) (io.Reader, func(), error) {
	if name == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("opening script: %w", err)
	}
	return f, func() { f.Close() }, nil
}
