package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// recv: drain the inbox once and print what arrived.
func recvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recv",
		Short: "Fetch and reconcile queued messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := requireIdentity()
			if err != nil {
				return err
			}
			msgs, err := appCtx.Inbox.Drain(cmd.Context(), acct, passphrase)
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				fmt.Println("no new messages")
				return nil
			}
			for _, m := range msgs {
				fmt.Println(formatMessage(m))
			}
			return nil
		},
	}
}
