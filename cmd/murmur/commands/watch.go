package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// watch: keep a live subscription open and print messages as they land.
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream incoming messages until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := requireIdentity()
			if err != nil {
				return err
			}

			ch, cancel := appCtx.Bus.Subscribe(64)
			defer cancel()

			unsubscribe, err := appCtx.Inbox.Start(cmd.Context(), acct, passphrase)
			if err != nil {
				return err
			}
			defer unsubscribe()

			fmt.Println("watching; ctrl-c to stop")
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case m, ok := <-ch:
					if !ok {
						return nil
					}
					fmt.Println(formatMessage(m))
				}
			}
		},
	}
}
