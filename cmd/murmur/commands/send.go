package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"murmur/internal/domain"
)

// send <peer> <message>: encrypt, sign and send a message to <peer>.
func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <peer> <message>",
		Short: "Encrypt and send a message to a peer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := requireIdentity()
			if err != nil {
				return err
			}
			peer := domain.AccountID(args[0])

			msg, err := appCtx.Messages.Send(cmd.Context(), acct, passphrase, peer, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", msg.ID, msg.Status)
			return nil
		},
	}
}
