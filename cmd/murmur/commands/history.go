package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"murmur/internal/domain"
)

// history <peer>: print the conversation with <peer>, oldest first.
func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <peer>",
		Short: "Show the conversation with a peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := requireIdentity()
			if err != nil {
				return err
			}
			conv := domain.ConversationIDFor(acct, domain.AccountID(args[0]))

			msgs, err := appCtx.Messages.History(cmd.Context(), conv)
			if err != nil {
				return err
			}
			for _, m := range msgs {
				fmt.Println(formatMessage(m))
			}
			return nil
		},
	}
}

// formatMessage renders one line per message, flagging unverified and
// undecryptable content.
func formatMessage(m domain.Message) string {
	marker := ""
	if !m.Decrypted {
		marker = " [undecryptable]"
	} else if m.Signature != "" && !m.SignatureVerified {
		marker = " [unverified]"
	}
	ts := time.UnixMilli(m.Timestamp).Format(time.RFC3339)
	return fmt.Sprintf("%s %s -> %s (%s)%s: %s", ts, m.Sender, m.Receiver, m.Status, marker, m.Text)
}
