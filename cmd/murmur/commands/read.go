package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"murmur/internal/domain"
)

// read <peer>: mark the conversation with <peer> as read.
func readCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <peer>",
		Short: "Mark a conversation as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := requireIdentity()
			if err != nil {
				return err
			}
			conv := domain.ConversationIDFor(acct, domain.AccountID(args[0]))
			if err := appCtx.Messages.MarkRead(cmd.Context(), conv); err != nil {
				return err
			}
			fmt.Println("marked read")
			return nil
		},
	}
}
