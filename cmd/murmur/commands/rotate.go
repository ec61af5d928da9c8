package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// rotate: replace the account key pair and drop cached shared secrets.
func rotateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate",
		Short: "Rotate the account key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := requireIdentity()
			if err != nil {
				return err
			}
			if _, err := appCtx.Keys.Rotate(cmd.Context(), acct, passphrase); err != nil {
				return err
			}
			fp, err := appCtx.Keys.Fingerprint(acct, passphrase)
			if err != nil {
				return err
			}
			fmt.Println("key pair rotated, fingerprint:", fp)
			return nil
		},
	}
}
