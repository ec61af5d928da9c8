package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// fingerprint: print the short fingerprint of the account public key.
func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Show the account key fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := requireIdentity()
			if err != nil {
				return err
			}
			fp, err := appCtx.Keys.Fingerprint(acct, passphrase)
			if err != nil {
				return err
			}
			fmt.Println(fp)
			return nil
		},
	}
}
