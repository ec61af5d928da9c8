package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// init: generate and publish a fresh key pair for the account.
func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a key pair and publish the public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := requireIdentity()
			if err != nil {
				return err
			}
			if _, ok, err := appCtx.Keys.Load(acct, passphrase); err == nil && ok {
				return fmt.Errorf("account %s already has a key pair (use rotate)", acct)
			}
			if _, err := appCtx.Keys.Generate(cmd.Context(), acct, passphrase); err != nil {
				return err
			}
			fp, err := appCtx.Keys.Fingerprint(acct, passphrase)
			if err != nil {
				return err
			}
			fmt.Println("key pair created, fingerprint:", fp)
			return nil
		},
	}
}
