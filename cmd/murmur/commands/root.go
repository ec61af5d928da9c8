package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"murmur/internal/app"
	"murmur/internal/domain"
)

var (
	home       string
	passphrase string
	account    string

	directoryURL string
	relayURL     string

	appCtx *app.App
)

// Execute runs the murmur CLI.
func Execute() error {
	root := &cobra.Command{
		Use:           "murmur",
		Short:         "End-to-end encrypted messaging core",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(home)
			if err != nil {
				return err
			}
			if directoryURL != "" {
				cfg.DirectoryURL = directoryURL
			}
			if relayURL != "" {
				cfg.RelayURL = relayURL
			}
			appCtx, err = app.New(cmd.Context(), cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if appCtx != nil {
				return appCtx.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "state dir (default ~/.murmur)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the keyring")
	root.PersistentFlags().StringVar(&account, "account", "", "local account id")
	root.PersistentFlags().StringVar(&directoryURL, "directory", "", "key directory base URL")
	root.PersistentFlags().StringVar(&relayURL, "relay", "", "relay base URL (e.g. http://127.0.0.1:8080)")

	root.AddCommand(initCmd(), rotateCmd(), fingerprintCmd(),
		sendCmd(), recvCmd(), watchCmd(), historyCmd(), readCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return root.ExecuteContext(ctx)
}

func requireIdentity() (domain.AccountID, error) {
	if account == "" {
		return "", fmt.Errorf("account required (--account)")
	}
	if passphrase == "" {
		return "", fmt.Errorf("passphrase required (-p)")
	}
	return domain.AccountID(account), nil
}
