package cmds

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pandodao/generic"
	"github.com/spf13/cobra"
)

func (c *Cmd) newAccountCmd() *cobra.Command {
	var passphrase string

	cmd := &cobra.Command{
		Use:   "new-account",
		Short: "generate a signing key in the wallet keystore",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return errors.New("passphrase is required")
			}

			addr, err := c.Keystore.NewAccount(passphrase)
			if err != nil {
				return err
			}

			return jsonPrint(cmd, map[string]string{"address": addr.Hex()})
		},
	}

	cmd.Flags().StringVar(&passphrase, "passphrase", "", "key file passphrase")
	return cmd
}

func (c *Cmd) listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "list keystore accounts, active first",
		RunE: func(cmd *cobra.Command, args []string) error {
			addrs, err := c.Keystore.Accounts(cmd.Context())
			if err != nil {
				return err
			}

			return jsonPrint(cmd, generic.MapSlice(addrs, func(a common.Address) string {
				return a.Hex()
			}))
		},
	}
}
