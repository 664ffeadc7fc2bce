package cmds

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pandodao/rewardtribe/core"
	"github.com/pandodao/rewardtribe/service/wallet"
	"github.com/spf13/cobra"
)

type Cmd struct {
	Activities core.ActivityStore
	Keystore   *wallet.Keystore
}

func (c *Cmd) Run(ctx context.Context, args []string) error {
	root := &cobra.Command{
		Use:   "rewardtribe-worker",
		Short: "reward tribe maintenance commands",
	}

	root.AddCommand(c.exportActivitiesCmd())
	root.AddCommand(c.pruneActivitiesCmd())
	root.AddCommand(c.newAccountCmd())
	root.AddCommand(c.listAccountsCmd())

	root.SetArgs(args)
	root.SetOut(os.Stdout)

	return root.ExecuteContext(ctx)
}

func jsonPrint(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
