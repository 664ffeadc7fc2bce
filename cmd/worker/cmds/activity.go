package cmds

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pandodao/rewardtribe/core"
	"github.com/spf13/cobra"
)

func (c *Cmd) exportActivitiesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "export-activities <account>",
		Short: "export the journal of an account, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account := args[0]
			if common.IsHexAddress(account) {
				account = common.HexToAddress(account).Hex()
			}

			activities, err := c.Activities.ListAccount(cmd.Context(), account, limit)
			if err != nil {
				return err
			}

			if activities == nil {
				activities = []*core.Activity{}
			}

			return jsonPrint(cmd, activities)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "max activities")
	return cmd
}

func (c *Cmd) pruneActivitiesCmd() *cobra.Command {
	var retention time.Duration

	cmd := &cobra.Command{
		Use:   "prune-activities",
		Short: "delete journal activities older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			before := time.Now().Add(-retention)

			var total int64
			for {
				n, err := c.Activities.DeleteBefore(cmd.Context(), before, 500)
				if err != nil {
					return err
				}

				total += n
				if n < 500 {
					break
				}
			}

			cmd.Printf("pruned %d activities created before %s\n", total, before.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().DurationVar(&retention, "retention", 30*24*time.Hour, "retention window")
	return cmd
}
