package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:       "dashboard <owner|shopper>",
	Short:     "show a dashboard",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"owner", "shopper"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/dashboard/"+args[0], nil)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync <owner|shopper>",
	Short: "resolve the wallet account and reload a dashboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodPost, "/dashboard/"+args[0]+"/sync", nil)
	},
}

var noticesCmd = &cobra.Command{
	Use:   "notices <owner|shopper>",
	Short: "list the notices of a dashboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/dashboard/"+args[0]+"/notices", nil)
	},
}

var activitiesOpt struct {
	limit int
}

var activitiesCmd = &cobra.Command{
	Use:   "activities <account>",
	Short: "list journaled writes of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := fmt.Sprintf("/activities?account=%s&limit=%d", args[0], activitiesOpt.limit)
		return call(cmd, http.MethodGet, path, nil)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd, syncCmd, noticesCmd, activitiesCmd)

	activitiesCmd.Flags().IntVar(&activitiesOpt.limit, "limit", 20, "max activities")
}
