package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var shopperCmd = &cobra.Command{
	Use:   "shopper",
	Short: "shopper actions",
}

var userOpt struct {
	Email           string `json:"email"`
	IsShopper       bool   `json:"is_shopper"`
	IsBusinessOwner bool   `json:"is_business_owner"`
}

var registerUserCmd = &cobra.Command{
	Use:   "register",
	Short: "register the wallet account as a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodPost, "/dashboard/shopper/register", &userOpt)
	},
}

var purchaseOpt struct {
	Store  string `json:"store"`
	Amount string `json:"amount"`
}

var purchaseCmd = &cobra.Command{
	Use:   "purchase",
	Short: "purchase at a store and earn points",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodPost, "/dashboard/shopper/purchase", &purchaseOpt)
	},
}

var referCmd = &cobra.Command{
	Use:   "refer <friend>",
	Short: "refer a friend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodPost, "/dashboard/shopper/refer", map[string]string{"friend": args[0]})
	},
}

var mintCmd = &cobra.Command{
	Use:   "mint-giftcard <id>",
	Short: "mint a royalty gift card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodPost, fmt.Sprintf("/dashboard/shopper/giftcards/%s/mint", args[0]), nil)
	},
}

var shopsCmd = &cobra.Command{
	Use:   "shops",
	Short: "list registered stores",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/shops", nil)
	},
}

var payCmd = &cobra.Command{
	Use:   "pay <store>",
	Short: "pay a store the configured amount",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodPost, "/shops/"+args[0]+"/pay", nil)
	},
}

func init() {
	rootCmd.AddCommand(shopperCmd, shopsCmd, payCmd)
	shopperCmd.AddCommand(registerUserCmd, purchaseCmd, referCmd, mintCmd)

	registerUserCmd.Flags().StringVar(&userOpt.Email, "email", "", "email")
	registerUserCmd.Flags().BoolVar(&userOpt.IsShopper, "shopper", true, "register as shopper")
	registerUserCmd.Flags().BoolVar(&userOpt.IsBusinessOwner, "business-owner", false, "register as business owner")

	purchaseCmd.Flags().StringVar(&purchaseOpt.Store, "store", "", "store address")
	purchaseCmd.Flags().StringVar(&purchaseOpt.Amount, "amount", "", "amount in stable token units")
}
