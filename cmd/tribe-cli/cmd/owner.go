package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var ownerCmd = &cobra.Command{
	Use:   "owner",
	Short: "business owner actions",
}

var storeOpt struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	PhoneNumber      string `json:"phone_number"`
	Email            string `json:"email"`
	PhysicalLocation string `json:"physical_location"`
}

var registerStoreCmd = &cobra.Command{
	Use:   "register",
	Short: "register the wallet account as a store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodPost, "/dashboard/owner/register", &storeOpt)
	},
}

var giftCardOpt struct {
	Value     string `json:"value"`
	PointCost uint64 `json:"point_cost"`
}

var createGiftCardCmd = &cobra.Command{
	Use:   "create-giftcard",
	Short: "create a gift card for the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodPost, "/dashboard/owner/giftcards", &giftCardOpt)
	},
}

var awardOpt struct {
	Recipient string `json:"recipient"`
}

var awardGiftCardCmd = &cobra.Command{
	Use:   "award-giftcard <id>",
	Short: "award a gift card to a shopper",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodPost, fmt.Sprintf("/dashboard/owner/giftcards/%s/award", args[0]), &awardOpt)
	},
}

func init() {
	rootCmd.AddCommand(ownerCmd)
	ownerCmd.AddCommand(registerStoreCmd, createGiftCardCmd, awardGiftCardCmd)

	registerStoreCmd.Flags().StringVar(&storeOpt.Name, "name", "", "store name")
	registerStoreCmd.Flags().StringVar(&storeOpt.Description, "description", "", "description")
	registerStoreCmd.Flags().StringVar(&storeOpt.PhoneNumber, "phone", "", "phone number, 10 digits")
	registerStoreCmd.Flags().StringVar(&storeOpt.Email, "email", "", "contact email")
	registerStoreCmd.Flags().StringVar(&storeOpt.PhysicalLocation, "location", "", "physical location")

	createGiftCardCmd.Flags().StringVar(&giftCardOpt.Value, "value", "", "card value in stable token units")
	createGiftCardCmd.Flags().Uint64Var(&giftCardOpt.PointCost, "points", 0, "point cost")

	awardGiftCardCmd.Flags().StringVar(&awardOpt.Recipient, "to", "", "recipient address")
}
