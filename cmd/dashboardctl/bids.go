package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var acceptRequestID string

var bidsCmd = &cobra.Command{
	Use:   "bids",
	Short: "Bid operations",
}

var bidsAcceptCmd = &cobra.Command{
	Use:   "accept [bid-id]",
	Short: "Accept a seller's bid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Bids.AcceptBid(cmd.Context(), args[0], acceptRequestID); err != nil {
			return describe(err)
		}
		fmt.Printf("Bid %s accepted\n", args[0])
		return nil
	},
}

var bidsMineCmd = &cobra.Command{
	Use:   "mine [request-id]",
	Short: "Show your own bid on a request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bid, err := application.Bids.MyBid(cmd.Context(), args[0])
		if err != nil {
			return describe(err)
		}
		if jsonOutput {
			return printJSON(bid)
		}
		fmt.Printf("Bid:      %s\n", bid.ID)
		fmt.Printf("Price:    %s\n", formatPrice(bid.Price))
		fmt.Printf("Unit:     %s\n", formatPrice(bid.UnitPrice))
		fmt.Printf("Delivery: %s\n", bid.DeliveryTime)
		fmt.Printf("Accepted: %t\n", bid.Accepted)
		return nil
	},
}

func init() {
	bidsCmd.AddCommand(bidsAcceptCmd, bidsMineCmd)
	bidsAcceptCmd.Flags().StringVar(&acceptRequestID, "request", "", "request the bid belongs to")
}
