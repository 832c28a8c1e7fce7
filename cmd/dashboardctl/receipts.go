package main

import (
	"fmt"
	"time"

	"github.com/senyabanana/bid-dashboard/internal/models"

	"github.com/spf13/cobra"
)

var (
	receiptRole  string
	unviewedOnly bool
	ratingInput  models.RatingInput
)

var receiptsCmd = &cobra.Command{
	Use:   "receipts",
	Short: "Receipt operations",
}

var receiptsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the last purchase, last sale and average seller rating",
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := application.Receipts.Summary(cmd.Context())
		if summary == nil {
			return describe(err)
		}
		if err != nil {
			fmt.Printf("warning: %s\n", err)
		}
		if jsonOutput {
			return printJSON(summary)
		}
		printSummary(summary)
		return nil
	},
}

var receiptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List receipts of one side, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		receipts, err := application.Receipts.List(cmd.Context(), models.ReceiptRole(receiptRole), unviewedOnly)
		if err != nil {
			return describe(err)
		}
		if jsonOutput {
			return printJSON(receipts)
		}
		if len(receipts) == 0 {
			fmt.Println("  no receipts")
		}
		for _, receipt := range receipts {
			fmt.Printf("  %s  %-24s %10s %s\n", formatTime(receipt.Timestamp), receipt.ID, receipt.DisplayAmount, receipt.Currency)
		}
		return nil
	},
}

var receiptsMarkAllCmd = &cobra.Command{
	Use:   "mark-all-read",
	Short: "Mark every receipt of one side as viewed",
	RunE: func(cmd *cobra.Command, args []string) error {
		remaining, err := application.Receipts.MarkAllViewed(cmd.Context(), models.ReceiptRole(receiptRole))
		if err != nil {
			return describe(err)
		}
		fmt.Printf("Unviewed %s receipts left: %d\n", receiptRole, remaining)
		return nil
	},
}

var receiptsRateCmd = &cobra.Command{
	Use:   "rate [receipt-id]",
	Short: "Rate the seller of a receipt from 1 to 10",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Receipts.Rate(cmd.Context(), args[0], ratingInput); err != nil {
			return describe(err)
		}
		fmt.Printf("Rated receipt %s with %.1f\n", args[0], ratingInput.Value)
		return nil
	},
}

func printSummary(summary *models.ReceiptSummary) {
	printLast := func(label string, receipt *models.Receipt) {
		if receipt == nil {
			fmt.Printf("  %-10s none\n", label)
			return
		}
		fmt.Printf("  %-10s %s %s (%s)\n", label, receipt.DisplayAmount, receipt.Currency, formatTime(receipt.Timestamp))
	}
	printLast("Last buy:", summary.LastBuy)
	printLast("Last sell:", summary.LastSell)
	if summary.RatedCount == 0 {
		fmt.Println("  Rating:    no ratings yet")
		return
	}
	fmt.Printf("  Rating:    %.1f (%d ratings)\n", summary.AverageRating, summary.RatedCount)
}

func formatTime(t time.Time) string {
	if t.Unix() == 0 {
		return "unknown date"
	}
	return t.Format("2006-01-02")
}

func init() {
	receiptsCmd.AddCommand(receiptsSummaryCmd, receiptsListCmd, receiptsMarkAllCmd, receiptsRateCmd)

	for _, cmd := range []*cobra.Command{receiptsListCmd, receiptsMarkAllCmd} {
		cmd.Flags().StringVar(&receiptRole, "role", string(models.BuyerRole), "buyer or seller")
	}
	receiptsListCmd.Flags().BoolVar(&unviewedOnly, "unviewed", false, "only receipts not yet viewed")
	receiptsRateCmd.Flags().Float64Var(&ratingInput.Value, "value", 0, "rating from 1 to 10")
	receiptsRateCmd.Flags().StringSliceVar(&ratingInput.Reasons, "reason", nil, "reason for the rating (repeatable)")
	receiptsRateCmd.Flags().StringVar(&ratingInput.Comment, "comment", "", "free text comment")
	_ = receiptsRateCmd.MarkFlagRequired("value")
}
