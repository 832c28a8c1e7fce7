package main

import (
	"errors"
	"fmt"

	"github.com/senyabanana/bid-dashboard/internal/apiclient"
	"github.com/senyabanana/bid-dashboard/internal/identity"
	"github.com/senyabanana/bid-dashboard/internal/models"

	"github.com/spf13/cobra"
)

var (
	searchQuery string
	retryOffers bool
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List active requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		requests, err := application.Requests.ActiveRequests(cmd.Context(), searchQuery)
		if err != nil {
			return describe(err)
		}
		if jsonOutput {
			return printJSON(requests)
		}
		printRequests(requests, nil)
		return nil
	},
}

var offersCmd = &cobra.Command{
	Use:   "offers [request-id]",
	Short: "Show the offer summary of one request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var summary models.OffersSummary
		var err error
		if retryOffers {
			summary, err = application.Bids.RetryOffers(cmd.Context(), args[0])
		} else {
			summary, err = application.Bids.OfferSummary(cmd.Context(), args[0])
		}
		if err != nil {
			return describe(err)
		}
		if jsonOutput {
			return printJSON(summary)
		}
		fmt.Printf("Request: %s\n", summary.RequestID)
		fmt.Printf("Status:  %s\n", summary.Status)
		fmt.Printf("Offers:  %d\n", summary.OffersCount)
		fmt.Printf("Lowest:  %s\n", formatPrice(summary.LowestOffer))
		if summary.Error != "" {
			fmt.Printf("Error:   %s (run with --retry)\n", summary.Error)
		}
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show active requests with offers and the receipt summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		dashboard, err := application.Dashboard.Load(cmd.Context(), searchQuery, true)
		if err != nil {
			return describe(err)
		}
		if jsonOutput {
			return printJSON(dashboard)
		}

		fmt.Println("=== Active Requests ===")
		if dashboard.RequestsError != "" {
			fmt.Printf("  could not load requests: %s\n", dashboard.RequestsError)
		} else {
			printRequests(dashboard.Requests, dashboard.Offers)
		}
		fmt.Println()
		fmt.Println("=== Receipts ===")
		if dashboard.ReceiptsError != "" {
			fmt.Printf("  could not load all receipts: %s\n", dashboard.ReceiptsError)
		}
		if dashboard.Receipts != nil {
			printSummary(dashboard.Receipts)
		}
		return nil
	},
}

func printRequests(requests []models.Request, offers map[string]models.OffersSummary) {
	if len(requests) == 0 {
		fmt.Println("  no active requests")
		return
	}
	for _, req := range requests {
		line := fmt.Sprintf("  #%-6s %-30s %-15s qty %-6g", req.ShortID(), req.ProductName, req.Category, req.Quantity)
		if summary, ok := offers[req.ID]; ok {
			switch summary.Status {
			case models.OfferOK:
				line += fmt.Sprintf(" offers %d, lowest %s", summary.OffersCount, formatPrice(summary.LowestOffer))
			case models.OfferErr:
				line += " offers unavailable (dashboardctl offers " + req.ID + " --retry)"
			default:
				line += " offers " + string(summary.Status)
			}
		}
		fmt.Println(line)
	}
}

func formatPrice(p *float64) string {
	if p == nil {
		return models.NotAvailable
	}
	return fmt.Sprintf("%.2f", *p)
}

// describe дополняет ошибку подсказкой для пользователя терминала.
func describe(err error) error {
	var errorResponse *models.ErrorResponse
	switch {
	case errors.Is(err, identity.ErrUnauthenticated), apiclient.IsAuthError(err):
		return fmt.Errorf("%w: run `dashboardctl login` first", err)
	case errors.As(err, &errorResponse) && errorResponse.Code != "":
		return fmt.Errorf("%s (%s)", errorResponse.Message, errorResponse.Code)
	}
	return err
}

func init() {
	requestsCmd.Flags().StringVar(&searchQuery, "search", "", "filter by id suffix, title or category")
	dashboardCmd.Flags().StringVar(&searchQuery, "search", "", "filter by id suffix, title or category")
	offersCmd.Flags().BoolVar(&retryOffers, "retry", false, "reload offers even after a failure")
}
