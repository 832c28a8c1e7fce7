// Package main is the command line client for the bid dashboard.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/senyabanana/bid-dashboard/internal/app"
	"github.com/senyabanana/bid-dashboard/internal/router/config"

	"github.com/spf13/cobra"
)

// offlineAnnotation помечает команды, которым не нужен бэкенд.
const offlineAnnotation = "offline"

var (
	application *app.App
	jsonOutput  bool
)

var rootCmd = &cobra.Command{
	Use:           "dashboardctl",
	Short:         "Reverse-auction marketplace dashboard client",
	Long:          `Command line access to active requests, offer summaries and receipts of the marketplace account.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("cannot load config: %w", err)
		}
		logger := app.NewLogger(cfg.LogLevel, "text", os.Stderr)
		if strings.EqualFold(cfg.StorageDriver, "memory") || cfg.StorageDriver == "" {
			logger.Warn("STORAGE_DRIVER=memory keeps the session only for this invocation; use redis or postgres")
		}
		application, err = newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to open client storage: %w", err)
		}
		if cmd.Annotations[offlineAnnotation] != "" {
			return nil
		}
		return application.ConfigErr
	},
}

// newApp собирает приложение; в тестах подменяется.
var newApp = app.New

// execute выполняет команду и закрывает приложение даже при ошибке команды.
func execute(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if application != nil {
		if closeErr := application.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close client storage: %w", closeErr)
		}
		application = nil
	}
	return err
}

func main() {
	if err := execute(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print raw JSON instead of a table")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, requestsCmd, offersCmd, dashboardCmd, receiptsCmd, bidsCmd)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
