package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ridgepoint/commission-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "commission-cli",
	Short: "Sales commission administration engine",
	Long:  "Ingests ERP sales-order extracts, reconciles customer account types against Copper CRM, and computes commission and quarterly bonus payouts.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
