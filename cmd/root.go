package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/serendib-labs/mapleads/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "mapleads",
	Short: "Business listing collector for Sri Lanka",
	Long:  "Searches a map extraction backend for business listings, subdivides large areas into cells, canonicalizes Sri Lankan phone numbers, and writes deduplicated results.",
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
