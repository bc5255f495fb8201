package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "solar-advisor",
	Short: "Rooftop solar ROI advisor for Sri Lankan households",
	Long:  "Sizes rooftop solar systems against consumption, roof, and budget constraints, computes progressive-tariff savings and payback, and serves the results over CLI and HTTP.",
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
