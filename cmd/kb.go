package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/engine"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/kb"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Inspect the knowledge base",
}

var kbValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configured knowledge base file",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := loadKnowledge()
		var cfgErr *kb.ConfigurationError
		if errors.As(err, &cfgErr) {
			fmt.Printf("%s is invalid (%d problems):\n", cfg.Knowledge.Path, len(cfgErr.Problems))
			for _, p := range cfgErr.Problems {
				fmt.Printf("  - %s\n", p)
			}
			return errors.New("knowledge base validation failed")
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s is valid\n", cfg.Knowledge.Path)
		return nil
	},
}

var kbShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the knowledge base contents",
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := loadKnowledge()
		if err != nil {
			return err
		}

		fmt.Println("Locations:")
		for _, name := range k.Locations() {
			r, _ := k.Region(name)
			fmt.Printf("  %-14s %.1f sun hours/day (±%.1f)\n", name, r.SunHours, r.Uncertainty)
		}

		fmt.Println("\nTariff brackets:")
		prev := 0.0
		for _, b := range k.Tariffs.Brackets {
			if b.MaxUnits == nil {
				fmt.Printf("  above %3.0f kWh       %s/kWh\n", prev, model.FormatLKR(b.Rate))
			} else {
				fmt.Printf("  %3.0f - %3.0f kWh       %s/kWh\n", prev, *b.MaxUnits, model.FormatLKR(b.Rate))
				prev = *b.MaxUnits
			}
		}
		fmt.Printf("  fixed charge       %s/month\n", model.FormatLKR(k.Tariffs.FixedCharge))

		total, blended := engine.ComputeTariff(300, k.Tariffs)
		fmt.Printf("  example: 300 kWh bills %s (blended %s/kWh)\n",
			model.FormatLKR(total), model.FormatLKR(blended))

		fmt.Println("\nCosts:")
		fmt.Printf("  per kW             %s\n", model.FormatLKR(k.Costs.CostPerKW))
		fmt.Printf("  fixed              %s\n", model.FormatLKR(k.Costs.FixedCost))
		fmt.Println("  roof multipliers:")
		for _, roof := range []string{"tile", "asbestos", "concrete", "other"} {
			if m, ok := k.Costs.RoofMultipliers[roof]; ok {
				fmt.Printf("    %-10s x%.2f\n", roof, m)
			}
		}

		fmt.Println("\nSizing:")
		fmt.Printf("  system range       %.1f - %.1f kW\n", k.Sizing.MinSystemKW, k.Sizing.MaxSystemKW)
		fmt.Printf("  efficiency         %.0f%%\n", k.Sizing.SystemEfficiency*100)
		fmt.Printf("  oversizing factor  %.2f\n", k.Sizing.OversizingFactor)
		fmt.Printf("  standard panel     %.0fW, %.0f sqft\n", k.Panels.Standard.Wattage, k.Panels.Standard.AreaSqft)

		fmt.Println("\nThresholds:")
		fmt.Printf("  excellent payback  < %.1f years\n", k.Thresholds.ExcellentPayback)
		fmt.Printf("  good payback       < %.1f years\n", k.Thresholds.GoodPayback)
		fmt.Printf("  max acceptable     < %.1f years\n", k.Thresholds.MaxAcceptablePayback)
		fmt.Printf("  minimum budget     %s\n", model.FormatLKR(k.Thresholds.MinBudgetLKR))

		return nil
	},
}

func init() {
	kbCmd.AddCommand(kbValidateCmd)
	kbCmd.AddCommand(kbShowCmd)
	rootCmd.AddCommand(kbCmd)
}
