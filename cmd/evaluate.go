package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/engine"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/report"
)

var evaluateFlags struct {
	monthlyKWh float64
	location   string
	roofType   string
	budget     float64
	roofArea   float64
	asJSON     bool
	verbose    bool
	save       bool
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate one site profile and print the recommendation",
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := loadKnowledge()
		if err != nil {
			return err
		}

		profile := model.SiteProfile{
			MonthlyConsumptionKWh: evaluateFlags.monthlyKWh,
			Location:              evaluateFlags.location,
			RoofType:              model.RoofType(evaluateFlags.roofType),
			BudgetLKR:             evaluateFlags.budget,
		}
		if evaluateFlags.roofArea > 0 {
			area := evaluateFlags.roofArea
			profile.RoofAreaSqft = &area
		}

		rec, err := engine.New(k).Evaluate(profile)
		if err != nil {
			return err
		}

		if evaluateFlags.save {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			ev, err := st.CreateEvaluation(ctx, *rec)
			if err != nil {
				return err
			}
			zap.L().Info("evaluation saved", zap.String("id", ev.ID))
		}

		if evaluateFlags.asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}

		fmt.Print(report.Render(rec, evaluateFlags.verbose))
		return nil
	},
}

func init() {
	f := evaluateCmd.Flags()
	f.Float64Var(&evaluateFlags.monthlyKWh, "monthly-kwh", 0, "average monthly consumption in kWh")
	f.StringVar(&evaluateFlags.location, "location", "", "district, e.g. colombo")
	f.StringVar(&evaluateFlags.roofType, "roof-type", "tile", "roof material: tile, asbestos, concrete, other")
	f.Float64Var(&evaluateFlags.budget, "budget", 0, "installation budget in LKR")
	f.Float64Var(&evaluateFlags.roofArea, "roof-area", 0, "available flat roof area in sqft (0 = unconstrained)")
	f.BoolVar(&evaluateFlags.asJSON, "json", false, "print the full recommendation as JSON")
	f.BoolVarP(&evaluateFlags.verbose, "verbose", "v", false, "include the reasoning trace")
	f.BoolVar(&evaluateFlags.save, "save", false, "persist the evaluation to the configured store")

	_ = evaluateCmd.MarkFlagRequired("monthly-kwh")
	_ = evaluateCmd.MarkFlagRequired("location")
	_ = evaluateCmd.MarkFlagRequired("budget")

	rootCmd.AddCommand(evaluateCmd)
}
