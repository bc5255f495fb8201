package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/engine"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/profileio"
)

var batchFlags struct {
	output string
	save   bool
}

var batchCmd = &cobra.Command{
	Use:   "batch <profiles.csv|profiles.xlsx>",
	Short: "Evaluate a file of site profiles concurrently",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		k, err := loadKnowledge()
		if err != nil {
			return err
		}

		profiles, err := profileio.ReadFile(args[0])
		if err != nil {
			return err
		}

		recs, err := evaluateProfiles(ctx, engine.New(k), profiles, cfg.Batch.MaxConcurrent)
		if err != nil {
			return err
		}

		if batchFlags.save {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			for _, rec := range recs {
				if rec == nil {
					continue
				}
				if _, err := st.CreateEvaluation(ctx, *rec); err != nil {
					return err
				}
			}
		}

		out := os.Stdout
		if batchFlags.output != "" {
			f, err := os.Create(batchFlags.output)
			if err != nil {
				return eris.Wrapf(err, "create %s", batchFlags.output)
			}
			defer f.Close()
			out = f
		}
		return profileio.WriteSummaryCSV(out, compact(recs))
	},
}

// evaluateProfiles runs evaluations concurrently and returns results in
// input order. A failed row yields a nil entry rather than aborting the
// whole batch.
func evaluateProfiles(ctx context.Context, eng *engine.Engine, profiles []model.SiteProfile, concurrency int) ([]*model.Recommendation, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	zap.L().Info("evaluating batch",
		zap.Int("profiles", len(profiles)),
		zap.Int("concurrency", concurrency),
	)

	recs := make([]*model.Recommendation, len(profiles))
	var succeeded, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, p := range profiles {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			rec, err := eng.Evaluate(p)
			if err != nil {
				failed.Add(1)
				zap.L().Error("evaluation failed",
					zap.String("location", p.Location),
					zap.Float64("monthly_kwh", p.MonthlyConsumptionKWh),
					zap.Error(err),
				)
				return nil // don't abort the batch on an individual failure
			}

			recs[i] = rec
			succeeded.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch evaluation")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return recs, nil
}

// compact drops nil entries from failed rows, preserving order.
func compact(recs []*model.Recommendation) []*model.Recommendation {
	out := recs[:0:0]
	for _, rec := range recs {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out
}

func init() {
	batchCmd.Flags().StringVarP(&batchFlags.output, "output", "o", "", "write the summary CSV to a file instead of stdout")
	batchCmd.Flags().BoolVar(&batchFlags.save, "save", false, "persist each evaluation to the configured store")
	rootCmd.AddCommand(batchCmd)
}
