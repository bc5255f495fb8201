package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/api"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/kb"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		k, err := loadKnowledge()
		if err != nil {
			return err
		}
		handle := kb.NewHandle(k)

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		server := api.NewServer(handle, st, cfg.Knowledge.Path)
		httpServer := &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      server.Router(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			zap.L().Info("http server listening",
				zap.Int("port", cfg.Server.Port),
				zap.Int("locations", len(k.Regions)),
			)
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		zap.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
