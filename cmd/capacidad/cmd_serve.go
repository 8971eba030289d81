package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/gridatlas/capacidad/internal/adapter/http"
	"github.com/gridatlas/capacidad/internal/loader"
	"github.com/gridatlas/capacidad/internal/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dataset over an HTTP JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		metrics := observability.NewMetrics()

		start := time.Now()
		t, err := loadTable()
		if err != nil {
			return err
		}
		metrics.TableLoads.Inc()
		metrics.TableLoadDuration.Observe(time.Since(start).Seconds())
		metrics.RowsLoaded.Set(float64(t.Len()))
		metrics.ParseFallbacks.Add(float64(t.ParseFaults))

		checks := loader.Validate(t, cfg.Expectations)
		failed := 0
		for _, c := range checks {
			if !c.OK {
				failed++
				logger.Warn("validation check failed",
					"check", c.Name, "expected", c.Expected, "actual", c.Actual)
			}
		}
		metrics.ValidationFailed.Set(float64(failed))

		srv := httpadapter.NewServer(cfg.HTTPAddr, t, cfg.Expectations, metrics, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
				stop()
			}
		}()

		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		logger.Info("shutdown complete")
		return nil
	},
}
