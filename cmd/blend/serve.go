package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/AngelCh415/BLEND_GO/internal/blend"
	"github.com/AngelCh415/BLEND_GO/internal/config"
	"github.com/AngelCh415/BLEND_GO/internal/httpx"
	"github.com/AngelCh415/BLEND_GO/internal/metrics"
)

func serveCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an HTTP trigger for blend runs plus prometheus metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())
			m := metrics.New(reg)

			runner := func(ctx context.Context) (*blend.RunSummary, error) {
				return blend.Run(ctx, *cfg, logger)
			}
			r := httpx.NewRouter(logger, runner, m, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}
			logger.Info("starting server", slog.String("port", cfg.Port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "listen port")
	return cmd
}
