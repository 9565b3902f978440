package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/BLEND_GO/internal/blend"
	"github.com/AngelCh415/BLEND_GO/internal/config"
	"github.com/AngelCh415/BLEND_GO/internal/dashboards"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:          "blend",
		Short:        "Blend paid-media spend with CRM deal outcomes",
		SilenceUsage: true,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the CRM blend and write the report workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := blend.Run(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			logger.Info("done", slog.String("output", sum.OutputFile))
			return nil
		},
	}
	runCmd.Flags().StringVar(&cfg.CRMFile, "crm", cfg.CRMFile, "CRM deal export (csv or xlsx)")
	runCmd.Flags().StringVar(&cfg.MetaFile, "meta", cfg.MetaFile, "social-platform dashboard workbook")
	runCmd.Flags().StringVar(&cfg.GoogleFile, "google", cfg.GoogleFile, "search-platform dashboard workbook")
	runCmd.Flags().StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "output directory")

	metaCmd := &cobra.Command{
		Use:   "meta",
		Short: "Build the social-platform spend dashboard workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := dashboards.BuildMeta(cfg, logger)
			if err != nil {
				return err
			}
			logger.Info("done", slog.String("output", res.OutputFile))
			return nil
		},
	}
	metaCmd.Flags().StringVar(&cfg.MetaRawFile, "in", cfg.MetaRawFile, "raw social-platform export")
	metaCmd.Flags().StringVar(&cfg.DashboardDir, "out", cfg.DashboardDir, "dashboard output directory")

	googleCmd := &cobra.Command{
		Use:   "google",
		Short: "Build the search-platform spend dashboard workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := dashboards.BuildGoogle(cfg, logger)
			if err != nil {
				return err
			}
			logger.Info("done", slog.String("output", res.OutputFile))
			return nil
		},
	}
	googleCmd.Flags().StringVar(&cfg.GoogleRawFile, "in", cfg.GoogleRawFile, "raw search-platform export")
	googleCmd.Flags().StringVar(&cfg.DashboardDir, "out", cfg.DashboardDir, "dashboard output directory")

	root.AddCommand(runCmd, metaCmd, googleCmd, serveCmd(&cfg, logger))

	if err := root.ExecuteContext(context.Background()); err != nil {
		logger.Error("fatal", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
