// Package main provides the HTTP server binary: the matchup API, health and
// metrics endpoints, and the scheduled cache prefetch.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/hr-predictor/internal/api"
	"github.com/yourusername/hr-predictor/internal/app"
	"github.com/yourusername/hr-predictor/internal/health"
	"github.com/yourusername/hr-predictor/internal/logger"
	"github.com/yourusername/hr-predictor/internal/metrics"
	"github.com/yourusername/hr-predictor/internal/scheduler"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:          "server",
	Short:        "Serve ranked home-run matchups over HTTP",
	Version:      Version + " (" + GitCommit + ")",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := app.LoadConfig(ctx, configFile)
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Info("Starting HR predictor server")

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        strconv.Itoa(cfg.Server.HealthPort),
		Logger:      log,
		Upstreams:   a.Upstreams(),
	}
	if a.DB != nil {
		healthCfg.DB = a.DB
	}
	if cfg.Metrics.Enabled {
		healthCfg.MetricsPath = cfg.Metrics.Path
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	apiServer := api.NewServer(a.Service, strconv.Itoa(cfg.Server.Port), cfg.SchedulerLocation(), log)
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	if cfg.Scheduler.Enabled {
		sched := scheduler.NewScheduler(a.Service, cfg.SchedulerLocation(), log)
		if err := sched.SchedulePrefetch(cfg.Scheduler.PrefetchCron); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	healthServer.SetReady(true)
	<-ctx.Done()

	log.Info("Shutting down HR predictor server")
	healthServer.SetReady(false)
	return nil
}
