// Package main provides the predict CLI, which prints the ranked home-run
// matchups for one date.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/hr-predictor/internal/app"
	"github.com/yourusername/hr-predictor/internal/logger"
	"github.com/yourusername/hr-predictor/internal/models"
	"github.com/yourusername/hr-predictor/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	topN       int
	format     string
)

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().IntVarP(&topN, "top", "n", service.DefaultTopN, "Number of matchups to print")
	rootCmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or json")
}

var rootCmd = &cobra.Command{
	Use:     "predict [date] [top_n]",
	Short:   "Rank probable hitters by home-run likelihood",
	Long:    `Fetch recent Statcast events and the day's lineups, then print batter/pitcher matchups ranked by composite home-run score. date defaults to today (YYYY-MM-DD).`,
	Args:    cobra.MaximumNArgs(2),
	Version: Version + " (" + GitCommit + ")",
	RunE:    runPredict,

	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runPredict(cmd *cobra.Command, args []string) error {
	if format != formatTable && format != formatJSON {
		return fmt.Errorf("unknown format %q", format)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig(ctx, configFile)
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	log.SetOutput(os.Stderr)

	req, err := buildRequest(cmd, args, time.Now().In(cfg.SchedulerLocation()))
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	log.WithFields(logrus.Fields{"date": req.Date, "format": format}).Debug("Computing matchups")

	table, err := a.Service.Compute(ctx, req)
	if err != nil {
		return err
	}

	if format == formatJSON {
		return writeJSON(cmd.OutOrStdout(), table)
	}
	return writeTable(cmd.OutOrStdout(), table)
}

// buildRequest resolves the positional date and top_n. A positional top_n
// wins over --top.
func buildRequest(cmd *cobra.Command, args []string, now time.Time) (service.PredictionRequest, error) {
	req := service.PredictionRequest{Date: models.FormatDate(now)}
	if len(args) > 0 {
		req.Date = args[0]
	}

	top := topN
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return req, fmt.Errorf("%w: top_n must be an integer", models.ErrInvalidRequest)
		}
		top = n
	} else if !cmd.Flags().Changed("top") {
		return req, nil
	}
	req.TopN = &top
	return req, nil
}
