package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/user/price-tracker/internal/adapter/chromedp_fetcher"
	"github.com/user/price-tracker/internal/adapter/httpfetch"
	"github.com/user/price-tracker/internal/repository"
	"github.com/user/price-tracker/pkg/config"
	"github.com/user/price-tracker/pkg/logger"
)

// v holds flag bindings; config.Load layers .env and the environment on top.
var v = viper.New()

var rootCmd = &cobra.Command{
	Use:           "pricetracker",
	Short:         "pricetracker tracks Flipkart product prices and manages orders.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = v.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, fmt.Errorf("could not load config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("could not build logger: %w", err)
	}
	return cfg, log, nil
}

// newFetcher picks the page fetcher named by the config. The returned func
// releases its resources.
func newFetcher(cfg *config.Config, log *zap.Logger) (repository.PageFetcher, string, func()) {
	if cfg.BrowserEnabled {
		f := chromedp_fetcher.NewChromedpFetcher(cfg.UserAgent, cfg.FetchTimeout(), cfg.BrowserWait(), log)
		return f, "chromedp", f.Close
	}
	f := httpfetch.NewFetcher(httpfetch.Options{
		UserAgent:     cfg.UserAgent,
		Timeout:       cfg.FetchTimeout(),
		RatePerSecond: cfg.FetchRatePerSecond,
		Burst:         cfg.FetchBurst,
	}, log)
	return f, "http", func() {}
}
