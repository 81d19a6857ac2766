package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/user/careerscan/internal/adapter/chromedp_crawler"
	"github.com/user/careerscan/pkg/config"
	"github.com/user/careerscan/pkg/logger"
)

func main() {
	// Exported to the process so the browser child sees the same environment.
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "careerscan",
		Short:         "Crawl organization career pages for matching job postings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().Int("batch-size", 0, "pages fetched concurrently per batch")
	root.PersistentFlags().String("chrome-path", "", "path to the Chrome executable")
	root.PersistentFlags().Bool("headless", true, "run the browser headless")

	root.AddCommand(newSearchCommand())
	root.AddCommand(newServeCommand())
	return root
}

var persistentFlagKeys = map[string]string{
	"log-level":   "LOG_LEVEL",
	"batch-size":  "BATCH_SIZE",
	"chrome-path": "CHROME_PATH",
	"headless":    "HEADLESS",
}

// loadConfig layers explicitly set flags over the environment and initializes logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New()
	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}
	cfg, err := config.Decode(v)
	if err != nil {
		return nil, err
	}

	logger.Init(os.Stderr, logger.ParseLevel(cfg.LogLevel))
	slog.Debug("Configuration loaded", "batch_size", cfg.BatchSize, "headless", cfg.Headless)
	return cfg, nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range persistentFlagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func newRenderer(cfg *config.Config) (*chromedp_crawler.ChromedpRenderer, error) {
	return chromedp_crawler.NewChromedpRenderer(chromedp_crawler.Options{
		ExecPath:          cfg.ChromePath,
		Headless:          cfg.Headless,
		NavigationTimeout: cfg.NavigationTimeout(),
		SettleDelay:       cfg.SettleDelay(),
	}, slog.Default())
}
