package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"b2b-market-scraper/config"
	"b2b-market-scraper/internal/app"
)

var (
	configPath string
	current    *app.App
)

var rootCmd = &cobra.Command{
	Use:           "b2bscrape",
	Short:         "b2bscrape scrapes B2B marketplace listings and cleans them into an analysis-ready dataset.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		current, err = app.New(cfg)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current != nil {
			current.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (default: ./config.yaml if present).")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func stamp() string {
	return time.Now().Format("20060102_150405")
}
