// Command sync runs a single reconciliation pass from the command line.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/app"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/config"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/logger"
)

var (
	envFile   string
	logLevel  string
	dryRun    bool
	inputPath string
	noLedger  bool
)

var rootCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the products list against the Shopify catalog",
	Long: `Reads the products list (one "EAN[/price]" per line), looks every EAN up
in the Suprides feed and creates or updates the matching Shopify product.

Exits with status 1 when the run is aborted or cannot start.`,
	Example: `  sync --dry-run
  sync --input ./productslist.txt --no-ledger
  sync preview 5601234567890/19,90
  sync stock "Disponível ( < 10 UN )"`,
	SilenceUsage: true,
	RunE:         runSync,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load variables from this file before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "plan every item without writing to Shopify")
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "products list path (default PRODUCTS_LIST_PATH)")
	rootCmd.Flags().BoolVar(&noLedger, "no-ledger", false, "do not record the run in the database")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger shared by every subcommand
func setup() (*config.Config, *zap.Logger, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	zl, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize logger: %w", err)
	}
	return cfg, zl, nil
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, zl, err := setup()
	if err != nil {
		return err
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeline, err := app.Build(ctx, cfg, app.Options{
		DryRun:    dryRun,
		InputPath: inputPath,
		NoLedger:  noLedger,
	}, zl)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	report, err := pipeline.Runner.RunOnce(ctx)
	if report != nil {
		fmt.Fprintln(cmd.OutOrStdout(), report.Summary())
		fmt.Fprintf(cmd.OutOrStdout(), "run %s finished in %s\n", report.ID, report.Duration().Round(time.Millisecond))
	}
	if err != nil {
		return err
	}
	if report != nil && report.Aborted {
		return fmt.Errorf("run aborted: %s", report.AbortError)
	}
	return nil
}
