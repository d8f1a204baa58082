package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/app"
)

var checkEAN string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify Shopify and Suprides credentials",
	Long: `Reads the shop identity and inventory location with the configured Admin
API token. With --ean, also looks the EAN up in the Suprides feed.

Required Admin API scopes: read_products, write_products, read_inventory,
write_inventory, read_locations.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkEAN, "ean", "", "EAN to look up in Suprides")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, zl, err := setup()
	if err != nil {
		return err
	}
	defer zl.Sync()

	ctx := cmd.Context()
	pipeline, err := app.Build(ctx, cfg, app.Options{DryRun: true, NoLedger: true, NoCache: true}, zl)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	out := cmd.OutOrStdout()
	failed := false

	fmt.Fprintln(out, "1. Shopify Admin API...")
	info, err := pipeline.Shop.CheckAccess(ctx)
	if err != nil {
		fmt.Fprintf(out, "   ❌ Failed: %v\n", err)
		failed = true
	} else {
		fmt.Fprintf(out, "   ✅ %s (%s), location %s\n", info.Name, info.Domain, info.LocationID)
	}

	if checkEAN != "" {
		fmt.Fprintf(out, "2. Suprides lookup for EAN %s...\n", checkEAN)
		rec, err := pipeline.Supplier.FetchRecord(ctx, checkEAN)
		if err != nil {
			fmt.Fprintf(out, "   ❌ Failed: %v\n", err)
			failed = true
		} else {
			fmt.Fprintf(out, "   ✅ %s, %s€, stock %q\n", rec.Name, rec.ListPrice.StringFixed(2), rec.StockText)
		}
	}

	if failed {
		return fmt.Errorf("access check failed")
	}
	return nil
}
