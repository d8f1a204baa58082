package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/app"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/catalog"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/input"
)

var previewJSON bool

var previewCmd = &cobra.Command{
	Use:   "preview EAN[/price]...",
	Short: "Show what a run would do for the given EANs without writing",
	Long: `Looks each EAN up in Suprides and in a fresh Shopify snapshot and prints
the planned action, price, stock and categories. Nothing is written.`,
	Example: `  sync preview 5601234567890
  sync preview 5601234567890/19,90 8435489901234 --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "print the planned listing as JSON")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, zl, err := setup()
	if err != nil {
		return err
	}
	defer zl.Sync()

	ctx := cmd.Context()
	pipeline, err := app.Build(ctx, cfg, app.Options{DryRun: true, NoLedger: true}, zl)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	out := cmd.OutOrStdout()
	failed := 0
	for i, arg := range args {
		req, err := input.ParseLine(arg, i+1)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", arg, err)
			failed++
			continue
		}

		pv, err := pipeline.Reconciler.Preview(ctx, req)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", req.EAN, err)
			failed++
			continue
		}

		if previewJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(pv.Plan.Listing); err != nil {
				return err
			}
			continue
		}

		fmt.Fprintf(out, "EAN %s\n", req.EAN)
		fmt.Fprintf(out, "  Supplier:  %s (%s)\n", pv.Record.Name, pv.Record.Brand)
		fmt.Fprintf(out, "  Action:    %s", pv.Plan.Action)
		if pv.Plan.Listing.ID != "" {
			fmt.Fprintf(out, " %s", pv.Plan.Listing.ID)
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Price:     %s\n", catalog.ResolvePrice(pv.Record, req).StringFixed(2))
		fmt.Fprintf(out, "  Stock:     %d (%q)\n", pv.Stock, pv.Record.StockText)
		if pv.Plan.QuantityUnchanged {
			fmt.Fprintf(out, "             unchanged from %d\n", pv.Plan.PreviousQuantity)
		}
		fmt.Fprintf(out, "  Category:  %s\n", orDash(string(pv.Categories.Main)))
		fmt.Fprintf(out, "  Tags:      %s\n", orDash(strings.Join(pv.Categories.Tags, ", ")))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(args))
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
