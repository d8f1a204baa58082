package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/app"
)

var listCmd = &cobra.Command{
	Use:   "list [TERM]",
	Short: "List storefront products, optionally filtered by title, SKU or barcode",
	Example: `  sync list
  sync list 5601234567890
  sync list aqara`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
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

	var term string
	if len(args) == 1 {
		term = strings.ToLower(strings.TrimSpace(args[0]))
	}

	snapshot, err := pipeline.Shop.FetchSnapshot(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	shown := 0
	for _, listing := range snapshot {
		for _, v := range listing.Variants {
			if term != "" && !containsFold(term, listing.Title, v.SKU, v.Barcode) {
				continue
			}
			fmt.Fprintf(out, "%-16s %-14s %8s %5d  %s\n",
				orDash(v.Barcode), lastSegment(listing.ID), v.Price.StringFixed(2), v.Quantity, listing.Title)
			shown++
		}
	}
	fmt.Fprintf(out, "\n%d of %d products shown\n", shown, len(snapshot))
	return nil
}

func containsFold(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// lastSegment turns gid://shopify/Product/123 into 123
func lastSegment(gid string) string {
	if i := strings.LastIndex(gid, "/"); i >= 0 {
		return gid[i+1:]
	}
	return gid
}
