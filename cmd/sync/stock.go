package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/catalog"
)

var stockCmd = &cobra.Command{
	Use:     "stock TEXT...",
	Short:   "Print the quantity a supplier stock text normalizes to",
	Example: `  sync stock "Disponível ( < 10 UN )" "Disponível ( 7 UN )" "Esgotado"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, text := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "%-40q %d\n", text, catalog.NormalizeStock(text))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stockCmd)
}
