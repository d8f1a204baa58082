package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/api/middleware"
)

var hashKeyInput string

var hashKeyCmd = &cobra.Command{
	Use:   "hash-key [KEY]",
	Short: "Print the ADMIN_API_KEY_HASH line for an admin API key",
	Long: `Hashes an admin API key with bcrypt. The key is taken from --api-key, the
first argument, or the first line of stdin, in that order.`,
	Example: `  sync hash-key --api-key "your-admin-key"
  echo "your-admin-key" | sync hash-key`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHashKey,
}

func init() {
	hashKeyCmd.Flags().StringVar(&hashKeyInput, "api-key", "", "admin API key to hash")
	rootCmd.AddCommand(hashKeyCmd)
}

func runHashKey(cmd *cobra.Command, args []string) error {
	apiKey := hashKeyInput
	if apiKey == "" && len(args) == 1 {
		apiKey = args[0]
	}
	if apiKey == "" {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("no API key given: use --api-key, an argument or stdin")
		}
		apiKey = line
	}
	// The middleware trims the Bearer token, so the stored hash must match the trimmed key
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("API key cannot be empty after trimming")
	}

	hash, err := middleware.HashAPIKey(apiKey)
	if err != nil {
		return fmt.Errorf("hash API key: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ADMIN_API_KEY_HASH=%s\n", hash)
	fmt.Fprintln(out, "\nAdd this line to the server environment, then call the admin endpoints with:")
	fmt.Fprintln(out, "Authorization: Bearer <your-admin-key>")
	return nil
}
