package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/api/middleware"
)

func runHashKeyCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	hashKeyInput = ""
	t.Cleanup(func() {
		hashKeyInput = ""
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"hash-key"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func hashFromOutput(t *testing.T, out string) string {
	t.Helper()
	first, _, _ := strings.Cut(out, "\n")
	hash, ok := strings.CutPrefix(first, "ADMIN_API_KEY_HASH=")
	require.True(t, ok, "unexpected output %q", out)
	return hash
}

func TestHashKey(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "flag", args: []string{"--api-key", "s3cr3t"}},
		{name: "argument", args: []string{"s3cr3t"}},
		{name: "stdin trimmed", stdin: "  s3cr3t \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runHashKeyCmd(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			hash := hashFromOutput(t, out)
			assert.True(t, middleware.VerifyAPIKey("s3cr3t", hash))
			assert.False(t, middleware.VerifyAPIKey("other", hash))
		})
	}
}

func TestHashKey_EmptyKey(t *testing.T) {
	_, err := runHashKeyCmd(t, "   \n")
	assert.Error(t, err)

	_, err = runHashKeyCmd(t, "")
	assert.Error(t, err)
}
