package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// LowStockEstimate is used for "< 10 UN"; a conservative guess, not the bound.
	LowStockEstimate = 5
	// DefaultStockEstimate covers "> 10 UN" and available-without-quantity.
	DefaultStockEstimate = 20
)

var (
	quantityPattern = regexp.MustCompile(`(\d+)\s*un`)

	availableMarkers = []string{"disponível", "disponivel", "available"}
	soldOutMarkers   = []string{"indisponível", "indisponivel", "unavailable", "esgotado", "sem stock"}
)

// NormalizeStock converts a Suprides stock string into a sellable quantity.
// The rules are ordered, first match wins:
//
//	blank                         -> 0
//	not available                 -> 0
//	"<digits> UN"                 -> digits
//	"< 10"                        -> 5
//	"> 10"                        -> 20
//	available, no quantity        -> 20
func NormalizeStock(stockText string) int {
	text := strings.ToLower(strings.TrimSpace(stockText))
	if text == "" {
		return 0
	}
	if !isAvailable(text) {
		return 0
	}
	// "< 10 UN" also matches the quantity pattern; the comparison operator
	// in front of the number means it is a bound, not a count.
	for _, m := range quantityPattern.FindAllStringSubmatchIndex(text, -1) {
		if boundedBefore(text, m[2]) {
			continue
		}
		if n, err := strconv.Atoi(text[m[2]:m[3]]); err == nil {
			return n
		}
	}
	compact := strings.ReplaceAll(text, " ", "")
	if strings.Contains(compact, "<10") {
		return LowStockEstimate
	}
	if strings.Contains(compact, ">10") {
		return DefaultStockEstimate
	}
	return DefaultStockEstimate
}

func isAvailable(text string) bool {
	for _, marker := range soldOutMarkers {
		if strings.Contains(text, marker) {
			return false
		}
	}
	for _, marker := range availableMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// boundedBefore reports whether the number starting at idx is preceded by < or >.
func boundedBefore(text string, idx int) bool {
	prefix := strings.TrimRight(text[:idx], " ")
	return strings.HasSuffix(prefix, "<") || strings.HasSuffix(prefix, ">")
}
