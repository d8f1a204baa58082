// Package input reads the product list that drives a reconciliation run.
//
// The format is one request per line, either "EAN" or "EAN/price". Blank
// lines are ignored. Prices accept either a dot or a comma as the decimal
// separator and an optional trailing euro sign.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/pkg/errors"
)

// Line is one non-blank input line: either a parsed request or the reason it
// could not be parsed.
type Line struct {
	Request domain.SyncRequest
	Err     error
}

// ReadFile parses the product list at path
func ReadFile(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open product list: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads every line from r. Only read errors are returned; malformed
// lines are reported in their Line.
func Parse(r io.Reader) ([]Line, error) {
	var lines []Line
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		raw := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		req, err := ParseLine(raw, n)
		lines = append(lines, Line{Request: req, Err: err})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read product list: %w", err)
	}
	return lines, nil
}

// ParseLine parses a single trimmed line. The returned request always carries
// the EAN and line number, even when err is non-nil, so failures can be
// reported against the identifier.
func ParseLine(raw string, lineNo int) (domain.SyncRequest, error) {
	ean, price, hasPrice := strings.Cut(raw, "/")
	req := domain.SyncRequest{EAN: strings.TrimSpace(ean), Line: lineNo}

	if req.EAN == "" {
		return req, &errors.MalformedInputError{Line: lineNo, Raw: raw, Message: "missing EAN"}
	}
	if strings.ContainsAny(req.EAN, " \t") {
		return req, &errors.MalformedInputError{Line: lineNo, Raw: raw, Message: "EAN contains whitespace"}
	}
	if !hasPrice {
		return req, nil
	}

	override, err := parsePrice(price)
	if err != nil {
		return req, &errors.MalformedInputError{Line: lineNo, Raw: raw, Message: err.Error()}
	}
	req.PriceOverride = &override
	return req, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "€"))
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty price override")
	}
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			// 1.299,90
			s = strings.ReplaceAll(s, ".", "")
		}
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price override %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price override %s", d)
	}
	return d, nil
}

// FileSource re-reads the product list at the given path on every run
type FileSource string

func (f FileSource) Lines() ([]Line, error) {
	return ReadFile(string(f))
}
