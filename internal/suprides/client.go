package suprides

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/config"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/pkg/errors"
)

const productsListPath = "/rest/V1/integration/products-list"

// Client calls the Suprides integration API
type Client struct {
	baseURL    string
	bearer     string
	user       string
	password   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Suprides HTTP client
func NewClient(cfg config.SupridesConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		bearer:     cfg.Bearer,
		user:       cfg.User,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// productDTO is the products-list item shape (subset used for sync)
type productDTO struct {
	EAN         string              `json:"ean"`
	SKU         string              `json:"sku"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Brand       string              `json:"brand"`
	Family      string              `json:"family"`
	SubFamily   string              `json:"sub_family"`
	Line        string              `json:"line"`
	PVPR        decimal.NullDecimal `json:"pvpr"`
	Stock       string              `json:"stock"`
	Images      []string            `json:"images"`
}

func (p productDTO) toRecord(requested string) *domain.SupplierRecord {
	ean := strings.TrimSpace(p.EAN)
	if ean == "" {
		ean = requested
	}
	rec := &domain.SupplierRecord{
		EAN:         ean,
		Name:        strings.TrimSpace(p.Name),
		Description: p.Description,
		Brand:       strings.TrimSpace(p.Brand),
		Family:      strings.TrimSpace(p.Family),
		SubFamily:   strings.TrimSpace(p.SubFamily),
		ProductLine: strings.TrimSpace(p.Line),
		StockText:   p.Stock,
	}
	if p.PVPR.Valid {
		rec.ListPrice = p.PVPR.Decimal
	}
	for _, img := range p.Images {
		if img = strings.TrimSpace(img); img != "" {
			rec.Images = append(rec.Images, img)
		}
	}
	return rec
}

// FetchRecord looks up one product by EAN. An empty result is a NotFoundError;
// network failures and non-200 responses are TransportErrors.
func (c *Client) FetchRecord(ctx context.Context, ean string) (*domain.SupplierRecord, error) {
	u, err := url.Parse(c.baseURL + productsListPath)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("EAN", ean)
	if c.user != "" {
		q.Set("user", c.user)
		q.Set("password", c.password)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Suprides request failed", zap.Error(err), zap.String("ean", ean))
		return nil, &errors.TransportError{Service: "suprides", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.TransportError{Service: "suprides", Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, &errors.NotFoundError{Resource: "supplier product", ID: ean}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &errors.TransportError{Service: "suprides", StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", truncate(body, 512))}
	}

	products, err := parseProducts(body)
	if err != nil {
		return nil, &errors.TransportError{Service: "suprides", Err: err}
	}
	if len(products) == 0 {
		return nil, &errors.NotFoundError{Resource: "supplier product", ID: ean}
	}
	return products[0].toRecord(ean), nil
}

// parseProducts accepts the list body; Magento answers "false" or "null" for no results.
func parseProducts(raw []byte) ([]productDTO, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" || trimmed == "false" {
		return nil, nil
	}
	var out []productDTO
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to parse products-list response: %w", err)
	}
	return out, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
