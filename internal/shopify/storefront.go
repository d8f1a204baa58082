package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/pkg/errors"
)

const (
	snapshotPageSize   = 50
	variantPageSize    = 100
	defaultOptionName  = "Title"
	defaultOptionValue = "Default Title"
)

// Storefront reads and writes listings through the Admin GraphQL API
type Storefront struct {
	client     *Client
	logger     *zap.Logger
	locationID string
	locMu      sync.Mutex
}

// NewStorefront creates a storefront adapter; an empty locationID is resolved
// to the shop's first location on first use.
func NewStorefront(client *Client, locationID string, logger *zap.Logger) *Storefront {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Storefront{client: client, locationID: locationID, logger: logger}
}

// FetchSnapshot returns every product with its variants, following cursors
// until the last page.
func (s *Storefront) FetchSnapshot(ctx context.Context) ([]domain.StorefrontListing, error) {
	var listings []domain.StorefrontListing
	after := ""
	for page := 1; ; page++ {
		variables := map[string]interface{}{
			"first": snapshotPageSize,
		}
		if after != "" {
			variables["after"] = after
		}

		resp, err := s.client.Execute(ctx, ProductsSnapshotQuery, variables)
		if err != nil {
			return nil, fmt.Errorf("fetch products page %d: %w", page, err)
		}

		var result snapshotPage
		if err := json.Unmarshal(resp.Data, &result); err != nil {
			return nil, fmt.Errorf("parse products page %d: %w", page, err)
		}

		for _, edge := range result.Products.Edges {
			node := edge.Node
			if node.Variants.PageInfo.HasNextPage {
				if err := s.fetchRemainingVariants(ctx, &node); err != nil {
					return nil, err
				}
			}
			listings = append(listings, node.toListing())
		}

		if !result.Products.PageInfo.HasNextPage || result.Products.PageInfo.EndCursor == "" {
			break
		}
		after = result.Products.PageInfo.EndCursor
	}

	s.logger.Info("Fetched storefront snapshot", zap.Int("products", len(listings)))
	return listings, nil
}

// fetchRemainingVariants appends the variant pages after the first to p
func (s *Storefront) fetchRemainingVariants(ctx context.Context, p *productNode) error {
	after := p.Variants.PageInfo.EndCursor
	for after != "" {
		variables := map[string]interface{}{
			"id":    p.ID,
			"first": variantPageSize,
			"after": after,
		}
		resp, err := s.client.Execute(ctx, ProductVariantsQuery, variables)
		if err != nil {
			return fmt.Errorf("fetch variants of %s: %w", p.ID, err)
		}

		var result struct {
			Product *struct {
				Variants variantConnection `json:"variants"`
			} `json:"product"`
		}
		if err := json.Unmarshal(resp.Data, &result); err != nil {
			return fmt.Errorf("parse variants of %s: %w", p.ID, err)
		}
		if result.Product == nil {
			return &errors.NotFoundError{Resource: "product", ID: p.ID}
		}

		page := result.Product.Variants
		p.Variants.Edges = append(p.Variants.Edges, page.Edges...)
		if !page.PageInfo.HasNextPage {
			break
		}
		after = page.PageInfo.EndCursor
	}
	s.logger.Debug("Fetched extra variant pages", zap.String("product_id", p.ID), zap.Int("variants", len(p.Variants.Edges)))
	return nil
}

func (p productNode) toListing() domain.StorefrontListing {
	listing := domain.StorefrontListing{
		ID:          p.ID,
		Title:       p.Title,
		BodyHTML:    p.DescriptionHTML,
		Vendor:      p.Vendor,
		ProductType: p.ProductType,
		Tags:        p.Tags,
	}
	for _, edge := range p.Variants.Edges {
		v := edge.Node
		price, err := decimal.NewFromString(v.Price)
		if err != nil {
			price = decimal.Zero
		}
		listing.Variants = append(listing.Variants, domain.Variant{
			ID:              v.ID,
			SKU:             v.SKU,
			Barcode:         v.Barcode,
			Price:           price,
			InventoryItemID: v.InventoryItem.ID,
			Quantity:        v.InventoryQuantity,
			TrackInventory:  v.InventoryItem.Tracked,
		})
	}
	return listing
}

// CreateListing creates the product with its single variant and initial stock
func (s *Storefront) CreateListing(ctx context.Context, listing *domain.StorefrontListing) (string, error) {
	locationID, err := s.location(ctx)
	if err != nil {
		return "", err
	}
	input := buildProductSetInput(listing, locationID)
	input.ID = nil

	product, err := s.productSet(ctx, input)
	if err != nil {
		return "", err
	}
	s.logger.Info("Created listing", zap.String("product_id", product.ID), zap.String("title", listing.Title))
	return product.ID, nil
}

// UpdateListing overwrites the product fields and sets the variant's available quantity
func (s *Storefront) UpdateListing(ctx context.Context, id string, listing *domain.StorefrontListing) error {
	if id == "" {
		return fmt.Errorf("update listing: empty product id")
	}
	locationID, err := s.location(ctx)
	if err != nil {
		return err
	}
	input := buildProductSetInput(listing, "")
	input.ID = &id

	product, err := s.productSet(ctx, input)
	if err != nil {
		return err
	}

	if len(listing.Variants) == 0 {
		return nil
	}
	inventoryItemID := product.inventoryItemID()
	if inventoryItemID == "" {
		inventoryItemID = listing.Variants[0].InventoryItemID
	}
	if inventoryItemID == "" {
		return fmt.Errorf("update listing %s: no inventory item to set quantity on", id)
	}
	return s.setAvailable(ctx, inventoryItemID, locationID, listing.Variants[0].Quantity)
}

func buildProductSetInput(listing *domain.StorefrontListing, locationID string) ProductSetInput {
	input := ProductSetInput{
		Title:           listing.Title,
		DescriptionHTML: listing.BodyHTML,
		Vendor:          listing.Vendor,
		ProductType:     listing.ProductType,
		Tags:            listing.Tags,
		ProductOptions: []OptionSetInput{{
			Name:   defaultOptionName,
			Values: []OptionValueSetInput{{Name: defaultOptionValue}},
		}},
	}
	if input.Tags == nil {
		input.Tags = []string{}
	}
	for _, src := range listing.Images {
		input.Files = append(input.Files, FileSetInput{OriginalSource: src, ContentType: "IMAGE"})
	}
	for _, v := range listing.Variants {
		vi := ProductVariantSetInput{
			OptionValues:  []VariantOptionValueInput{{OptionName: defaultOptionName, Name: defaultOptionValue}},
			Price:         v.Price.StringFixed(2),
			Barcode:       v.Barcode,
			InventoryItem: InventoryItemInput{SKU: v.SKU, Tracked: v.TrackInventory},
		}
		if v.ID != "" {
			id := v.ID
			vi.ID = &id
		}
		if locationID != "" {
			vi.InventoryQuantities = []InventoryQuantityInput{{
				LocationID: locationID,
				Name:       "available",
				Quantity:   v.Quantity,
			}}
		}
		input.Variants = append(input.Variants, vi)
	}
	return input
}

type productSetProduct struct {
	ID       string `json:"id"`
	Variants struct {
		Edges []struct {
			Node struct {
				ID            string `json:"id"`
				InventoryItem struct {
					ID string `json:"id"`
				} `json:"inventoryItem"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

func (p *productSetProduct) inventoryItemID() string {
	if len(p.Variants.Edges) == 0 {
		return ""
	}
	return p.Variants.Edges[0].Node.InventoryItem.ID
}

func (s *Storefront) productSet(ctx context.Context, input ProductSetInput) (*productSetProduct, error) {
	variables := map[string]interface{}{
		"input":       input,
		"synchronous": true,
	}
	resp, err := s.client.Execute(ctx, ProductSetMutation, variables)
	if err != nil {
		return nil, err
	}

	var result struct {
		ProductSet struct {
			Product    *productSetProduct `json:"product"`
			UserErrors []errors.UserError `json:"userErrors"`
		} `json:"productSet"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse productSet response: %w", err)
	}
	if len(result.ProductSet.UserErrors) > 0 {
		return nil, &errors.RejectedPayloadError{UserErrors: result.ProductSet.UserErrors}
	}
	if result.ProductSet.Product == nil || result.ProductSet.Product.ID == "" {
		return nil, fmt.Errorf("productSet returned no product")
	}
	return result.ProductSet.Product, nil
}

func (s *Storefront) setAvailable(ctx context.Context, inventoryItemID, locationID string, quantity int) error {
	input := InventorySetQuantitiesInput{
		Name:                  "available",
		Reason:                "correction",
		IgnoreCompareQuantity: true,
		Quantities: []InventoryQuantityEntry{{
			InventoryItemID: inventoryItemID,
			LocationID:      locationID,
			Quantity:        quantity,
		}},
	}
	resp, err := s.client.Execute(ctx, InventorySetQuantitiesMutation, map[string]interface{}{"input": input})
	if err != nil {
		return err
	}
	var result struct {
		InventorySetQuantities struct {
			UserErrors []errors.UserError `json:"userErrors"`
		} `json:"inventorySetQuantities"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse inventorySetQuantities response: %w", err)
	}
	if len(result.InventorySetQuantities.UserErrors) > 0 {
		return &errors.RejectedPayloadError{UserErrors: result.InventorySetQuantities.UserErrors}
	}
	return nil
}

// location returns the configured location or looks up and remembers the first one
func (s *Storefront) location(ctx context.Context) (string, error) {
	s.locMu.Lock()
	defer s.locMu.Unlock()
	if s.locationID != "" {
		return s.locationID, nil
	}

	resp, err := s.client.Execute(ctx, FirstLocationQuery, nil)
	if err != nil {
		return "", fmt.Errorf("resolve inventory location: %w", err)
	}
	var result struct {
		Locations struct {
			Edges []struct {
				Node struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"locations"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return "", fmt.Errorf("parse locations response: %w", err)
	}
	if len(result.Locations.Edges) == 0 {
		return "", &errors.NotFoundError{Resource: "inventory location", ID: "first"}
	}
	loc := result.Locations.Edges[0].Node
	s.logger.Info("Using inventory location", zap.String("location_id", loc.ID), zap.String("name", loc.Name))
	s.locationID = loc.ID
	return s.locationID, nil
}

// ShopInfo identifies the shop behind the configured credentials
type ShopInfo struct {
	Name       string `json:"name"`
	Domain     string `json:"myshopifyDomain"`
	LocationID string `json:"-"`
}

// CheckAccess reads the shop identity and resolves the inventory location.
// It fails the same way a run would when the token lacks access.
func (s *Storefront) CheckAccess(ctx context.Context) (*ShopInfo, error) {
	resp, err := s.client.Execute(ctx, ShopInfoQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("read shop info: %w", err)
	}
	var result struct {
		Shop ShopInfo `json:"shop"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse shop info: %w", err)
	}

	locationID, err := s.location(ctx)
	if err != nil {
		return nil, err
	}
	info := result.Shop
	info.LocationID = locationID
	return &info, nil
}
