package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
)

// DefaultProductType is used when the supplier family is blank
const DefaultProductType = "Sem categoria"

// Plan is the upsert decision for one sync request
type Plan struct {
	Action  domain.Action
	Listing domain.StorefrontListing
	// QuantityUnchanged is informational only; an UPDATE is still issued.
	QuantityUnchanged bool
	PreviousQuantity  int
}

// ResolvePrice returns the manual override when present, else the supplier list price.
func ResolvePrice(rec *domain.SupplierRecord, req domain.SyncRequest) decimal.Decimal {
	if req.PriceOverride != nil {
		return *req.PriceOverride
	}
	return rec.ListPrice
}

// BuildPlan builds the full listing payload and decides CREATE or UPDATE.
// Title, body, vendor, product type, tags and images always come from the
// supplier record; existing storefront values are overwritten, never merged.
func BuildPlan(rec *domain.SupplierRecord, req domain.SyncRequest, existing *Match, cats domain.CategoryAssignment, stock int) Plan {
	productType := rec.Family
	if productType == "" {
		productType = DefaultProductType
	}

	variant := domain.Variant{
		SKU:            rec.EAN,
		Barcode:        rec.EAN,
		Price:          ResolvePrice(rec, req),
		Quantity:       stock,
		TrackInventory: true,
	}

	listing := domain.StorefrontListing{
		Title:       rec.Name,
		BodyHTML:    rec.Description,
		Vendor:      rec.Brand,
		ProductType: productType,
		Tags:        append([]string(nil), cats.Tags...),
		Images:      append([]string(nil), rec.Images...),
	}

	plan := Plan{Action: domain.ActionCreate}
	if existing != nil && existing.Listing != nil {
		plan.Action = domain.ActionUpdate
		listing.ID = existing.Listing.ID
		if existing.Variant != nil {
			variant.ID = existing.Variant.ID
			variant.InventoryItemID = existing.Variant.InventoryItemID
			plan.PreviousQuantity = existing.Variant.Quantity
			plan.QuantityUnchanged = existing.Variant.Quantity == stock
		}
	}
	listing.Variants = []domain.Variant{variant}
	plan.Listing = listing
	return plan
}
