package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
)

func supplierFixture() *domain.SupplierRecord {
	return &domain.SupplierRecord{
		EAN:         "123",
		Name:        "Lâmpada Inteligente E27",
		Description: "<p>Lâmpada RGB</p>",
		Brand:       "Aqara",
		Family:      "Iluminação",
		SubFamily:   "Lâmpadas",
		ListPrice:   decimal.RequireFromString("19.90"),
		StockText:   "Disponível ( < 10 UN )",
		Images:      []string{"https://cdn.example/1.jpg", "https://cdn.example/2.jpg"},
	}
}

func planFor(rec *domain.SupplierRecord, req domain.SyncRequest, snapshot []domain.StorefrontListing) Plan {
	var existing *Match
	if m, ok := FindByEAN(snapshot, req.EAN); ok {
		existing = &m
	}
	return BuildPlan(rec, req, existing, DeriveCategories(rec), NormalizeStock(rec.StockText))
}

func TestBuildPlan_CreateWhenAbsent(t *testing.T) {
	rec := supplierFixture()
	plan := planFor(rec, domain.SyncRequest{EAN: "123"}, nil)

	assert.Equal(t, domain.ActionCreate, plan.Action)
	assert.Empty(t, plan.Listing.ID)
	require.Len(t, plan.Listing.Variants, 1)
	v := plan.Listing.Variants[0]
	assert.True(t, v.Price.Equal(decimal.RequireFromString("19.90")))
	assert.Equal(t, 5, v.Quantity)
	assert.Equal(t, "123", v.SKU)
	assert.Equal(t, "123", v.Barcode)
	assert.True(t, v.TrackInventory)

	assert.Equal(t, rec.Name, plan.Listing.Title)
	assert.Equal(t, rec.Description, plan.Listing.BodyHTML)
	assert.Equal(t, "Aqara", plan.Listing.Vendor)
	assert.Equal(t, "Iluminação", plan.Listing.ProductType)
	assert.Equal(t, []string{"Aqara", "Iluminação", "Lâmpadas", "Casa Inteligente"}, plan.Listing.Tags)
	assert.Equal(t, rec.Images, plan.Listing.Images)
}

func TestBuildPlan_UpdateWhenPresent(t *testing.T) {
	snapshot := []domain.StorefrontListing{{
		ID:       "gid://shopify/Product/77",
		Title:    "Old title",
		Tags:     []string{"stale"},
		Variants: []domain.Variant{{ID: "gid://shopify/ProductVariant/770", SKU: "123", InventoryItemID: "gid://shopify/InventoryItem/7700", Quantity: 5}},
	}}
	plan := planFor(supplierFixture(), domain.SyncRequest{EAN: "123"}, snapshot)

	assert.Equal(t, domain.ActionUpdate, plan.Action)
	assert.Equal(t, "gid://shopify/Product/77", plan.Listing.ID)
	assert.Equal(t, "gid://shopify/ProductVariant/770", plan.Listing.Variants[0].ID)
	assert.Equal(t, "gid://shopify/InventoryItem/7700", plan.Listing.Variants[0].InventoryItemID)
	assert.NotContains(t, plan.Listing.Tags, "stale")
	assert.Equal(t, "Lâmpada Inteligente E27", plan.Listing.Title)
	// Same quantity still produces an UPDATE.
	assert.True(t, plan.QuantityUnchanged)
	assert.Equal(t, 5, plan.PreviousQuantity)
}

func TestBuildPlan_NeverSkipsOrDeletes(t *testing.T) {
	rec := supplierFixture()
	for _, snapshot := range [][]domain.StorefrontListing{nil, {{ID: "x", Variants: []domain.Variant{{Barcode: "123"}}}}} {
		plan := planFor(rec, domain.SyncRequest{EAN: "123"}, snapshot)
		assert.Contains(t, []domain.Action{domain.ActionCreate, domain.ActionUpdate}, plan.Action)
	}
}

func TestBuildPlan_PriceOverrideWins(t *testing.T) {
	override := decimal.RequireFromString("9.99")
	for _, list := range []string{"0", "19.90", "1000"} {
		rec := supplierFixture()
		rec.ListPrice = decimal.RequireFromString(list)
		plan := planFor(rec, domain.SyncRequest{EAN: "123", PriceOverride: &override}, nil)
		assert.True(t, plan.Listing.Variants[0].Price.Equal(override), "list price %s", list)
	}
}

func TestBuildPlan_DefaultProductType(t *testing.T) {
	rec := supplierFixture()
	rec.Family = ""
	plan := planFor(rec, domain.SyncRequest{EAN: "123"}, nil)
	assert.Equal(t, DefaultProductType, plan.Listing.ProductType)
}

func TestBuildPlan_ExplicitQuantity(t *testing.T) {
	rec := supplierFixture()
	rec.StockText = "Disponível ( 7 UN )"
	plan := planFor(rec, domain.SyncRequest{EAN: "123"}, nil)
	assert.Equal(t, 7, plan.Listing.Variants[0].Quantity)
}

func TestBuildPlan_DoesNotAliasRecordImages(t *testing.T) {
	rec := supplierFixture()
	plan := planFor(rec, domain.SyncRequest{EAN: "123"}, nil)
	plan.Listing.Images[0] = "mutated"
	assert.Equal(t, "https://cdn.example/1.jpg", rec.Images[0])
}
