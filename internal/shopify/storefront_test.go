package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/config"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/pkg/errors"
)

// fakeAdmin answers GraphQL operations by name and records every request
type fakeAdmin struct {
	mu       sync.Mutex
	requests []GraphQLRequest
	handlers map[string]func(vars map[string]interface{}) string
}

func (f *fakeAdmin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.Header.Get("X-Shopify-Access-Token") != "shpat_test" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	for op, h := range f.handlers {
		if strings.Contains(req.Query, op) {
			_, _ = w.Write([]byte(h(req.Variables)))
			return
		}
	}
	http.Error(w, "unknown operation", http.StatusBadRequest)
}

func (f *fakeAdmin) ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.requests {
		for op := range f.handlers {
			if strings.Contains(r.Query, op) {
				out = append(out, op)
			}
		}
	}
	return out
}

func newTestStorefront(t *testing.T, admin *fakeAdmin, locationID string) *Storefront {
	t.Helper()
	srv := httptest.NewServer(admin)
	t.Cleanup(srv.Close)
	cfg := config.ShopifyConfig{AccessToken: "shpat_test", RateLimit: 1000}
	return NewStorefront(newClient(srv.URL, cfg, zap.NewNop()), locationID, zap.NewNop())
}

func TestNewClient_NormalizesDomain(t *testing.T) {
	c := NewClient(config.ShopifyConfig{ShopDomain: "https://wyzinc.myshopify.com/", APIVersion: "2025-01", RateLimit: 1}, nil)
	assert.Equal(t, "https://wyzinc.myshopify.com/admin/api/2025-01/graphql.json", c.endpoint)
}

func TestFetchSnapshot_Paginates(t *testing.T) {
	admin := &fakeAdmin{handlers: map[string]func(map[string]interface{}) string{
		"getProducts": func(vars map[string]interface{}) string {
			if vars["after"] == nil {
				return `{"data":{"products":{"pageInfo":{"hasNextPage":true,"endCursor":"c1"},"edges":[
					{"node":{"id":"gid://shopify/Product/1","title":"A","tags":["x"],"variants":{"edges":[
						{"node":{"id":"gid://shopify/ProductVariant/11","sku":"123","barcode":"","price":"19.90","inventoryQuantity":4,"inventoryItem":{"id":"gid://shopify/InventoryItem/111","tracked":true}}}
					]}}}]}}}`
			}
			assert.Equal(t, "c1", vars["after"])
			return `{"data":{"products":{"pageInfo":{"hasNextPage":false,"endCursor":"c2"},"edges":[
				{"node":{"id":"gid://shopify/Product/2","title":"B","variants":{"edges":[
					{"node":{"id":"gid://shopify/ProductVariant/21","sku":"","barcode":"456","price":"bad","inventoryQuantity":0,"inventoryItem":{"id":"gid://shopify/InventoryItem/211","tracked":false}}}
				]}}}]}}}`
		},
	}}
	sf := newTestStorefront(t, admin, "gid://shopify/Location/1")

	listings, err := sf.FetchSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 2)

	first := listings[0]
	assert.Equal(t, "gid://shopify/Product/1", first.ID)
	require.Len(t, first.Variants, 1)
	assert.Equal(t, "123", first.Variants[0].SKU)
	assert.True(t, first.Variants[0].Price.Equal(decimal.RequireFromString("19.90")))
	assert.Equal(t, 4, first.Variants[0].Quantity)
	assert.Equal(t, "gid://shopify/InventoryItem/111", first.Variants[0].InventoryItemID)

	assert.Equal(t, "456", listings[1].Variants[0].Barcode)
	assert.True(t, listings[1].Variants[0].Price.IsZero())
}

func TestFetchSnapshot_PagesVariants(t *testing.T) {
	admin := &fakeAdmin{handlers: map[string]func(map[string]interface{}) string{
		"getProducts": func(map[string]interface{}) string {
			return `{"data":{"products":{"pageInfo":{"hasNextPage":false,"endCursor":"p1"},"edges":[
				{"node":{"id":"gid://shopify/Product/1","title":"Kit","variants":{"pageInfo":{"hasNextPage":true,"endCursor":"v1"},"edges":[
					{"node":{"id":"gid://shopify/ProductVariant/11","sku":"111","barcode":"111","price":"1.00","inventoryQuantity":1,"inventoryItem":{"id":"gid://shopify/InventoryItem/111","tracked":true}}}
				]}}}]}}}`
		},
		"getProductVariants": func(vars map[string]interface{}) string {
			assert.Equal(t, "gid://shopify/Product/1", vars["id"])
			if vars["after"] == "v1" {
				return `{"data":{"product":{"variants":{"pageInfo":{"hasNextPage":true,"endCursor":"v2"},"edges":[
					{"node":{"id":"gid://shopify/ProductVariant/12","sku":"","barcode":"222","price":"2.00","inventoryQuantity":2,"inventoryItem":{"id":"gid://shopify/InventoryItem/112","tracked":true}}}
				]}}}}`
			}
			assert.Equal(t, "v2", vars["after"])
			return `{"data":{"product":{"variants":{"pageInfo":{"hasNextPage":false,"endCursor":"v3"},"edges":[
				{"node":{"id":"gid://shopify/ProductVariant/13","sku":"333","barcode":"","price":"3.00","inventoryQuantity":3,"inventoryItem":{"id":"gid://shopify/InventoryItem/113","tracked":true}}}
			]}}}}`
		},
	}}
	sf := newTestStorefront(t, admin, "gid://shopify/Location/1")

	listings, err := sf.FetchSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.Len(t, listings[0].Variants, 3)
	assert.Equal(t, "222", listings[0].Variants[1].Barcode)
	assert.Equal(t, "333", listings[0].Variants[2].SKU)
	assert.Equal(t, []string{"getProducts", "getProductVariants", "getProductVariants"}, admin.ops())
}

func TestFetchSnapshot_VariantPageError(t *testing.T) {
	admin := &fakeAdmin{handlers: map[string]func(map[string]interface{}) string{
		"getProducts": func(map[string]interface{}) string {
			return `{"data":{"products":{"pageInfo":{"hasNextPage":false,"endCursor":""},"edges":[
				{"node":{"id":"gid://shopify/Product/1","title":"Kit","variants":{"pageInfo":{"hasNextPage":true,"endCursor":"v1"},"edges":[]}}}]}}}`
		},
		"getProductVariants": func(map[string]interface{}) string {
			return `{"errors":[{"message":"Throttled"}]}`
		},
	}}
	sf := newTestStorefront(t, admin, "loc")

	_, err := sf.FetchSnapshot(context.Background())
	require.ErrorIs(t, err, errors.ErrTransport)
	assert.Contains(t, err.Error(), "gid://shopify/Product/1")
}

func TestFetchSnapshot_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	sf := NewStorefront(newClient(srv.URL, config.ShopifyConfig{RateLimit: 1000}, nil), "loc", nil)

	_, err := sf.FetchSnapshot(context.Background())
	assert.ErrorIs(t, err, errors.ErrTransport)
}

func TestFetchSnapshot_GraphQLErrors(t *testing.T) {
	admin := &fakeAdmin{handlers: map[string]func(map[string]interface{}) string{
		"getProducts": func(map[string]interface{}) string {
			return `{"errors":[{"message":"Throttled"}]}`
		},
	}}
	sf := newTestStorefront(t, admin, "loc")
	_, err := sf.FetchSnapshot(context.Background())
	require.ErrorIs(t, err, errors.ErrTransport)
	assert.Contains(t, err.Error(), "Throttled")
}

func listingFixture() *domain.StorefrontListing {
	return &domain.StorefrontListing{
		Title:       "Lâmpada",
		BodyHTML:    "<p>RGB</p>",
		Vendor:      "Aqara",
		ProductType: "Iluminação",
		Tags:        []string{"Aqara", "Casa Inteligente"},
		Images:      []string{"https://img/1.jpg"},
		Variants: []domain.Variant{{
			SKU:            "123",
			Barcode:        "123",
			Price:          decimal.RequireFromString("19.9"),
			Quantity:       5,
			TrackInventory: true,
		}},
	}
}

func TestCreateListing_ResolvesLocationOnce(t *testing.T) {
	var inputs []map[string]interface{}
	admin := &fakeAdmin{handlers: map[string]func(map[string]interface{}) string{
		"firstLocation": func(map[string]interface{}) string {
			return `{"data":{"locations":{"edges":[{"node":{"id":"gid://shopify/Location/9","name":"Armazém"}}]}}}`
		},
		"productSet": func(vars map[string]interface{}) string {
			inputs = append(inputs, vars["input"].(map[string]interface{}))
			return `{"data":{"productSet":{"product":{"id":"gid://shopify/Product/500","variants":{"edges":[]}},"userErrors":[]}}}`
		},
	}}
	sf := newTestStorefront(t, admin, "")

	for i := 0; i < 2; i++ {
		id, err := sf.CreateListing(context.Background(), listingFixture())
		require.NoError(t, err)
		assert.Equal(t, "gid://shopify/Product/500", id)
	}

	assert.Equal(t, []string{"firstLocation", "productSet", "productSet"}, admin.ops())
	require.Len(t, inputs, 2)
	input := inputs[0]
	assert.NotContains(t, input, "id")
	assert.Equal(t, "Lâmpada", input["title"])
	assert.Equal(t, "Aqara", input["vendor"])

	variants := input["variants"].([]interface{})
	require.Len(t, variants, 1)
	v := variants[0].(map[string]interface{})
	assert.Equal(t, "19.90", v["price"])
	assert.Equal(t, "123", v["barcode"])
	assert.Equal(t, map[string]interface{}{"sku": "123", "tracked": true}, v["inventoryItem"])
	qty := v["inventoryQuantities"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "gid://shopify/Location/9", qty["locationId"])
	assert.EqualValues(t, 5, qty["quantity"])

	files := input["files"].([]interface{})
	assert.Equal(t, "https://img/1.jpg", files[0].(map[string]interface{})["originalSource"])
}

func TestCreateListing_UserErrorsAreRejections(t *testing.T) {
	admin := &fakeAdmin{handlers: map[string]func(map[string]interface{}) string{
		"productSet": func(map[string]interface{}) string {
			return `{"data":{"productSet":{"product":null,"userErrors":[{"field":["input","title"],"message":"can't be blank"}]}}}`
		},
	}}
	sf := newTestStorefront(t, admin, "gid://shopify/Location/1")

	_, err := sf.CreateListing(context.Background(), listingFixture())
	require.ErrorIs(t, err, errors.ErrRejectedPayload)
	assert.Contains(t, err.Error(), "input.title: can't be blank")
}

func TestUpdateListing_SetsInventory(t *testing.T) {
	var setInput map[string]interface{}
	var productInput map[string]interface{}
	admin := &fakeAdmin{handlers: map[string]func(map[string]interface{}) string{
		"productSet": func(vars map[string]interface{}) string {
			productInput = vars["input"].(map[string]interface{})
			return `{"data":{"productSet":{"product":{"id":"gid://shopify/Product/77","variants":{"edges":[
				{"node":{"id":"gid://shopify/ProductVariant/770","inventoryItem":{"id":"gid://shopify/InventoryItem/7700"}}}]}},"userErrors":[]}}}`
		},
		"inventorySetQuantities": func(vars map[string]interface{}) string {
			setInput = vars["input"].(map[string]interface{})
			return `{"data":{"inventorySetQuantities":{"inventoryAdjustmentGroup":{"id":"g"},"userErrors":[]}}}`
		},
	}}
	sf := newTestStorefront(t, admin, "gid://shopify/Location/1")

	listing := listingFixture()
	listing.Variants[0].ID = "gid://shopify/ProductVariant/770"
	require.NoError(t, sf.UpdateListing(context.Background(), "gid://shopify/Product/77", listing))

	assert.Equal(t, "gid://shopify/Product/77", productInput["id"])
	v := productInput["variants"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "gid://shopify/ProductVariant/770", v["id"])
	assert.NotContains(t, v, "inventoryQuantities")

	assert.Equal(t, "available", setInput["name"])
	q := setInput["quantities"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "gid://shopify/InventoryItem/7700", q["inventoryItemId"])
	assert.Equal(t, "gid://shopify/Location/1", q["locationId"])
	assert.EqualValues(t, 5, q["quantity"])
}

func TestUpdateListing_EmptyID(t *testing.T) {
	sf := newTestStorefront(t, &fakeAdmin{}, "loc")
	assert.Error(t, sf.UpdateListing(context.Background(), "", listingFixture()))
}

func TestCheckAccess(t *testing.T) {
	admin := &fakeAdmin{handlers: map[string]func(map[string]interface{}) string{
		"shopInfo": func(map[string]interface{}) string {
			return `{"data":{"shop":{"name":"Wyzinc","myshopifyDomain":"wyzinc.myshopify.com"}}}`
		},
		"firstLocation": func(map[string]interface{}) string {
			return `{"data":{"locations":{"edges":[{"node":{"id":"gid://shopify/Location/9","name":"Armazém"}}]}}}`
		},
	}}
	sf := newTestStorefront(t, admin, "")

	info, err := sf.CheckAccess(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Wyzinc", info.Name)
	assert.Equal(t, "wyzinc.myshopify.com", info.Domain)
	assert.Equal(t, "gid://shopify/Location/9", info.LocationID)
}

func TestCheckAccess_NoLocation(t *testing.T) {
	admin := &fakeAdmin{handlers: map[string]func(map[string]interface{}) string{
		"shopInfo": func(map[string]interface{}) string {
			return `{"data":{"shop":{"name":"Wyzinc","myshopifyDomain":"wyzinc.myshopify.com"}}}`
		},
		"firstLocation": func(map[string]interface{}) string {
			return `{"data":{"locations":{"edges":[]}}}`
		},
	}}
	sf := newTestStorefront(t, admin, "")

	_, err := sf.CheckAccess(context.Background())
	assert.ErrorIs(t, err, errors.ErrNotFound)
}
