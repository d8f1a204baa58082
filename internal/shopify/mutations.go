package shopify

// ProductSetMutation creates a product (no id) or overwrites one (with id)
const ProductSetMutation = `
mutation productSet($input: ProductSetInput!, $synchronous: Boolean!) {
  productSet(input: $input, synchronous: $synchronous) {
    product {
      id
      variants(first: 1) {
        edges {
          node {
            id
            inventoryItem {
              id
            }
          }
        }
      }
    }
    userErrors {
      field
      message
    }
  }
}
`

// InventorySetQuantitiesMutation sets the absolute "available" quantity
const InventorySetQuantitiesMutation = `
mutation inventorySetQuantities($input: InventorySetQuantitiesInput!) {
  inventorySetQuantities(input: $input) {
    inventoryAdjustmentGroup {
      id
    }
    userErrors {
      field
      message
    }
  }
}
`

// ProductSetInput is the subset of the productSet input used for listings
type ProductSetInput struct {
	ID              *string                  `json:"id,omitempty"`
	Title           string                   `json:"title"`
	DescriptionHTML string                   `json:"descriptionHtml"`
	Vendor          string                   `json:"vendor"`
	ProductType     string                   `json:"productType"`
	Tags            []string                 `json:"tags"`
	ProductOptions  []OptionSetInput         `json:"productOptions"`
	Variants        []ProductVariantSetInput `json:"variants"`
	Files           []FileSetInput           `json:"files,omitempty"`
}

type OptionSetInput struct {
	Name   string                `json:"name"`
	Values []OptionValueSetInput `json:"values"`
}

type OptionValueSetInput struct {
	Name string `json:"name"`
}

type VariantOptionValueInput struct {
	OptionName string `json:"optionName"`
	Name       string `json:"name"`
}

type ProductVariantSetInput struct {
	ID                  *string                   `json:"id,omitempty"`
	OptionValues        []VariantOptionValueInput `json:"optionValues"`
	Price               string                    `json:"price"`
	Barcode             string                    `json:"barcode,omitempty"`
	InventoryItem       InventoryItemInput        `json:"inventoryItem"`
	InventoryQuantities []InventoryQuantityInput  `json:"inventoryQuantities,omitempty"`
}

type InventoryItemInput struct {
	SKU     string `json:"sku,omitempty"`
	Tracked bool   `json:"tracked"`
}

// InventoryQuantityInput is only honoured by productSet when the variant is created
type InventoryQuantityInput struct {
	LocationID string `json:"locationId"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
}

type FileSetInput struct {
	OriginalSource string `json:"originalSource"`
	ContentType    string `json:"contentType"`
}

// InventorySetQuantitiesInput sets absolute quantities without a compare check
type InventorySetQuantitiesInput struct {
	Name                  string                   `json:"name"`
	Reason                string                   `json:"reason"`
	IgnoreCompareQuantity bool                     `json:"ignoreCompareQuantity"`
	Quantities            []InventoryQuantityEntry `json:"quantities"`
}

type InventoryQuantityEntry struct {
	InventoryItemID string `json:"inventoryItemId"`
	LocationID      string `json:"locationId"`
	Quantity        int    `json:"quantity"`
}
