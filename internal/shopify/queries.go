package shopify

// ProductsSnapshotQuery pages through every product with the variant fields
// needed for EAN matching (sku and barcode) and inventory updates.
const ProductsSnapshotQuery = `
query getProducts($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        id
        title
        descriptionHtml
        vendor
        productType
        tags
        variants(first: 100) {
          pageInfo {
            hasNextPage
            endCursor
          }
          edges {
            node {
              id
              sku
              barcode
              price
              inventoryQuantity
              inventoryItem {
                id
                tracked
              }
            }
          }
        }
      }
    }
  }
}
`

// FirstLocationQuery returns the shop's first inventory location
const FirstLocationQuery = `
query firstLocation {
  locations(first: 1) {
    edges {
      node {
        id
        name
      }
    }
  }
}
`

// ProductVariantsQuery pages through the variants of one product past the
// first page returned by ProductsSnapshotQuery
const ProductVariantsQuery = `
query getProductVariants($id: ID!, $first: Int!, $after: String) {
  product(id: $id) {
    variants(first: $first, after: $after) {
      pageInfo {
        hasNextPage
        endCursor
      }
      edges {
        node {
          id
          sku
          barcode
          price
          inventoryQuantity
          inventoryItem {
            id
            tracked
          }
        }
      }
    }
  }
}
`

// ShopInfoQuery is the cheapest authenticated read; used to verify credentials
const ShopInfoQuery = `
query shopInfo {
  shop {
    name
    myshopifyDomain
  }
}
`

// snapshotPage mirrors the ProductsSnapshotQuery data object
type snapshotPage struct {
	Products struct {
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
		Edges []struct {
			Node productNode `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

type productNode struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	DescriptionHTML string            `json:"descriptionHtml"`
	Vendor          string            `json:"vendor"`
	ProductType     string            `json:"productType"`
	Tags            []string          `json:"tags"`
	Variants        variantConnection `json:"variants"`
}

type variantConnection struct {
	PageInfo struct {
		HasNextPage bool   `json:"hasNextPage"`
		EndCursor   string `json:"endCursor"`
	} `json:"pageInfo"`
	Edges []struct {
		Node variantNode `json:"node"`
	} `json:"edges"`
}

type variantNode struct {
	ID                string `json:"id"`
	SKU               string `json:"sku"`
	Barcode           string `json:"barcode"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventoryQuantity"`
	InventoryItem     struct {
		ID      string `json:"id"`
		Tracked bool   `json:"tracked"`
	} `json:"inventoryItem"`
}
