package catalog

import (
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
)

// Match is a storefront listing found for an EAN, with the variant that matched.
type Match struct {
	Listing *domain.StorefrontListing
	Variant *domain.Variant
}

// FindByEAN scans the snapshot in order and returns the first listing having a
// variant whose SKU or barcode equals ean. Listings may carry the EAN in either
// field depending on how they were created.
func FindByEAN(snapshot []domain.StorefrontListing, ean string) (Match, bool) {
	if ean == "" {
		return Match{}, false
	}
	for i := range snapshot {
		listing := &snapshot[i]
		for j := range listing.Variants {
			v := &listing.Variants[j]
			if v.SKU == ean || v.Barcode == ean {
				return Match{Listing: listing, Variant: v}, true
			}
		}
	}
	return Match{}, false
}
