// Package catalog holds the reconciliation rules shared by every sync entry
// point: stock text normalization, category and tag derivation, EAN matching
// against a storefront snapshot and upsert planning.
//
// Everything here is pure; network access lives in the service package.
package catalog
