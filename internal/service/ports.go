package service

import (
	"context"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/input"
)

// SupplierCatalog looks up one supplier record by EAN. A missing record is
// reported as an error matching errors.ErrNotFound.
type SupplierCatalog interface {
	FetchRecord(ctx context.Context, ean string) (*domain.SupplierRecord, error)
}

// Storefront is the catalog being reconciled
type Storefront interface {
	FetchSnapshot(ctx context.Context) ([]domain.StorefrontListing, error)
	CreateListing(ctx context.Context, listing *domain.StorefrontListing) (string, error)
	UpdateListing(ctx context.Context, id string, listing *domain.StorefrontListing) error
}

// Notifier delivers operator-facing messages
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// RunRecorder persists run reports
type RunRecorder interface {
	Start(ctx context.Context, report *domain.RunReport) error
	Finish(ctx context.Context, report *domain.RunReport) error
}

// LineSource yields the requests for one run
type LineSource interface {
	Lines() ([]input.Line, error)
}
