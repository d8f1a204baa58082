package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
)

// RunRepository defines run ledger data access methods
type RunRepository interface {
	Create(ctx context.Context, run *domain.RunReport) error
	Finish(ctx context.Context, run *domain.RunReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RunReport, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.RunReport, error)
}

// RunItemRepository stores the per-item outcomes of a run
type RunItemRepository interface {
	CreateBatch(ctx context.Context, runID uuid.UUID, items []domain.ItemResult) error
	GetByRunID(ctx context.Context, runID uuid.UUID) ([]domain.ItemResult, error)
}

// Repositories aggregates all repositories
type Repositories struct {
	Run     RunRepository
	RunItem RunItemRepository
}
