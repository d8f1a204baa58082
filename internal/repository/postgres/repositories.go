package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/repository"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &repository.Repositories{
		Run:     NewRunRepository(db, logger),
		RunItem: NewRunItemRepository(db, logger),
	}
}
