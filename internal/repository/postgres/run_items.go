package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
)

// Postgres caps bind parameters at 65535 per statement
const itemInsertChunk = 500

type runItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRunItemRepository creates a new run item repository
func NewRunItemRepository(db *sql.DB, logger *zap.Logger) *runItemRepository {
	return &runItemRepository{
		db:     db,
		logger: logger,
	}
}

// CreateBatch stores items in input order inside one transaction
func (r *runItemRepository) CreateBatch(ctx context.Context, runID uuid.UUID, items []domain.ItemResult) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for start := 0; start < len(items); start += itemInsertChunk {
		end := start + itemInsertChunk
		if end > len(items) {
			end = len(items)
		}
		query, args := buildItemInsert(runID, start, items[start:end], now)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.Error("Failed to insert sync run items", zap.Error(err), zap.String("run_id", runID.String()))
			return err
		}
	}

	return tx.Commit()
}

func buildItemInsert(runID uuid.UUID, offset int, items []domain.ItemResult, now time.Time) (string, []interface{}) {
	const cols = 11
	var sb strings.Builder
	sb.WriteString(`INSERT INTO sync_run_items (
		id, run_id, position, ean, outcome, action, listing_id, quantity, price, error, created_at
	) VALUES `)

	args := make([]interface{}, 0, len(items)*cols)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for c := 1; c <= cols; c++ {
			if c > 1 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*cols+c)
		}
		sb.WriteString(")")

		args = append(args,
			uuid.New(),
			runID,
			offset+i+1,
			item.EAN,
			string(item.Outcome),
			string(item.Action),
			item.ListingID,
			item.Quantity,
			item.Price,
			item.Error,
			now,
		)
	}
	return sb.String(), args
}

func (r *runItemRepository) GetByRunID(ctx context.Context, runID uuid.UUID) ([]domain.ItemResult, error) {
	query := `
		SELECT ean, outcome, action, listing_id, quantity, price, error
		FROM sync_run_items
		WHERE run_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		r.logger.Error("Failed to get sync run items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []domain.ItemResult
	for rows.Next() {
		var item domain.ItemResult
		var outcome, action string
		if err := rows.Scan(
			&item.EAN,
			&outcome,
			&action,
			&item.ListingID,
			&item.Quantity,
			&item.Price,
			&item.Error,
		); err != nil {
			return nil, err
		}
		item.Outcome = domain.Outcome(outcome)
		item.Action = domain.Action(action)
		items = append(items, item)
	}
	return items, rows.Err()
}
