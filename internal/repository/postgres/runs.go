package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/pkg/errors"
)

const runColumns = `id, started_at, finished_at, dry_run, processed, created, updated,
	skipped, failed, unmatched, aborted, abort_error`

type runRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRunRepository creates a new run ledger repository
func NewRunRepository(db *sql.DB, logger *zap.Logger) *runRepository {
	return &runRepository{
		db:     db,
		logger: logger,
	}
}

func (r *runRepository) Create(ctx context.Context, run *domain.RunReport) error {
	query := `
		INSERT INTO sync_runs (id, started_at, dry_run)
		VALUES ($1, $2, $3)
	`

	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query, run.ID, run.StartedAt, run.DryRun)
	if err != nil {
		r.logger.Error("Failed to create sync run", zap.Error(err))
		return err
	}
	return nil
}

// Finish stores the final counters of a run
func (r *runRepository) Finish(ctx context.Context, run *domain.RunReport) error {
	query := `
		UPDATE sync_runs
		SET finished_at = $2, processed = $3, created = $4, updated = $5, skipped = $6,
			failed = $7, unmatched = $8, aborted = $9, abort_error = $10
		WHERE id = $1
	`

	var abortError sql.NullString
	if run.AbortError != "" {
		abortError = sql.NullString{String: run.AbortError, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.FinishedAt,
		run.Processed,
		run.Created,
		run.Updated,
		run.Skipped,
		run.Failed,
		run.Unmatched,
		run.Aborted,
		abortError,
	)
	if err != nil {
		r.logger.Error("Failed to finish sync run", zap.Error(err))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return &errors.NotFoundError{Resource: "sync run", ID: run.ID.String()}
	}
	return nil
}

func (r *runRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RunReport, error) {
	query := `SELECT ` + runColumns + ` FROM sync_runs WHERE id = $1`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.NotFoundError{Resource: "sync run", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get sync run by ID", zap.Error(err))
		return nil, err
	}
	return run, nil
}

// ListRecent returns the newest runs first, without their items
func (r *runRepository) ListRecent(ctx context.Context, limit int) ([]*domain.RunReport, error) {
	query := `SELECT ` + runColumns + ` FROM sync_runs ORDER BY started_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list sync runs", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var runs []*domain.RunReport
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*domain.RunReport, error) {
	var run domain.RunReport
	var finishedAt sql.NullTime
	var abortError sql.NullString

	err := row.Scan(
		&run.ID,
		&run.StartedAt,
		&finishedAt,
		&run.DryRun,
		&run.Processed,
		&run.Created,
		&run.Updated,
		&run.Skipped,
		&run.Failed,
		&run.Unmatched,
		&run.Aborted,
		&abortError,
	)
	if err != nil {
		return nil, err
	}

	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}
	if abortError.Valid {
		run.AbortError = abortError.String
	}
	return &run, nil
}
