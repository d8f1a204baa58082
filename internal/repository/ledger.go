package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
)

// Ledger persists run reports through the run and item repositories
type Ledger struct {
	repos *Repositories
}

func NewLedger(repos *Repositories) *Ledger {
	return &Ledger{repos: repos}
}

// Start records that a run has begun
func (l *Ledger) Start(ctx context.Context, report *domain.RunReport) error {
	return l.repos.Run.Create(ctx, report)
}

// Finish stores the run's counters and every item outcome
func (l *Ledger) Finish(ctx context.Context, report *domain.RunReport) error {
	if err := l.repos.Run.Finish(ctx, report); err != nil {
		return fmt.Errorf("finish run %s: %w", report.ID, err)
	}
	if err := l.repos.RunItem.CreateBatch(ctx, report.ID, report.Items); err != nil {
		return fmt.Errorf("store items of run %s: %w", report.ID, err)
	}
	return nil
}

// Recent lists the newest runs without their items
func (l *Ledger) Recent(ctx context.Context, limit int) ([]*domain.RunReport, error) {
	return l.repos.Run.ListRecent(ctx, limit)
}

// Get loads one run with its items
func (l *Ledger) Get(ctx context.Context, id uuid.UUID) (*domain.RunReport, error) {
	run, err := l.repos.Run.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	run.Items, err = l.repos.RunItem.GetByRunID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load items of run %s: %w", id, err)
	}
	return run, nil
}
