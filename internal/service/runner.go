package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/pkg/errors"
)

// Runner serializes reconciliation runs: a run triggered while another is
// executing is refused, so two runs never mutate the storefront at once.
type Runner struct {
	reconciler *Reconciler
	source     LineSource
	notifier   Notifier
	logger     *zap.Logger

	mu      sync.Mutex
	running bool
	last    *domain.RunReport
}

func NewRunner(reconciler *Reconciler, source LineSource, notifier Notifier, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		reconciler: reconciler,
		source:     source,
		notifier:   notifier,
		logger:     logger,
	}
}

// RunOnce reads the product list and runs a reconciliation. It returns
// errors.ErrRunInProgress when another run holds the runner.
func (r *Runner) RunOnce(ctx context.Context) (*domain.RunReport, error) {
	if !r.acquire() {
		return nil, errors.ErrRunInProgress
	}
	defer r.release()
	return r.run(ctx)
}

// Start launches a run in the background. It returns errors.ErrRunInProgress
// without starting anything when a run is executing.
func (r *Runner) Start(ctx context.Context) error {
	if !r.acquire() {
		return errors.ErrRunInProgress
	}
	go func() {
		defer r.release()
		if _, err := r.run(ctx); err != nil {
			r.logger.Warn("Triggered sync run ended with error", zap.Error(err))
		}
	}()
	return nil
}

func (r *Runner) run(ctx context.Context) (*domain.RunReport, error) {
	lines, err := r.source.Lines()
	if err != nil {
		r.logger.Error("Failed to read product list", zap.Error(err))
		if r.notifier != nil {
			if nerr := r.notifier.Notify(ctx, fmt.Sprintf("❌ Lista de produtos indisponível: %v", err)); nerr != nil {
				r.logger.Warn("Failed to send notification", zap.Error(nerr))
			}
		}
		return nil, err
	}
	if len(lines) == 0 {
		r.logger.Warn("Product list is empty")
	}

	report, err := r.reconciler.Run(ctx, lines)
	r.mu.Lock()
	r.last = report
	r.mu.Unlock()
	return report, err
}

// Loop runs once, then every interval until ctx is done. Call from a goroutine.
// Ticks that find a run in progress are skipped.
func (r *Runner) Loop(ctx context.Context, interval time.Duration) {
	r.tick(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	_, err := r.RunOnce(ctx)
	switch {
	case err == nil:
	case err == errors.ErrRunInProgress:
		r.logger.Info("Scheduled sync skipped: a run is already in progress")
	default:
		r.logger.Error("Scheduled sync failed", zap.Error(err))
	}
}

// Running reports whether a run is executing
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Last returns the report of the most recent finished run, or nil
func (r *Runner) Last() *domain.RunReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *Runner) acquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return false
	}
	r.running = true
	return true
}

func (r *Runner) release() {
	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
}
