package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/catalog"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/input"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/metrics"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/pkg/errors"
)

// Deps are the collaborators of a Reconciler. Notifier, Recorder and Metrics
// are optional.
type Deps struct {
	Supplier   SupplierCatalog
	Storefront Storefront
	Notifier   Notifier
	Recorder   RunRecorder
	Metrics    *metrics.Metrics
}

// Reconciler runs one pass of the product list against the storefront.
// Items are processed strictly in order, one at a time.
type Reconciler struct {
	supplier   SupplierCatalog
	storefront Storefront
	notifier   Notifier
	recorder   RunRecorder
	metrics    *metrics.Metrics
	dryRun     bool
	logger     *zap.Logger
}

// NewReconciler creates a reconciler. In dry-run mode plans are computed and
// logged but never applied.
func NewReconciler(deps Deps, dryRun bool, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		supplier:   deps.Supplier,
		storefront: deps.Storefront,
		notifier:   deps.Notifier,
		recorder:   deps.Recorder,
		metrics:    deps.Metrics,
		dryRun:     dryRun,
		logger:     logger,
	}
}

// DryRun reports whether the reconciler only plans
func (r *Reconciler) DryRun() bool {
	return r.dryRun
}

// Run reconciles every line and returns the report. The only error returned
// is a *errors.SnapshotFetchError, or the context error when ctx ends between
// items; item failures are counted in the report instead.
func (r *Reconciler) Run(ctx context.Context, lines []input.Line) (*domain.RunReport, error) {
	report := domain.NewRunReport(r.dryRun)
	log := r.logger.With(zap.String("run_id", report.ID.String()), zap.Bool("dry_run", r.dryRun))
	log.Info("Sync run started", zap.Int("lines", len(lines)))

	r.metrics.RunStarted()
	if r.recorder != nil {
		if err := r.recorder.Start(ctx, report); err != nil {
			log.Warn("Failed to record run start", zap.Error(err))
		}
	}

	snapshot, err := r.storefront.FetchSnapshot(ctx)
	if err != nil {
		fatal := &errors.SnapshotFetchError{Err: err}
		log.Error("Sync run aborted", zap.Error(fatal))
		r.finish(ctx, report, fatal, log)
		return report, fatal
	}
	log.Info("Storefront snapshot loaded", zap.Int("listings", len(snapshot)))

	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			log.Warn("Sync run interrupted", zap.Int("processed", report.Processed), zap.Error(err))
			r.finish(ctx, report, err, log)
			return report, err
		}
		res := r.reconcile(ctx, line, &snapshot, log)
		report.Record(res)
		r.metrics.ItemRecorded(res.Outcome)
	}

	r.finish(ctx, report, nil, log)
	return report, nil
}

func (r *Reconciler) finish(ctx context.Context, report *domain.RunReport, abortErr error, log *zap.Logger) {
	report.Finish(abortErr)
	log.Info("Sync run finished",
		zap.Int("processed", report.Processed),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Int("unmatched", report.Unmatched),
		zap.Bool("aborted", report.Aborted),
		zap.Duration("duration", report.Duration()),
	)
	// the run context may already be cancelled here
	ctx = context.WithoutCancel(ctx)
	r.notify(ctx, report.Summary())
	r.metrics.RunFinished(report)
	if r.recorder != nil {
		if err := r.recorder.Finish(ctx, report); err != nil {
			log.Warn("Failed to record run result", zap.Error(err))
		}
	}
}

// reconcile takes one line through resolve, enrich, match, plan and apply.
// A successful create is appended to snapshot so a repeated EAN later in the
// run updates the new listing instead of creating another one.
func (r *Reconciler) reconcile(ctx context.Context, line input.Line, snapshot *[]domain.StorefrontListing, log *zap.Logger) domain.ItemResult {
	req := line.Request
	res := domain.ItemResult{EAN: req.EAN, Action: domain.ActionSkip}
	log = log.With(zap.String("ean", req.EAN), zap.Int("line", req.Line))

	if line.Err != nil {
		log.Warn("Malformed input line", zap.Error(line.Err))
		res.Outcome = domain.OutcomeFailed
		res.Error = line.Err.Error()
		r.notify(ctx, fmt.Sprintf("⚠ Linha inválida na lista de produtos: %v", line.Err))
		return res
	}

	rec, err := r.lookup(ctx, req.EAN)
	if err != nil {
		lookupErr := &errors.SupplierLookupError{EAN: req.EAN, Err: err}
		res.Outcome = domain.OutcomeUnmatched
		res.Error = lookupErr.Error()
		if stderrors.Is(err, errors.ErrNotFound) {
			log.Warn("No supplier record")
			r.notify(ctx, fmt.Sprintf("⚠ Nenhum produto encontrado na Suprides para EAN %s", req.EAN))
		} else {
			log.Warn("Supplier lookup failed", zap.Error(err))
			r.notify(ctx, fmt.Sprintf("⚠ Erro ao consultar a Suprides para EAN %s: %v", req.EAN, err))
		}
		return res
	}

	pv, existing := preview(rec, req, *snapshot)
	plan := pv.Plan

	res.Action = plan.Action
	res.ListingID = plan.Listing.ID
	res.Quantity = pv.Stock
	res.Price = plan.Listing.Variants[0].Price
	log = log.With(
		zap.String("action", string(plan.Action)),
		zap.String("title", plan.Listing.Title),
		zap.Int("quantity", pv.Stock),
		zap.String("price", res.Price.StringFixed(2)),
		zap.String("main_category", string(pv.Categories.Main)),
	)

	if plan.QuantityUnchanged {
		log.Info("Stock unchanged", zap.Int("previous_quantity", plan.PreviousQuantity))
	}

	if r.dryRun {
		log.Info("Dry run: plan not applied", zap.Strings("tags", plan.Listing.Tags))
		res.Outcome = domain.OutcomeSkipped
		return res
	}

	switch plan.Action {
	case domain.ActionCreate:
		id, err := r.storefront.CreateListing(ctx, &plan.Listing)
		if err != nil {
			return r.applyFailed(ctx, res, plan, err, log)
		}
		plan.Listing.ID = id
		*snapshot = append(*snapshot, plan.Listing)
		res.ListingID = id
		res.Outcome = domain.OutcomeCreated
		log.Info("Listing created", zap.String("listing_id", id))
	case domain.ActionUpdate:
		if err := r.storefront.UpdateListing(ctx, plan.Listing.ID, &plan.Listing); err != nil {
			return r.applyFailed(ctx, res, plan, err, log)
		}
		*existing.Listing = plan.Listing
		res.Outcome = domain.OutcomeUpdated
		log.Info("Listing updated", zap.String("listing_id", plan.Listing.ID))
	default:
		res.Outcome = domain.OutcomeFailed
		res.Error = fmt.Sprintf("unsupported action %q", plan.Action)
	}
	return res
}

// Preview is the enriched record and plan for one request, without applying it
type Preview struct {
	Record     *domain.SupplierRecord
	Stock      int
	Categories domain.CategoryAssignment
	Plan       catalog.Plan
}

// Preview fetches a fresh snapshot and the supplier record for req and
// returns what a run would do with it. Nothing is written.
func (r *Reconciler) Preview(ctx context.Context, req domain.SyncRequest) (*Preview, error) {
	snapshot, err := r.storefront.FetchSnapshot(ctx)
	if err != nil {
		return nil, &errors.SnapshotFetchError{Err: err}
	}
	rec, err := r.lookup(ctx, req.EAN)
	if err != nil {
		return nil, &errors.SupplierLookupError{EAN: req.EAN, Err: err}
	}
	pv, _ := preview(rec, req, snapshot)
	return &pv, nil
}

// lookup fetches the supplier record; an absent record is a NotFoundError
func (r *Reconciler) lookup(ctx context.Context, ean string) (*domain.SupplierRecord, error) {
	rec, err := r.supplier.FetchRecord(ctx, ean)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &errors.NotFoundError{Resource: "supplier product", ID: ean}
	}
	return rec, nil
}

// preview enriches rec and plans it against snapshot. The returned match
// points into snapshot and is nil for a CREATE.
func preview(rec *domain.SupplierRecord, req domain.SyncRequest, snapshot []domain.StorefrontListing) (Preview, *catalog.Match) {
	stock := catalog.NormalizeStock(rec.StockText)
	cats := catalog.DeriveCategories(rec)

	var existing *catalog.Match
	if m, ok := catalog.FindByEAN(snapshot, req.EAN); ok {
		existing = &m
	}
	return Preview{
		Record:     rec,
		Stock:      stock,
		Categories: cats,
		Plan:       catalog.BuildPlan(rec, req, existing, cats, stock),
	}, existing
}

func (r *Reconciler) applyFailed(ctx context.Context, res domain.ItemResult, plan catalog.Plan, err error, log *zap.Logger) domain.ItemResult {
	applyErr := &errors.ApplyError{EAN: res.EAN, Action: plan.Action, Err: err}
	log.Error("Failed to apply plan", zap.Error(err))
	res.Outcome = domain.OutcomeFailed
	res.Error = applyErr.Error()

	verb := "atualizar"
	if plan.Action == domain.ActionCreate {
		verb = "criar"
	}
	r.notify(ctx, fmt.Sprintf("❌ Erro ao %s produto %s (EAN %s): %v", verb, plan.Listing.Title, res.EAN, err))
	return res
}

// notify never fails the run; delivery errors are only logged
func (r *Reconciler) notify(ctx context.Context, message string) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Notify(ctx, message); err != nil {
		r.logger.Warn("Failed to send notification", zap.Error(err))
	}
}
