package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierRecord is one product entry from the Suprides feed. Read-only once fetched.
type SupplierRecord struct {
	EAN         string
	Name        string
	Description string
	Brand       string
	Family      string
	SubFamily   string
	ProductLine string
	ListPrice   decimal.Decimal
	StockText   string // free text, e.g. "Disponível ( < 10 UN )"
	Images      []string
}

// SyncRequest is one line of work from the products list
type SyncRequest struct {
	EAN           string
	PriceOverride *decimal.Decimal // nil means use the supplier list price
	Line          int              // 1-based line in the input source, 0 when unknown
}

// StorefrontListing is an existing or to-be-created Shopify product
type StorefrontListing struct {
	ID          string // Shopify GID; empty until created
	Title       string
	BodyHTML    string
	Vendor      string
	ProductType string
	Tags        []string
	Variants    []Variant
	Images      []string
}

// Variant is a single listing variant
type Variant struct {
	ID              string // Shopify GID; empty until created
	SKU             string
	Barcode         string
	Price           decimal.Decimal
	InventoryItemID string // platform-assigned, present only once created
	Quantity        int
	TrackInventory  bool
}

// CategoryAssignment is the derived main category plus tag set
type CategoryAssignment struct {
	Main MainCategory
	Tags []string
}

// ItemResult records what happened to one sync request
type ItemResult struct {
	EAN       string
	Outcome   Outcome
	Action    Action
	ListingID string
	Quantity  int
	Price     decimal.Decimal
	Error     string
}

// RunReport aggregates counters over one reconciliation run
type RunReport struct {
	ID         uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool
	Processed  int
	Created    int
	Updated    int
	Skipped    int
	Failed     int
	Unmatched  int
	Aborted    bool
	AbortError string
	Items      []ItemResult
}

// NewRunReport starts a report for a new run
func NewRunReport(dryRun bool) *RunReport {
	return &RunReport{
		ID:        uuid.New(),
		StartedAt: time.Now().UTC(),
		DryRun:    dryRun,
	}
}

// Record counts one item under exactly one outcome counter
func (r *RunReport) Record(res ItemResult) {
	r.Processed++
	switch res.Outcome {
	case OutcomeCreated:
		r.Created++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeUnmatched:
		r.Unmatched++
	default:
		res.Outcome = OutcomeFailed
		r.Failed++
	}
	r.Items = append(r.Items, res)
}

// Finish stamps the end time; abortErr is non-nil only for run-fatal failures
func (r *RunReport) Finish(abortErr error) {
	r.FinishedAt = time.Now().UTC()
	if abortErr != nil {
		r.Aborted = true
		r.AbortError = abortErr.Error()
	}
}

// Duration of the run, zero while running
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary renders the counters as the end-of-run notification text
func (r *RunReport) Summary() string {
	if r.Aborted {
		return fmt.Sprintf("❌ Sincronização abortada: %s", r.AbortError)
	}
	prefix := "📊 Relatório de sincronização"
	if r.DryRun {
		prefix += " (simulação)"
	}
	return fmt.Sprintf("%s: processados=%d criados=%d atualizados=%d ignorados=%d falhas=%d sem_fornecedor=%d",
		prefix, r.Processed, r.Created, r.Updated, r.Skipped, r.Failed, r.Unmatched)
}
