package handlers

import (
	"time"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/catalog"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
)

// RunResponse is the JSON shape of a run report
type RunResponse struct {
	ID              string         `json:"id"`
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      *time.Time     `json:"finished_at,omitempty"`
	DurationSeconds float64        `json:"duration_seconds"`
	DryRun          bool           `json:"dry_run"`
	Processed       int            `json:"processed"`
	Created         int            `json:"created"`
	Updated         int            `json:"updated"`
	Skipped         int            `json:"skipped"`
	Failed          int            `json:"failed"`
	Unmatched       int            `json:"unmatched"`
	Aborted         bool           `json:"aborted"`
	AbortError      string         `json:"abort_error,omitempty"`
	Items           []ItemResponse `json:"items,omitempty"`
}

type ItemResponse struct {
	EAN       string `json:"ean"`
	Outcome   string `json:"outcome"`
	Action    string `json:"action"`
	ListingID string `json:"listing_id,omitempty"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	Error     string `json:"error,omitempty"`
}

func toRunResponse(r *domain.RunReport, withItems bool) RunResponse {
	resp := RunResponse{
		ID:              r.ID.String(),
		StartedAt:       r.StartedAt,
		DurationSeconds: r.Duration().Seconds(),
		DryRun:          r.DryRun,
		Processed:       r.Processed,
		Created:         r.Created,
		Updated:         r.Updated,
		Skipped:         r.Skipped,
		Failed:          r.Failed,
		Unmatched:       r.Unmatched,
		Aborted:         r.Aborted,
		AbortError:      r.AbortError,
	}
	if !r.FinishedAt.IsZero() {
		finished := r.FinishedAt
		resp.FinishedAt = &finished
	}
	if withItems {
		resp.Items = make([]ItemResponse, 0, len(r.Items))
		for _, it := range r.Items {
			resp.Items = append(resp.Items, ItemResponse{
				EAN:       it.EAN,
				Outcome:   string(it.Outcome),
				Action:    string(it.Action),
				ListingID: it.ListingID,
				Quantity:  it.Quantity,
				Price:     it.Price.StringFixed(2),
				Error:     it.Error,
			})
		}
	}
	return resp
}

// ProductLookupResponse shows what a run would do for one EAN
type ProductLookupResponse struct {
	EAN          string   `json:"ean"`
	Name         string   `json:"name"`
	Brand        string   `json:"brand"`
	Family       string   `json:"family"`
	SubFamily    string   `json:"sub_family"`
	StockText    string   `json:"stock_text"`
	Quantity     int      `json:"quantity"`
	ListPrice    string   `json:"list_price"`
	MainCategory string   `json:"main_category"`
	Tags         []string `json:"tags"`
	Action       string   `json:"action"`
	ListingID    string   `json:"listing_id,omitempty"`
}

func toProductLookupResponse(rec *domain.SupplierRecord, stock int, cats domain.CategoryAssignment, plan catalog.Plan) ProductLookupResponse {
	tags := cats.Tags
	if tags == nil {
		tags = []string{}
	}
	return ProductLookupResponse{
		EAN:          rec.EAN,
		Name:         rec.Name,
		Brand:        rec.Brand,
		Family:       rec.Family,
		SubFamily:    rec.SubFamily,
		StockText:    rec.StockText,
		Quantity:     stock,
		ListPrice:    rec.ListPrice.StringFixed(2),
		MainCategory: string(cats.Main),
		Tags:         tags,
		Action:       string(plan.Action),
		ListingID:    plan.Listing.ID,
	}
}
