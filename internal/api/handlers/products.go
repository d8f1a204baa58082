package handlers

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/input"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/service"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/pkg/errors"
)

// Previewer plans a single request without applying it
type Previewer interface {
	Preview(ctx context.Context, req domain.SyncRequest) (*service.Preview, error)
}

// HandlePreviewProduct handles GET /v1/products/:ean?price=...
func HandlePreviewProduct(previewer Previewer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.Param("ean"))
		if price := c.Query("price"); price != "" {
			raw += "/" + price
		}
		req, err := input.ParseLine(raw, 0)
		if err != nil {
			verr := &errors.ErrValidation{Message: err.Error(), Fields: map[string]string{}}
			if req.EAN == "" {
				verr.Fields["ean"] = "required"
			} else {
				verr.Fields["price"] = "must be a non-negative decimal"
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
			return
		}

		pv, err := previewer.Preview(c.Request.Context(), req)
		if err != nil {
			var snapErr *errors.SnapshotFetchError
			switch {
			case stderrors.Is(err, errors.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case stderrors.As(err, &snapErr):
				logger.Error("Preview failed: storefront unavailable", zap.Error(err))
				c.JSON(http.StatusBadGateway, gin.H{"error": "storefront unavailable"})
			default:
				logger.Warn("Preview failed", zap.Error(err), zap.String("ean", req.EAN))
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, toProductLookupResponse(pv.Record, pv.Stock, pv.Categories, pv.Plan))
	}
}
