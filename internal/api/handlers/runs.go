package handlers

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/pkg/errors"
)

// RunHistory reads past runs from the ledger
type RunHistory interface {
	Recent(ctx context.Context, limit int) ([]*domain.RunReport, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.RunReport, error)
}

// RunTrigger starts runs and reports on the current one
type RunTrigger interface {
	Start(ctx context.Context) error
	Running() bool
	Last() *domain.RunReport
}

// HandleListRuns handles GET /v1/runs. Without a ledger only the last run of
// this process is returned.
func HandleListRuns(history RunHistory, trigger RunTrigger, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 20
		if l := c.Query("limit"); l != "" {
			if n, err := strconv.Atoi(l); err == nil && n >= 1 && n <= 100 {
				limit = n
			}
		}

		var runs []*domain.RunReport
		if history != nil {
			var err error
			runs, err = history.Recent(c.Request.Context(), limit)
			if err != nil {
				logger.Error("Failed to list runs", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
				return
			}
		} else if last := trigger.Last(); last != nil {
			runs = []*domain.RunReport{last}
		}

		out := make([]RunResponse, 0, len(runs))
		for _, r := range runs {
			out = append(out, toRunResponse(r, false))
		}
		c.JSON(http.StatusOK, gin.H{
			"runs":    out,
			"running": trigger.Running(),
		})
	}
}

// HandleGetRun handles GET /v1/runs/:id
func HandleGetRun(history RunHistory, trigger RunTrigger, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
			return
		}

		if last := trigger.Last(); last != nil && last.ID == id {
			c.JSON(http.StatusOK, toRunResponse(last, true))
			return
		}
		if history == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}

		run, err := history.Get(c.Request.Context(), id)
		if err != nil {
			if stderrors.Is(err, errors.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
				return
			}
			logger.Error("Failed to get run", zap.Error(err), zap.String("run_id", id.String()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, toRunResponse(run, true))
	}
}

// HandleTriggerRun handles POST /v1/runs. The run continues after the
// response is written.
func HandleTriggerRun(trigger RunTrigger, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := trigger.Start(context.WithoutCancel(c.Request.Context()))
		if stderrors.Is(err, errors.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			logger.Error("Failed to start run", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start run"})
			return
		}
		logger.Info("Sync run triggered via API", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusAccepted, gin.H{"status": "started"})
	}
}
