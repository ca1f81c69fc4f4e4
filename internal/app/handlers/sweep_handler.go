package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SethRoll3/AcercateSys-sub001/internal/app/middleware"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/apperrors"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/models"
)

// SweepRunner is the delinquency service surface this handler drives.
type SweepRunner interface {
	Run(ctx context.Context) (*models.SweepSummary, error)
}

type SweepHandler struct {
	sweep   SweepRunner
	metrics *middleware.SweepMetrics
}

func NewSweepHandler(sweep SweepRunner, metrics *middleware.SweepMetrics) *SweepHandler {
	return &SweepHandler{sweep: sweep, metrics: metrics}
}

// RunSweep executes exactly one delinquency pass and returns the per-loan
// outcome list. No request body is required.
func (h *SweepHandler) RunSweep(c *gin.Context) {
	ctx := c.Request.Context()

	summary, err := h.sweep.Run(ctx)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.PublicMessage(err)})
		return
	}

	h.recordOutcomes(ctx, summary)
	c.JSON(http.StatusOK, summary)
}

func (h *SweepHandler) recordOutcomes(ctx context.Context, summary *models.SweepSummary) {
	if h.metrics == nil {
		return
	}
	for _, result := range summary.Results {
		switch result.Outcome {
		case consts.SweepOutcomeMoraApplied:
			h.metrics.FeesApplied.Add(ctx, 1)
		case consts.SweepOutcomeSkipped:
			h.metrics.LoansSkipped.Add(ctx, 1)
		case consts.SweepOutcomeError:
			h.metrics.LoanErrors.Add(ctx, 1)
		}
	}
}
