package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/apperrors"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/models"
	dbmodels "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
	"github.com/SethRoll3/AcercateSys-sub001/internal/service/schedule"
)

// ScheduleService is the schedule surface this handler drives.
type ScheduleService interface {
	Regenerate(ctx context.Context, loanID primitive.ObjectID, frequencyOverride string) ([]dbmodels.Installment, error)
	GetSchedule(ctx context.Context, loanID primitive.ObjectID) ([]schedule.ScheduleEntry, error)
}

// FeeUpdater edits installment fees keeping totals consistent.
type FeeUpdater interface {
	UpdateFees(ctx context.Context, installmentID primitive.ObjectID, lateFee, adminFee *float64) (*dbmodels.Installment, error)
}

type ScheduleHandler struct {
	service ScheduleService
	fees    FeeUpdater
}

func NewScheduleHandler(service ScheduleService, fees FeeUpdater) *ScheduleHandler {
	return &ScheduleHandler{service: service, fees: fees}
}

// Regenerate destructively replaces a loan's installment plan. An
// optional frequency query param overrides the loan's stored frequency.
func (h *ScheduleHandler) Regenerate(c *gin.Context) {
	loanID, err := primitive.ObjectIDFromHex(c.Param("LoanID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan id"})
		return
	}

	installments, err := h.service.Regenerate(c.Request.Context(), loanID, c.Query("frequency"))
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.PublicMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"installments": installments})
}

// GetSchedule returns the plan with totals recomputed from components.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	loanID, err := primitive.ObjectIDFromHex(c.Param("LoanID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan id"})
		return
	}

	entries, err := h.service.GetSchedule(c.Request.Context(), loanID)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.PublicMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": entries})
}

// UpdateInstallmentFees edits an installment's late or admin fee; omitted
// fields keep their current values and the total is recomputed in the
// same write.
func (h *ScheduleHandler) UpdateInstallmentFees(c *gin.Context) {
	installmentID, err := primitive.ObjectIDFromHex(c.Param("InstallmentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid installment id"})
		return
	}

	var body models.UpdateInstallmentFeesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.LateFee == nil && body.AdminFee == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one of late_fee or admin_fee is required"})
		return
	}

	installment, err := h.fees.UpdateFees(c.Request.Context(), installmentID, body.LateFee, body.AdminFee)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.PublicMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"installment": installment})
}
