package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/apperrors"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/models"
	dbmodels "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
)

// SettingsService reads and edits the singleton system settings document.
type SettingsService interface {
	Get(ctx context.Context) (dbmodels.SystemSettings, error)
	Update(ctx context.Context, req *models.UpdateSettingsRequest) (dbmodels.SystemSettings, error)
}

type SettingsHandler struct {
	service SettingsService
}

func NewSettingsHandler(service SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	cfg, err := h.service.Get(c.Request.Context())
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.PublicMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": cfg})
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var body models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.service.Update(c.Request.Context(), &body)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.PublicMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": cfg})
}
