package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/apperrors"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/models"
)

// DeliveryStatusProcessor applies provider delivery callbacks to the ledger.
type DeliveryStatusProcessor interface {
	ProcessDeliveryStatus(ctx context.Context, channel, providerMessageID, providerStatus, providerErrorCode string) error
}

type WebhookHandler struct {
	processor DeliveryStatusProcessor
}

func NewWebhookHandler(processor DeliveryStatusProcessor) *WebhookHandler {
	return &WebhookHandler{processor: processor}
}

// DeliveryStatus receives a provider callback for one channel. Providers
// post either JSON or form-encoded bodies; both are accepted. Unknown
// message ids resolve to 200 so providers do not retry forever.
func (h *WebhookHandler) DeliveryStatus(c *gin.Context) {
	channel := strings.ToLower(c.Param("Channel"))
	if channel != consts.ChannelSMS && channel != consts.ChannelWhatsApp {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown channel"})
		return
	}

	var body models.DeliveryWebhookRequest
	if err := c.ShouldBind(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.processor.ProcessDeliveryStatus(c.Request.Context(), channel, body.MessageID, body.Status, body.ErrorCode)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.PublicMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "received"})
}
