package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SethRoll3/AcercateSys-sub001/internal/app/middleware"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/apperrors"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/models"
	dbmodels "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
)

// PaymentService covers the payment lifecycle operations.
type PaymentService interface {
	Create(ctx context.Context, actor models.Actor, req *models.CreatePaymentRequest) (*dbmodels.Payment, error)
	Edit(ctx context.Context, actor models.Actor, paymentID primitive.ObjectID, req *models.EditPaymentRequest) (*dbmodels.Payment, error)
	Review(ctx context.Context, actor models.Actor, paymentID primitive.ObjectID, req *models.ReviewPaymentRequest) (*dbmodels.Payment, error)
}

type PaymentHandler struct {
	service PaymentService
}

func NewPaymentHandler(service PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	var body models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.service.Create(c.Request.Context(), actor, &body)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.PublicMessage(err)})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

func (h *PaymentHandler) Edit(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	paymentID, err := primitive.ObjectIDFromHex(c.Param("PaymentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}

	var body models.EditPaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.service.Edit(c.Request.Context(), actor, paymentID, &body)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.PublicMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

func (h *PaymentHandler) Review(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	paymentID, err := primitive.ObjectIDFromHex(c.Param("PaymentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}

	var body models.ReviewPaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.service.Review(c.Request.Context(), actor, paymentID, &body)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.PublicMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}
