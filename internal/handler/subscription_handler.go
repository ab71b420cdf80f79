package handler

import (
	"errors"
	"go-parking-facility/internal/model"
	"go-parking-facility/internal/service"
	apperrors "go-parking-facility/pkg/app_errors"
	"go-parking-facility/pkg/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SubscriptionHandler struct {
	service service.SubscriptionService
}

func NewSubscriptionHandler(service service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

func (h *SubscriptionHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("subscriptions", h.Purchase)
		router.GET("subscriptions/:id", h.GetByID)
		router.PUT("subscriptions/:id/cancel", h.Cancel)
		router.PUT("subscriptions/:id/renew", h.Renew)
	}
}

func (h *SubscriptionHandler) Purchase(c *gin.Context) {
	var req model.PurchaseSubscriptionRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	sub, err := h.service.Purchase(c, req)
	if err != nil {
		h.handleError(c, err, "Purchase")
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *SubscriptionHandler) GetByID(c *gin.Context) {
	idInt, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription id"})
		return
	}

	sub, err := h.service.GetByID(c, idInt)
	if err != nil {
		h.handleError(c, err, "GetByID")
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	idInt, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription id"})
		return
	}

	if err := h.service.Cancel(c, idInt); err != nil {
		h.handleError(c, err, "Cancel")
		return
	}
	c.Status(http.StatusOK)
}

func (h *SubscriptionHandler) Renew(c *gin.Context) {
	idInt, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription id"})
		return
	}

	sub, err := h.service.Renew(c, idInt)
	if err != nil {
		h.handleError(c, err, "Renew")
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *SubscriptionHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrSubscriptionNotFound):
		log.Warn("Subscription not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
	case errors.Is(err, apperrors.ErrPlanNotFound):
		log.Warn("Plan not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription plan not found"})
	case errors.Is(err, apperrors.ErrNoRateConfigured):
		log.Error("No rate configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No hourly rate configured"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
