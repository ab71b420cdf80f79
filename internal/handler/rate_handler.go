package handler

import (
	"errors"
	"go-parking-facility/internal/repository"
	apperrors "go-parking-facility/pkg/app_errors"
	"go-parking-facility/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RateHandler struct {
	repo repository.RateRepository
}

func NewRateHandler(repo repository.RateRepository) *RateHandler {
	return &RateHandler{repo: repo}
}

func (h *RateHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("rates/base", h.GetActiveBaseRate)
		router.GET("rates/base/history", h.History)
		router.PUT("rates/base", h.SetBaseRate)
	}
}

// SetBaseRateRequest 設定基礎費率請求
type SetBaseRateRequest struct {
	HourlyRate float64 `json:"hourly_rate" binding:"required,min=0"`
}

func (h *RateHandler) GetActiveBaseRate(c *gin.Context) {
	rate, err := h.repo.FindActiveBaseRate(c)
	if err != nil {
		h.handleError(c, err, "GetActiveBaseRate")
		return
	}
	c.JSON(http.StatusOK, rate)
}

func (h *RateHandler) History(c *gin.Context) {
	rates, err := h.repo.History(c)
	if err != nil {
		h.handleError(c, err, "History")
		return
	}
	c.JSON(http.StatusOK, rates)
}

func (h *RateHandler) SetBaseRate(c *gin.Context) {
	var req SetBaseRateRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	rate, err := h.repo.SetBaseRate(c, req.HourlyRate)
	if err != nil {
		h.handleError(c, err, "SetBaseRate")
		return
	}
	c.JSON(http.StatusOK, rate)
}

func (h *RateHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrNoRateConfigured):
		log.Warn("No base rate configured")
		c.JSON(http.StatusNotFound, gin.H{"error": "No base rate configured"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
