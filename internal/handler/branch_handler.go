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

type BranchHandler struct {
	service service.BranchService
}

func NewBranchHandler(service service.BranchService) *BranchHandler {
	return &BranchHandler{service: service}
}

func (h *BranchHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("branches", h.List)
		router.GET("branches/:id", h.GetByID)
		router.POST("branches", h.Create)
		router.PUT("branches/:id", h.Update)
		router.PUT("branches/:id/capacity", h.SetCapacity)
		router.DELETE("branches/:id", h.Delete)
	}
}

// CreateBranchRequest 建立分店請求
type CreateBranchRequest struct {
	Code       string         `json:"code" binding:"required"`
	Name       string         `json:"name" binding:"required"`
	Address    *string        `json:"address"`
	HourlyRate *float64       `json:"hourly_rate"`
	OpensAt    string         `json:"opens_at" binding:"required"`
	ClosesAt   string         `json:"closes_at" binding:"required"`
	Capacities map[string]int `json:"capacities" binding:"required"`
}

// UpdateBranchRequest 更新分店請求
type UpdateBranchRequest struct {
	Name       *string  `json:"name"`
	Address    *string  `json:"address"`
	HourlyRate *float64 `json:"hourly_rate"`
	IsActive   *bool    `json:"is_active"`
}

// SetCapacityRequest 調整單一車種容量請求
type SetCapacityRequest struct {
	Category string `json:"category" binding:"required"`
	Capacity int    `json:"capacity" binding:"min=0"`
}

func (h *BranchHandler) List(c *gin.Context) {
	branches, err := h.service.List(c)
	if err != nil {
		h.handleError(c, err, "List")
		return
	}
	c.JSON(http.StatusOK, branches)
}

func (h *BranchHandler) GetByID(c *gin.Context) {
	idInt, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid branch id"})
		return
	}

	branch, err := h.service.GetByID(c, idInt)
	if err != nil {
		h.handleError(c, err, "GetByID")
		return
	}
	c.JSON(http.StatusOK, branch)
}

func (h *BranchHandler) Create(c *gin.Context) {
	var req CreateBranchRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	capacities := make(map[model.VehicleCategory]int, len(req.Capacities))
	for category, capacity := range req.Capacities {
		capacities[model.VehicleCategory(category)] = capacity
	}

	branch := &model.Branch{
		Code:       req.Code,
		Name:       req.Name,
		Address:    req.Address,
		HourlyRate: req.HourlyRate,
		OpensAt:    req.OpensAt,
		ClosesAt:   req.ClosesAt,
		IsActive:   true,
		Capacities: capacities,
	}

	created, err := h.service.Create(c, branch)
	if err != nil {
		h.handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *BranchHandler) Update(c *gin.Context) {
	idInt, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid branch id"})
		return
	}

	var req UpdateBranchRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	branch, err := h.service.Update(c, idInt, model.UpdateBranchParams{
		Name:       req.Name,
		Address:    req.Address,
		HourlyRate: req.HourlyRate,
		IsActive:   req.IsActive,
	})
	if err != nil {
		h.handleError(c, err, "Update")
		return
	}
	c.JSON(http.StatusOK, branch)
}

func (h *BranchHandler) SetCapacity(c *gin.Context) {
	idInt, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid branch id"})
		return
	}

	var req SetCapacityRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	err = h.service.SetCapacity(c, idInt, model.VehicleCategory(req.Category), req.Capacity)
	if err != nil {
		h.handleError(c, err, "SetCapacity")
		return
	}
	c.Status(http.StatusOK)
}

func (h *BranchHandler) Delete(c *gin.Context) {
	idInt, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid branch id"})
		return
	}

	if err := h.service.Delete(c, idInt); err != nil {
		h.handleError(c, err, "Delete")
		return
	}
	c.Status(http.StatusOK)
}

func (h *BranchHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrBranchNotFound):
		log.Warn("Branch not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Branch not found"})
	case errors.Is(err, apperrors.ErrVehicleTypeNotFound):
		log.Warn("Vehicle type not found")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vehicle type not found"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
