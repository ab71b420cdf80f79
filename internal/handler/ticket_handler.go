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

type TicketHandler struct {
	service service.TicketService
}

func NewTicketHandler(service service.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("tickets/entry", h.RegisterEntry)
		router.POST("tickets/:id/exit", h.ProcessExit)
		router.GET("tickets/:id/estimate", h.EstimateCharge)
		router.PUT("tickets/:id/incident", h.MarkIncident)
		router.GET("tickets/:id", h.GetTicket)
		router.GET("branches/:id/tickets", h.ListTickets)
		router.GET("branches/:id/occupancy", h.GetOccupancy)
	}
}

// MarkIncidentRequest 事故註記請求
type MarkIncidentRequest struct {
	Note string `json:"note" binding:"required"`
}

func (h *TicketHandler) RegisterEntry(c *gin.Context) {
	var req model.RegisterEntryRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	ticket, err := h.service.RegisterEntry(c, req)
	if err != nil {
		h.handleTicketError(c, err, "RegisterEntry")
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) ProcessExit(c *gin.Context) {
	idInt, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket id"})
		return
	}

	// 出場請求的 body 可省略，free_hours 預設為 0
	var req model.ProcessExitRequest
	if c.Request.ContentLength > 0 {
		if err := BindJson(c, &req); err != nil {
			return
		}
	}

	resp, err := h.service.ProcessExit(c, idInt, req.FreeHours)
	if err != nil {
		h.handleTicketError(c, err, "ProcessExit")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TicketHandler) EstimateCharge(c *gin.Context) {
	idInt, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket id"})
		return
	}

	freeHours := 0.0
	if v := c.Query("free_hours"); v != "" {
		freeHours, err = strconv.ParseFloat(v, 64)
		if err != nil || freeHours < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid free_hours"})
			return
		}
	}

	charge, err := h.service.EstimateCharge(c, idInt, freeHours)
	if err != nil {
		h.handleTicketError(c, err, "EstimateCharge")
		return
	}

	c.JSON(http.StatusOK, charge)
}

func (h *TicketHandler) MarkIncident(c *gin.Context) {
	idInt, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket id"})
		return
	}

	var req MarkIncidentRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	ticket, err := h.service.MarkIncident(c, idInt, req.Note)
	if err != nil {
		h.handleTicketError(c, err, "MarkIncident")
		return
	}

	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	idInt, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket id"})
		return
	}

	ticket, err := h.service.GetByID(c, idInt)
	if err != nil {
		h.handleTicketError(c, err, "GetTicket")
		return
	}

	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) ListTickets(c *gin.Context) {
	branchID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid branch id"})
		return
	}

	tickets, err := h.service.List(c, branchID)
	if err != nil {
		h.handleTicketError(c, err, "ListTickets")
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func (h *TicketHandler) GetOccupancy(c *gin.Context) {
	branchID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid branch id"})
		return
	}

	category := model.VehicleCategory(c.Query("category"))

	occupancy, err := h.service.GetOccupancy(c, branchID, category)
	if err != nil {
		h.handleTicketError(c, err, "GetOccupancy")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"branch_id": branchID,
		"category":  category,
		"occupancy": occupancy,
	})
}

// Helper functions

func (h *TicketHandler) handleTicketError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrInsufficientCapacity):
		// 容量滿是預期事件，不是失敗
		log.Warn("Admission denied")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Insufficient capacity",
		})
	case errors.Is(err, apperrors.ErrDuplicateActiveTicket):
		log.Warn("Duplicate active ticket")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Plate already has an active ticket at this branch",
		})
	case errors.Is(err, apperrors.ErrInactiveBranch):
		log.Warn("Branch inactive")
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Branch is inactive",
		})
	case errors.Is(err, apperrors.ErrVehicleTypeNotFound):
		log.Warn("Vehicle type not found")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Vehicle type not found",
		})
	case errors.Is(err, apperrors.ErrBranchNotFound):
		log.Warn("Branch not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Branch not found",
		})
	case errors.Is(err, apperrors.ErrTicketNotFound):
		log.Warn("Ticket not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Ticket not found",
		})
	case errors.Is(err, apperrors.ErrExitAlreadyRecorded):
		log.Warn("Exit already recorded")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Exit already recorded",
		})
	case errors.Is(err, apperrors.ErrTicketNotInProgress):
		log.Warn("Ticket not in progress")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Ticket not in progress",
		})
	case errors.Is(err, apperrors.ErrNoRateConfigured):
		// 設定錯誤：出場流程已中止，票券維持在場狀態
		log.Error("No rate configured")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "No hourly rate configured",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
