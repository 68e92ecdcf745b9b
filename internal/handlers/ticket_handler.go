package handlers

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"weighscale/internal/repository"
	"weighscale/internal/services"
	"weighscale/internal/ticket"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	ticketService services.TicketService
	logger        *slog.Logger
}

func NewTicketHandler(ticketService services.TicketService, logger *slog.Logger) *TicketHandler {
	return &TicketHandler{ticketService: ticketService, logger: logger}
}

func (h *TicketHandler) List(c *gin.Context) {
	filter := repository.TicketFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   intQuery(c, "page", 1),
		Limit:  intQuery(c, "limit", 20),
	}
	if raw := c.Query("customer_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer_id"})
			return
		}
		customerID := uint(id)
		filter.CustomerID = &customerID
	}
	if raw := c.Query("start_date"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date"})
			return
		}
		filter.StartDate = &start
	}
	if raw := c.Query("end_date"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date"})
			return
		}
		filter.EndDate = &end
	}

	tickets, total, err := h.ticketService.ListTickets(filter)
	if err != nil {
		h.logger.Error("failed to fetch weigh tickets", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve weigh tickets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tickets": tickets,
		"pagination": gin.H{
			"total": total,
			"page":  filter.Page,
			"limit": filter.Limit,
			"pages": int(math.Ceil(float64(total) / float64(filter.Limit))),
		},
	})
}

func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	detail, err := h.ticketService.GetTicketByID(id)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Weigh ticket not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch weigh ticket", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve weigh ticket"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *TicketHandler) Create(c *gin.Context) {
	var input ticket.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	detail, err := h.ticketService.CreateTicket(input)
	if errors.Is(err, ticket.ErrMaterialRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Material is required"})
		return
	}
	if errors.Is(err, ticket.ErrInvalidWeight) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Weight must be a finite number"})
		return
	}
	if err != nil {
		h.logger.Error("failed to create weigh ticket", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create weigh ticket"})
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func (h *TicketHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch ticket.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	detail, err := h.ticketService.UpdateTicket(id, patch)
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Weigh ticket not found"})
		return
	case errors.Is(err, ticket.ErrNoFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No update fields provided"})
		return
	case errors.Is(err, ticket.ErrMaterialRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Material is required"})
		return
	case errors.Is(err, ticket.ErrInvalidWeight):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Weight must be a finite number"})
		return
	case errors.Is(err, ticket.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket status"})
		return
	case err != nil:
		h.logger.Error("failed to update weigh ticket", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update weigh ticket"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *TicketHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := h.ticketService.DeleteTicket(id)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Weigh ticket not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to delete weigh ticket", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete weigh ticket"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Weigh ticket deleted successfully"})
}

func intQuery(c *gin.Context, key string, defaultValue int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return defaultValue
	}
	return value
}
