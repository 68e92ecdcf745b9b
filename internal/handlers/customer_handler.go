package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"weighscale/internal/models"
	"weighscale/internal/services"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerService services.CustomerService
	logger          *slog.Logger
}

func NewCustomerHandler(customerService services.CustomerService, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, logger: logger}
}

func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.customerService.GetAllCustomers(c.Query("search"))
	if err != nil {
		h.logger.Error("failed to fetch customers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomerByID(id)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch customer", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve customer"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	err := h.customerService.CreateCustomer(&customer)
	if errors.Is(err, services.ErrNameRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Customer name is required"})
		return
	}
	if err != nil {
		h.logger.Error("failed to create customer", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	updated, err := h.customerService.UpdateCustomer(id, &customer)
	if errors.Is(err, services.ErrNameRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Customer name is required"})
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to update customer", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := h.customerService.DeleteCustomer(id)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	if errors.Is(err, services.ErrCustomerHasTickets) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete customer with associated weigh tickets"})
		return
	}
	if err != nil {
		h.logger.Error("failed to delete customer", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete customer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

// parseID reads the :id path parameter, replying 400 itself when malformed.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}
