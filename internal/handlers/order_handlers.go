package handlers

import (
	"net/http"
	"time"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/services"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler holds the order service and, when auto-printing is enabled,
// the print service for queueing fresh orders.
type OrderHandler struct {
	orderService services.OrderService
	printService services.PrintService
	autoPrint    bool
}

// NewOrderHandler creates a new OrderHandler. ps may be nil when auto-print
// is off.
func NewOrderHandler(os services.OrderService, ps services.PrintService, autoPrint bool) *OrderHandler {
	return &OrderHandler{orderService: os, printService: ps, autoPrint: autoPrint}
}

// CreateOrder handles POST /orders: cart submission from the public menu or
// the counter.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	order, err := h.orderService.CreateOrder(req)
	if err != nil {
		respondServiceError(c, err, "Failed to create order.")
		return
	}

	if h.autoPrint && h.printService != nil {
		h.printService.EnqueueAutoPrint(order.ID)
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrders handles GET /orders with optional ?status= and ?since= filters.
// A watermark hit answers 304 with no payload.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var filters models.OrderFilters
	if status := c.Query("status"); status != "" {
		filters.Status = &status
	}

	var since *time.Time
	if sinceStr := c.Query("since"); sinceStr != "" {
		t, err := utils.ParseWatermark(sinceStr)
		if err != nil {
			utils.RespondValidationFailed(c, "Invalid since parameter")
			return
		}
		since = &t
	}

	list, err := h.orderService.GetOrders(filters, since)
	if err != nil {
		respondServiceError(c, err, "Failed to list orders.")
		return
	}
	if !list.Changed && since != nil {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetOrderByID handles GET /orders/:id, lines included.
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.orderService.GetOrderByID(id)
	if err != nil {
		respondServiceError(c, err, "Failed to get order.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus handles PATCH /orders/:id/status.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	order, err := h.orderService.UpdateOrderStatus(id, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update order status.")
		return
	}
	c.JSON(http.StatusOK, order)
}
