package order

import (
	"net/http"

	"crm-service/internal/domain/order"
	"crm-service/internal/middleware"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/order"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	customerID, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.orderService.CreateOrder(c.Request.Context(), customerID, &req)
	if err != nil {
		response.FromError(c, "failed to create order", err)
		return
	}

	response.Success(c, http.StatusCreated, "order created successfully", result)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	customerID, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), customerID)
	if err != nil {
		response.FromError(c, "failed to list orders", err)
		return
	}

	response.Success(c, http.StatusOK, "orders retrieved", result)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid order ID", err)
		return
	}

	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, &req)
	if err != nil {
		response.FromError(c, "failed to update order status", err)
		return
	}

	response.Success(c, http.StatusOK, "order status updated", result)
}
