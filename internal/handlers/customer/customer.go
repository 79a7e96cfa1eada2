package customer

import (
	"net/http"

	"crm-service/internal/domain/customer"
	"crm-service/internal/middleware"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/customer"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerService *service.CustomerService
	profileService  *service.ProfileService
}

func NewCustomerHandler(customerService *service.CustomerService, profileService *service.ProfileService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		profileService:  profileService,
	}
}

// CreateCustomer registers a customer. Handles are unique.
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req customer.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.customerService.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create customer", err)
		return
	}

	response.Success(c, http.StatusCreated, "customer created successfully", result)
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	result, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "customer not found", err)
		return
	}

	response.Success(c, http.StatusOK, "customer retrieved", result)
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	var req customer.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.customerService.UpdateCustomer(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, "failed to update customer", err)
		return
	}

	response.Success(c, http.StatusOK, "customer updated successfully", result)
}

// DeleteCustomer removes the customer and every row that belongs to it.
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		response.FromError(c, "failed to delete customer", err)
		return
	}

	response.Success(c, http.StatusOK, "customer deleted successfully", nil)
}

func (h *CustomerHandler) SearchCustomers(c *gin.Context) {
	var filters customer.CustomerListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.customerService.SearchCustomers(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to search customers", err)
		return
	}

	response.Success(c, http.StatusOK, "customers retrieved", result)
}

// GetProfile returns the customer with everything attached to it.
func (h *CustomerHandler) GetProfile(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	result, err := h.profileService.GetProfile(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "failed to load profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile retrieved", result)
}

// Dashboard lists every customer with a freshly computed tier and CLV.
func (h *CustomerHandler) Dashboard(c *gin.Context) {
	result, err := h.customerService.Dashboard(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to load dashboard", err)
		return
	}

	response.Success(c, http.StatusOK, "dashboard retrieved", result)
}
