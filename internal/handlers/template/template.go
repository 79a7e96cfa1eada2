package template

import (
	"net/http"

	"crm-service/internal/domain/template"
	"crm-service/internal/middleware"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/template"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	templateService *service.TemplateService
}

func NewTemplateHandler(templateService *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req template.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.templateService.CreateTemplate(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create template", err)
		return
	}

	response.Success(c, http.StatusCreated, "template created", result)
}

func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	result, err := h.templateService.ListTemplates(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list templates", err)
		return
	}

	response.Success(c, http.StatusOK, "templates retrieved", result)
}

func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid template ID", err)
		return
	}

	if err := h.templateService.DeleteTemplate(c.Request.Context(), id); err != nil {
		response.FromError(c, "failed to delete template", err)
		return
	}

	response.Success(c, http.StatusOK, "template deleted", nil)
}

func (h *TemplateHandler) RenderTemplate(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid template ID", err)
		return
	}
	customerID, err := middleware.ParamID(c, "customer_id")
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	result, err := h.templateService.Render(c.Request.Context(), id, customerID)
	if err != nil {
		response.FromError(c, "failed to render template", err)
		return
	}

	response.Success(c, http.StatusOK, "template rendered", result)
}
