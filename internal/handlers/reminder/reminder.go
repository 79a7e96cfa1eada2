package reminder

import (
	"net/http"

	"crm-service/internal/domain/reminder"
	"crm-service/internal/middleware"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/reminder"

	"github.com/gin-gonic/gin"
)

type ReminderHandler struct {
	reminderService *service.ReminderService
}

func NewReminderHandler(reminderService *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	customerID, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	var req reminder.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.reminderService.CreateReminder(c.Request.Context(), customerID, &req)
	if err != nil {
		response.FromError(c, "failed to create reminder", err)
		return
	}

	response.Success(c, http.StatusCreated, "reminder created", result)
}

// ListReminders accepts ?status=Pending|Done.
func (h *ReminderHandler) ListReminders(c *gin.Context) {
	customerID, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	var filters reminder.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.reminderService.ListReminders(c.Request.Context(), customerID, &filters)
	if err != nil {
		response.FromError(c, "failed to list reminders", err)
		return
	}

	response.Success(c, http.StatusOK, "reminders retrieved", result)
}

func (h *ReminderHandler) CompleteReminder(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid reminder ID", err)
		return
	}

	result, err := h.reminderService.CompleteReminder(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "failed to complete reminder", err)
		return
	}

	response.Success(c, http.StatusOK, "reminder completed", result)
}
