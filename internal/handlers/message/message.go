package message

import (
	"net/http"

	"crm-service/internal/domain/message"
	"crm-service/internal/middleware"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/message"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// AddMessage logs a message. Inbound text is run through the auto-tagger.
func (h *MessageHandler) AddMessage(c *gin.Context) {
	customerID, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	var req message.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.messageService.AddMessage(c.Request.Context(), customerID, &req)
	if err != nil {
		response.FromError(c, "failed to add message", err)
		return
	}

	response.Success(c, http.StatusCreated, "message added", result)
}

func (h *MessageHandler) ListMessages(c *gin.Context) {
	customerID, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	result, err := h.messageService.ListMessages(c.Request.Context(), customerID)
	if err != nil {
		response.FromError(c, "failed to list messages", err)
		return
	}

	response.Success(c, http.StatusOK, "messages retrieved", result)
}
