package ai

import (
	"context"
	"errors"
	"net/http"

	"crm-service/internal/domain/ai"
	"crm-service/internal/middleware"
	"crm-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Assistant interface {
	GenerateReply(ctx context.Context, customerID int64, req *ai.ReplyRequest) (*ai.ReplyResult, error)
	GenerateSummary(ctx context.Context, customerID int64) (*ai.SummaryResult, error)
}

type AIHandler struct {
	assistant Assistant
}

func NewAIHandler(assistant Assistant) *AIHandler {
	return &AIHandler{assistant: assistant}
}

// GenerateReply always answers 200 once the request is valid. A reply that
// could not be generated comes back with degraded=true and a failure kind.
func (h *AIHandler) GenerateReply(c *gin.Context) {
	customerID, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	var req ai.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.assistant.GenerateReply(c.Request.Context(), customerID, &req)
	if err != nil {
		response.FromError(c, "failed to generate reply", err)
		return
	}

	message := "reply generated"
	switch {
	case result.Cached:
		message = "reply served from cache"
	case result.Degraded:
		message = "AI reply unavailable"
	}
	response.Success(c, http.StatusOK, message, result)
}

func (h *AIHandler) GenerateSummary(c *gin.Context) {
	customerID, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	result, err := h.assistant.GenerateSummary(c.Request.Context(), customerID)
	if err != nil {
		if status, ok := summaryStatus(err); ok {
			response.Error(c, status, "failed to generate summary", err)
			return
		}
		response.FromError(c, "failed to generate summary", err)
		return
	}

	response.Success(c, http.StatusOK, "summary retrieved", result)
}

func summaryStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, ai.ErrAIDisabled):
		return http.StatusForbidden, true
	case errors.Is(err, ai.ErrAIRateLimited):
		return http.StatusTooManyRequests, true
	case errors.Is(err, ai.ErrAIProvider):
		return http.StatusBadGateway, true
	}
	return 0, false
}
