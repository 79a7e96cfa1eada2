package tag

import (
	"net/http"

	"crm-service/internal/domain/tag"
	"crm-service/internal/middleware"
	"crm-service/internal/pkg/response"
	activityService "crm-service/internal/service/activity"
	"crm-service/internal/service/tagging"

	"github.com/gin-gonic/gin"
)

const defaultActivityLimit = 50

// TagHandler serves a customer's tags and activity timeline.
type TagHandler struct {
	tagService      *tagging.TagService
	activityService *activityService.ActivityService
}

func NewTagHandler(tagService *tagging.TagService, activityService *activityService.ActivityService) *TagHandler {
	return &TagHandler{tagService: tagService, activityService: activityService}
}

func (h *TagHandler) AddTag(c *gin.Context) {
	customerID, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	var req tag.AddTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.tagService.AddTag(c.Request.Context(), customerID, &req)
	if err != nil {
		response.FromError(c, "failed to add tag", err)
		return
	}

	response.Success(c, http.StatusCreated, "tag added", result)
}

func (h *TagHandler) ListTags(c *gin.Context) {
	customerID, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	result, err := h.tagService.ListTags(c.Request.Context(), customerID)
	if err != nil {
		response.FromError(c, "failed to list tags", err)
		return
	}

	response.Success(c, http.StatusOK, "tags retrieved", result)
}

// ListActivity returns the newest timeline entries first; ?limit= caps the count.
func (h *TagHandler) ListActivity(c *gin.Context) {
	customerID, err := middleware.ParamID(c, "id")
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	limit, err := middleware.QueryInt(c, "limit", defaultActivityLimit)
	if err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.activityService.List(c.Request.Context(), customerID, limit)
	if err != nil {
		response.FromError(c, "failed to list activity", err)
		return
	}

	response.Success(c, http.StatusOK, "activity retrieved", result)
}
