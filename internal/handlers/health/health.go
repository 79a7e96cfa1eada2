package health

import (
	"context"
	"net/http"
	"time"

	"crm-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports liveness plus database reachability.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"status": "ok", "version": Version, "database": "ok"}
	if err := h.db.Ping(ctx); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		response.Error(c, http.StatusServiceUnavailable, "database unreachable", err, status)
		return
	}

	response.Success(c, http.StatusOK, "healthy", status)
}
