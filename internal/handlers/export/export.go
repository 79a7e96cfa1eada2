package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/export"

	"github.com/gin-gonic/gin"
)

type Exporter interface {
	Export(ctx context.Context, table string, w io.Writer) error
}

type ExportHandler struct {
	exporter Exporter
}

func NewExportHandler(exporter Exporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// ExportTable sends customers, orders or messages as a CSV attachment.
func (h *ExportHandler) ExportTable(c *gin.Context) {
	table, err := service.ParseTable(c.Param("table"))
	if err != nil {
		response.FromError(c, "invalid export table", err)
		return
	}

	// Buffered so a failed query still gets a JSON error instead of a truncated file.
	var buf bytes.Buffer
	if err := h.exporter.Export(c.Request.Context(), table, &buf); err != nil {
		response.FromError(c, "failed to export "+table, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment;filename=%s.csv", table))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
