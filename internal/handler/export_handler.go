package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SameerShan723/timetable-api/internal/service"
	"github.com/SameerShan723/timetable-api/pkg/response"
)

type timetableExportService interface {
	Render(ctx context.Context, version int, format service.ExportFormat) (*service.ExportDocument, error)
}

// ExportHandler serves rendered timetable documents.
type ExportHandler struct {
	exports timetableExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(exports timetableExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Export godoc
// @Summary Export one version as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param version path int true "Version number"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /timetable/versions/{version}/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	version, err := versionParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", "csv")))

	doc, err := h.exports.Render(c.Request.Context(), version, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}
