package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bottledays/internal/domain/report"
	"bottledays/internal/infrastructure/export"
	"bottledays/internal/infrastructure/http/v1/dto"
)

// ReportHandler handles bottle-days report endpoints.
type ReportHandler struct {
	*BaseHandler
	service  *report.Service
	exporter *export.Exporter
}

// NewReportHandler creates a new report handler.
func NewReportHandler(base *BaseHandler, service *report.Service, exporter *export.Exporter) *ReportHandler {
	return &ReportHandler{
		BaseHandler: base,
		service:     service,
		exporter:    exporter,
	}
}

func (h *ReportHandler) generate(c *gin.Context) (*report.Report, bool) {
	var q dto.ReportQuery
	if !h.BindQuery(c, &q) {
		return nil, false
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return nil, false
	}

	rep, err := h.service.Generate(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}
	return rep, true
}

// Get handles GET /reports/bottle-days
func (h *ReportHandler) Get(c *gin.Context) {
	rep, ok := h.generate(c)
	if !ok {
		return
	}
	h.OK(c, dto.FromReport(rep))
}

// Export handles GET /reports/bottle-days/export
// Returns a downloadable snapshot file.
func (h *ReportHandler) Export(c *gin.Context) {
	rep, ok := h.generate(c)
	if !ok {
		return
	}

	data, err := h.exporter.Encode("bottle-days-report", h.GetUserID(c), dto.FromReport(rep))
	if err != nil {
		h.Error(c, err)
		return
	}

	filename := fmt.Sprintf("bottle-days-%s.bdsnap", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/octet-stream", data)
}
