package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"peerflow/internal/service"
)

// ReportHandler handles editorial export endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ExportCSV handles GET /api/v1/reports/submissions/csv
// @Summary Export submissions as CSV
// @Description Download the full submission pipeline as a UTF-8 CSV file (editorial staff only)
// @Tags reports
// @Produce text/csv
// @Success 200 {file} file "CSV export"
// @Failure 403 {object} APIResponse "Forbidden"
// @Security BearerAuth
// @Router /reports/submissions/csv [get]
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	_, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	data, err := h.reportService.ExportSubmissionsCSV(c.Request.Context(), role)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("submissions_%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ExportXLSX handles GET /api/v1/reports/submissions/xlsx
// @Summary Export submissions as XLSX
// @Description Download the full submission pipeline as an Excel workbook (editorial staff only)
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file "XLSX export"
// @Failure 403 {object} APIResponse "Forbidden"
// @Security BearerAuth
// @Router /reports/submissions/xlsx [get]
func (h *ReportHandler) ExportXLSX(c *gin.Context) {
	_, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	data, err := h.reportService.ExportSubmissionsXLSX(c.Request.Context(), role)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("submissions_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
