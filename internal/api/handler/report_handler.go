package handler

import (
	"github.com/gin-gonic/gin"

	"smp-portal/backend/internal/service"
	"smp-portal/backend/pkg/response"
)

// ReportHandler serves the handover report endpoint.
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// GenerateShiftReport assembles a handover report for a shift. Sections the
// downstream services could not answer come back marked unavailable; the
// request itself still succeeds.
// GET /api/v1/reports/shift/:shiftId
func (h *ReportHandler) GenerateShiftReport(c *gin.Context) {
	shiftID, ok := ParseIDParam(c, "shiftId")
	if !ok {
		return
	}

	report, err := h.reportSvc.GenerateShiftReport(c.Request.Context(), shiftID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, report)
}
