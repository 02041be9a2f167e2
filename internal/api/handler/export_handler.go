package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"smp-portal/backend/internal/service"
	"smp-portal/backend/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar"
)

// ExportHandler serves the file export endpoints.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportIncidentRegister downloads a shift's incident register as Excel.
// GET /api/v1/exports/incidents/:shiftId
func (h *ExportHandler) ExportIncidentRegister(c *gin.Context) {
	shiftID, ok := ParseIDParam(c, "shiftId")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportIncidentRegister(c.Request.Context(), shiftID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	writeDownload(c, xlsxContentType, filename, buf.Bytes())
}

// ExportShiftCalendar downloads a supervisor's shifts as an iCalendar feed.
// GET /api/v1/exports/shifts/:supervisorId/calendar
func (h *ExportHandler) ExportShiftCalendar(c *gin.Context) {
	supervisorID, ok := ParseIDParam(c, "supervisorId")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportShiftCalendar(c.Request.Context(), supervisorID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	writeDownload(c, icsContentType, filename, buf.Bytes())
}

func writeDownload(c *gin.Context, contentType, filename string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 11001, "shift not found")
	case errors.Is(err, service.ErrExportNoIncidents):
		response.NotFound(c, 16001, "shift has no incidents")
	case errors.Is(err, service.ErrExportNoShifts):
		response.NotFound(c, 16002, "supervisor has no shifts")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
