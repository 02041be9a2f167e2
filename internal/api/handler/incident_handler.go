package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	"smp-portal/backend/internal/dto"
	"smp-portal/backend/internal/service"
	pkgerrors "smp-portal/backend/pkg/errors"
	"smp-portal/backend/pkg/response"
)

// IncidentHandler serves the incident intake endpoints.
type IncidentHandler struct {
	incidentSvc service.IncidentService
}

// NewIncidentHandler creates an IncidentHandler.
func NewIncidentHandler(incidentSvc service.IncidentService) *IncidentHandler {
	return &IncidentHandler{incidentSvc: incidentSvc}
}

// Create files an incident report with optional evidence attachments.
// POST /api/v1/incidents  (multipart/form-data, files under "attachments")
//
// The incident row always commits when valid; attachment failures come back
// as warnings on a 201, never as a failed request.
func (h *IncidentHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	reporterID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil || reporterID <= 0 {
		response.Unauthorized(c, 10002, "invalid user identity")
		return
	}

	var req dto.CreateIncidentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}
	// The reporter is the authenticated caller, never a form field.
	req.ReportedByUserID = reporterID

	var files []service.EvidenceFile
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["attachments"] {
			files = append(files, evidenceFromHeader(fh))
		}
	}

	result, err := h.incidentSvc.Create(c.Request.Context(), &req, files)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if len(result.FailedAttachments) > 0 {
		response.CreatedWithWarnings(c, result.Incident, result.FailedAttachments)
		return
	}
	response.Created(c, result.Incident)
}

func evidenceFromHeader(fh *multipart.FileHeader) service.EvidenceFile {
	return service.EvidenceFile{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// ListByShift pages through the incidents of a shift, oldest first. The path
// parameter is the shift id.
// GET /api/v1/incidents/:id?page&limit
func (h *IncidentHandler) ListByShift(c *gin.Context) {
	shiftID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	page, limit := ParsePagination(c)

	incidents, total, err := h.incidentSvc.ListByShift(c.Request.Context(), shiftID, page, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OKPage(c, incidents, total, page, limit)
}

// Update applies a partial update, including status moves.
// PUT /api/v1/incidents/:id
func (h *IncidentHandler) Update(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	incident, err := h.incidentSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, incident)
}

// ListAttachments lists an incident's evidence with presigned download URLs.
// GET /api/v1/incidents/:id/attachments
func (h *IncidentHandler) ListAttachments(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	attachments, err := h.incidentSvc.ListAttachments(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, attachments)
}

func (h *IncidentHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrIncidentNotFound):
		response.NotFound(c, 12001, "incident not found")
	case pkgerrors.IsInvalidTransition(err):
		response.Conflict(c, 12002, err.Error())
	case errors.Is(err, service.ErrIncidentCreateFailed):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
