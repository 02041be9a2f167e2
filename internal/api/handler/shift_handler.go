package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"smp-portal/backend/internal/dto"
	"smp-portal/backend/internal/service"
	pkgerrors "smp-portal/backend/pkg/errors"
	"smp-portal/backend/pkg/response"
)

// ShiftHandler serves the shift lifecycle endpoints.
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler creates a ShiftHandler.
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// Create opens a shift with its worker roster.
// POST /api/v1/shifts
func (h *ShiftHandler) Create(c *gin.Context) {
	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	shift, err := h.shiftSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Created(c, shift)
}

// GetByID returns one shift with supervisor and roster.
// GET /api/v1/shifts/:id
func (h *ShiftHandler) GetByID(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	shift, err := h.shiftSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, shift)
}

// GetCurrent returns the supervisor's most recent shift.
// GET /api/v1/shifts/current-shift/:supervisorId
func (h *ShiftHandler) GetCurrent(c *gin.Context) {
	supervisorID, ok := ParseIDParam(c, "supervisorId")
	if !ok {
		return
	}

	shift, err := h.shiftSvc.GetCurrent(c.Request.Context(), supervisorID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, shift)
}

// GetCurrentByWorker returns the most recent shift a worker is rostered on.
// GET /api/v1/shifts/current-shift/worker/:workerId
func (h *ShiftHandler) GetCurrentByWorker(c *gin.Context) {
	workerID, ok := ParseIDParam(c, "workerId")
	if !ok {
		return
	}

	shift, err := h.shiftSvc.GetCurrentByWorker(c.Request.Context(), workerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, shift)
}

// ListBySupervisor pages through a supervisor's shift history.
// GET /api/v1/shifts/supervisor/:supervisorId?page&limit
func (h *ShiftHandler) ListBySupervisor(c *gin.Context) {
	supervisorID, ok := ParseIDParam(c, "supervisorId")
	if !ok {
		return
	}
	page, limit := ParsePagination(c)

	shifts, total, err := h.shiftSvc.ListBySupervisor(c.Request.Context(), supervisorID, page, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OKPage(c, shifts, total, page, limit)
}

// Update applies a partial update, including lifecycle moves.
// PUT /api/v1/shifts/:id
func (h *ShiftHandler) Update(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	shift, err := h.shiftSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, shift)
}

// Delete soft-deletes a shift.
// DELETE /api/v1/shifts/:id
func (h *ShiftHandler) Delete(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.shiftSvc.SoftDelete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *ShiftHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 11001, "shift not found")
	case pkgerrors.IsInvalidTransition(err):
		response.Conflict(c, 11002, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 11003, "shift was modified concurrently, retry with fresh data")
	case errors.Is(err, service.ErrShiftTimeInvalid):
		response.BadRequest(c, 11004, "invalid shift time")
	case errors.Is(err, service.ErrShiftCreateFailed):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
