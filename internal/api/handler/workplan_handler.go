package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"smp-portal/backend/internal/dto"
	"smp-portal/backend/internal/service"
	pkgerrors "smp-portal/backend/pkg/errors"
	"smp-portal/backend/pkg/response"
)

// WorkplanHandler serves the workplan and task endpoints.
type WorkplanHandler struct {
	workplanSvc service.WorkplanService
}

// NewWorkplanHandler creates a WorkplanHandler.
func NewWorkplanHandler(workplanSvc service.WorkplanService) *WorkplanHandler {
	return &WorkplanHandler{workplanSvc: workplanSvc}
}

// Create assembles a workplan from control steps in one transaction.
// POST /api/v1/workplans
func (h *WorkplanHandler) Create(c *gin.Context) {
	var req dto.CreateWorkplanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	workplan, err := h.workplanSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Created(c, workplan)
}

// GetByIncident returns the workplan assembled for an incident.
// GET /api/v1/workplans/:incidentId
func (h *WorkplanHandler) GetByIncident(c *gin.Context) {
	incidentID, ok := ParseIDParam(c, "incidentId")
	if !ok {
		return
	}

	workplan, err := h.workplanSvc.GetByIncident(c.Request.Context(), incidentID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, workplan)
}

// ListIncompleteTasks lists the unfinished tasks of an incident's workplan.
// GET /api/v1/workplans/:incidentId/incomplete-tasks
func (h *WorkplanHandler) ListIncompleteTasks(c *gin.Context) {
	incidentID, ok := ParseIDParam(c, "incidentId")
	if !ok {
		return
	}

	tasks, err := h.workplanSvc.ListIncompleteTasks(c.Request.Context(), incidentID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, tasks)
}

// ListTasksByWorker lists every task assigned to a worker.
// GET /api/v1/tasks/worker/:workerId
func (h *WorkplanHandler) ListTasksByWorker(c *gin.Context) {
	workerID, ok := ParseIDParam(c, "workerId")
	if !ok {
		return
	}

	tasks, err := h.workplanSvc.ListTasksByWorker(c.Request.Context(), workerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, tasks)
}

// UpdateTask applies a partial update, including status moves.
// PUT /api/v1/tasks/:taskId
func (h *WorkplanHandler) UpdateTask(c *gin.Context) {
	taskID, ok := ParseIDParam(c, "taskId")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	task, err := h.workplanSvc.UpdateTask(c.Request.Context(), taskID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, task)
}

func (h *WorkplanHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkplanNotFound):
		response.NotFound(c, 14001, "workplan not found")
	case errors.Is(err, service.ErrWorkplanExists):
		response.Conflict(c, 14002, "workplan already exists for incident and hazard")
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 14003, "task not found")
	case pkgerrors.IsInvalidTransition(err):
		response.Conflict(c, 14004, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 14005, "task was modified concurrently, retry with fresh data")
	case errors.Is(err, service.ErrWorkplanCreateFailed):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
