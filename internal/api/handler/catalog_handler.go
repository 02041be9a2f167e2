package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"smp-portal/backend/internal/dto"
	"smp-portal/backend/internal/model"
	"smp-portal/backend/internal/service"
	"smp-portal/backend/pkg/response"
)

// CatalogHandler serves the hazard and control-plan catalog endpoints.
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListDocuments lists the safety management plan documents.
// GET /api/v1/smp-documents
func (h *CatalogHandler) ListDocuments(c *gin.Context) {
	docs, err := h.catalogSvc.ListDocuments(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, docs)
}

// CreateHazard registers a hazard under an SMP document.
// POST /api/v1/hazards
func (h *CatalogHandler) CreateHazard(c *gin.Context) {
	var req dto.CreateHazardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	hazard, err := h.catalogSvc.CreateHazard(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, hazard)
}

// ListHazards filters hazards by category and document.
// GET /api/v1/hazards?category&smp_document_id&page&limit
func (h *CatalogHandler) ListHazards(c *gin.Context) {
	category := c.Query("category")
	if category != "" && !model.HazardCategoryValid(category) {
		response.BadRequest(c, 10001, "invalid category")
		return
	}

	var smpDocumentID int64
	if raw := c.Query("smp_document_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(c, 10001, "invalid smp_document_id")
			return
		}
		smpDocumentID = id
	}
	page, limit := ParsePagination(c)

	hazards, total, err := h.catalogSvc.ListHazards(c.Request.Context(), category, smpDocumentID, page, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OKPage(c, hazards, total, page, limit)
}

// UpdateHazard applies a partial update; the rating follows the factors.
// PUT /api/v1/hazards/:id
func (h *CatalogHandler) UpdateHazard(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateHazardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	hazard, err := h.catalogSvc.UpdateHazard(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, hazard)
}

// DeleteHazard soft-deletes a hazard.
// DELETE /api/v1/hazards/:id
func (h *CatalogHandler) DeleteHazard(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogSvc.DeleteHazard(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// GetControlPlan returns the hazard's control plan with its steps.
// GET /api/v1/hazards/:id/control-plan
func (h *CatalogHandler) GetControlPlan(c *gin.Context) {
	hazardID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.catalogSvc.GetControlPlanByHazard(c.Request.Context(), hazardID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, plan)
}

// CreateControlPlan attaches a control plan to a hazard.
// POST /api/v1/control-plans
func (h *CatalogHandler) CreateControlPlan(c *gin.Context) {
	var req dto.CreateControlPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	plan, err := h.catalogSvc.CreateControlPlan(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, plan)
}

// AddControlSteps appends steps to a control plan in one transaction.
// POST /api/v1/control-plans/:id/steps
func (h *CatalogHandler) AddControlSteps(c *gin.Context) {
	planID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AddControlStepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	plan, err := h.catalogSvc.AddControlSteps(c.Request.Context(), planID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, plan)
}

func (h *CatalogHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSMPDocumentNotFound):
		response.NotFound(c, 13001, "smp document not found")
	case errors.Is(err, service.ErrHazardNotFound):
		response.NotFound(c, 13002, "hazard not found")
	case errors.Is(err, service.ErrControlPlanNotFound):
		response.NotFound(c, 13003, "control plan not found")
	case errors.Is(err, service.ErrControlPlanExists):
		response.Conflict(c, 13004, "hazard already has a control plan")
	default:
		response.InternalError(c)
	}
}
