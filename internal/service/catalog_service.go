package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"smp-portal/backend/internal/dto"
	"smp-portal/backend/internal/model"
	"smp-portal/backend/internal/repository"
)

// ── catalog module errors ──

var (
	ErrSMPDocumentNotFound = errors.New("smp document not found")
	ErrHazardNotFound      = errors.New("hazard not found")
	ErrControlPlanNotFound = errors.New("control plan not found")
	ErrControlPlanExists   = errors.New("hazard already has a control plan")
)

// CatalogService serves the hazard and control-plan catalog under the active
// safety management plan documents.
type CatalogService interface {
	ListDocuments(ctx context.Context) ([]dto.SMPDocumentResponse, error)
	GetDocument(ctx context.Context, id int64) (*dto.SMPDocumentResponse, error)
	CreateHazard(ctx context.Context, req *dto.CreateHazardRequest) (*dto.HazardResponse, error)
	GetHazard(ctx context.Context, id int64) (*dto.HazardResponse, error)
	ListHazards(ctx context.Context, category string, smpDocumentID int64, page, limit int) ([]dto.HazardResponse, int64, error)
	UpdateHazard(ctx context.Context, id int64, req *dto.UpdateHazardRequest) (*dto.HazardResponse, error)
	DeleteHazard(ctx context.Context, id int64) error
	CreateControlPlan(ctx context.Context, req *dto.CreateControlPlanRequest) (*dto.ControlPlanResponse, error)
	GetControlPlanByHazard(ctx context.Context, hazardID int64) (*dto.ControlPlanResponse, error)
	AddControlSteps(ctx context.Context, planID int64, req *dto.AddControlStepsRequest) (*dto.ControlPlanResponse, error)
}

type catalogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(repo *repository.Repository, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, logger: logger}
}

func (s *catalogService) ListDocuments(ctx context.Context) ([]dto.SMPDocumentResponse, error) {
	docs, err := s.repo.SMPDocument.List(ctx)
	if err != nil {
		s.logger.Error("smp document listing failed", zap.Error(err))
		return nil, err
	}

	list := make([]dto.SMPDocumentResponse, 0, len(docs))
	for i := range docs {
		list = append(list, documentResponse(&docs[i]))
	}
	return list, nil
}

func (s *catalogService) GetDocument(ctx context.Context, id int64) (*dto.SMPDocumentResponse, error) {
	doc, err := s.repo.SMPDocument.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSMPDocumentNotFound
		}
		return nil, err
	}
	resp := documentResponse(doc)
	return &resp, nil
}

func (s *catalogService) CreateHazard(ctx context.Context, req *dto.CreateHazardRequest) (*dto.HazardResponse, error) {
	if _, err := s.repo.SMPDocument.GetByID(ctx, req.SMPDocumentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSMPDocumentNotFound
		}
		return nil, err
	}

	hazard := &model.Hazard{
		SMPDocumentID:   req.SMPDocumentID,
		Category:        req.Category,
		Description:     req.Description,
		RiskConsequence: req.RiskConsequence,
		RiskExposure:    req.RiskExposure,
		RiskProbability: req.RiskProbability,
		RiskRating:      model.ComputeRiskRating(req.RiskConsequence, req.RiskExposure, req.RiskProbability),
	}
	if err := s.repo.Hazard.Create(ctx, hazard); err != nil {
		s.logger.Error("hazard insert failed", zap.Int64("smp_document_id", req.SMPDocumentID), zap.Error(err))
		return nil, err
	}

	resp := hazardResponse(hazard)
	return &resp, nil
}

func (s *catalogService) GetHazard(ctx context.Context, id int64) (*dto.HazardResponse, error) {
	hazard, err := s.repo.Hazard.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHazardNotFound
		}
		return nil, err
	}
	resp := hazardResponse(hazard)
	return &resp, nil
}

func (s *catalogService) ListHazards(ctx context.Context, category string, smpDocumentID int64, page, limit int) ([]dto.HazardResponse, int64, error) {
	offset := (page - 1) * limit
	hazards, total, err := s.repo.Hazard.ListByCategory(ctx, category, smpDocumentID, offset, limit)
	if err != nil {
		s.logger.Error("hazard listing failed", zap.String("category", category), zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.HazardResponse, 0, len(hazards))
	for i := range hazards {
		list = append(list, hazardResponse(&hazards[i]))
	}
	return list, total, nil
}

func (s *catalogService) UpdateHazard(ctx context.Context, id int64, req *dto.UpdateHazardRequest) (*dto.HazardResponse, error) {
	hazard, err := s.repo.Hazard.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHazardNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}

	consequence := hazard.RiskConsequence
	exposure := hazard.RiskExposure
	probability := hazard.RiskProbability
	factorsChanged := false
	if req.RiskConsequence != nil {
		consequence = *req.RiskConsequence
		fields["risk_consequence"] = consequence
		factorsChanged = true
	}
	if req.RiskExposure != nil {
		exposure = *req.RiskExposure
		fields["risk_exposure"] = exposure
		factorsChanged = true
	}
	if req.RiskProbability != nil {
		probability = *req.RiskProbability
		fields["risk_probability"] = probability
		factorsChanged = true
	}
	// The rating is never accepted from the caller; it follows the factors.
	if factorsChanged {
		fields["risk_rating"] = model.ComputeRiskRating(consequence, exposure, probability)
	}

	if len(fields) > 0 {
		if err := s.repo.Hazard.UpdateFields(ctx, id, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrHazardNotFound
			}
			s.logger.Error("hazard update failed", zap.Int64("hazard_id", id), zap.Error(err))
			return nil, err
		}
	}

	updated, err := s.repo.Hazard.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := hazardResponse(updated)
	return &resp, nil
}

func (s *catalogService) DeleteHazard(ctx context.Context, id int64) error {
	if err := s.repo.Hazard.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHazardNotFound
		}
		s.logger.Error("hazard delete failed", zap.Int64("hazard_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *catalogService) CreateControlPlan(ctx context.Context, req *dto.CreateControlPlanRequest) (*dto.ControlPlanResponse, error) {
	if _, err := s.repo.Hazard.GetByID(ctx, req.HazardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHazardNotFound
		}
		return nil, err
	}

	if _, err := s.repo.ControlPlan.GetByHazard(ctx, req.HazardID); err == nil {
		return nil, ErrControlPlanExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	plan := &model.ControlPlan{
		HazardID:  req.HazardID,
		ERCI:      req.ERCI,
		PersonRes: req.PersonRes,
	}
	if err := s.repo.ControlPlan.Create(ctx, plan); err != nil {
		s.logger.Error("control plan insert failed", zap.Int64("hazard_id", req.HazardID), zap.Error(err))
		return nil, err
	}

	return s.assemblePlan(ctx, plan)
}

func (s *catalogService) GetControlPlanByHazard(ctx context.Context, hazardID int64) (*dto.ControlPlanResponse, error) {
	plan, err := s.repo.ControlPlan.GetByHazard(ctx, hazardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrControlPlanNotFound
		}
		return nil, err
	}
	return s.assemblePlan(ctx, plan)
}

func (s *catalogService) AddControlSteps(ctx context.Context, planID int64, req *dto.AddControlStepsRequest) (*dto.ControlPlanResponse, error) {
	plan, err := s.repo.ControlPlan.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrControlPlanNotFound
		}
		return nil, err
	}

	descriptions := make([]string, 0, len(req.Steps))
	for _, step := range req.Steps {
		descriptions = append(descriptions, step.Description)
	}
	if err := s.repo.ControlPlan.AddSteps(ctx, planID, descriptions); err != nil {
		s.logger.Error("control step insert failed", zap.Int64("control_plan_id", planID), zap.Error(err))
		return nil, err
	}

	return s.assemblePlan(ctx, plan)
}

func (s *catalogService) assemblePlan(ctx context.Context, plan *model.ControlPlan) (*dto.ControlPlanResponse, error) {
	steps, err := s.repo.ControlPlan.ListSteps(ctx, plan.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ControlPlanResponse{
		ID:        plan.ID,
		HazardID:  plan.HazardID,
		ERCI:      plan.ERCI,
		PersonRes: plan.PersonRes,
		Steps:     make([]dto.ControlStepResponse, 0, len(steps)),
	}
	for _, step := range steps {
		resp.Steps = append(resp.Steps, dto.ControlStepResponse{
			ID:          step.ID,
			Description: step.Description,
		})
	}
	return resp, nil
}

func documentResponse(doc *model.SMPDocument) dto.SMPDocumentResponse {
	return dto.SMPDocumentResponse{
		ID:             doc.ID,
		Version:        doc.Version,
		Title:          doc.Title,
		ApprovalDate:   doc.ApprovalDate.Format(time.RFC3339),
		ApprovalStatus: doc.ApprovalStatus,
		IsActive:       doc.IsActive,
	}
}

func hazardResponse(hazard *model.Hazard) dto.HazardResponse {
	return dto.HazardResponse{
		ID:              hazard.ID,
		SMPDocumentID:   hazard.SMPDocumentID,
		Category:        hazard.Category,
		Description:     hazard.Description,
		RiskConsequence: hazard.RiskConsequence,
		RiskExposure:    hazard.RiskExposure,
		RiskProbability: hazard.RiskProbability,
		RiskRating:      hazard.RiskRating,
	}
}
