package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"smp-portal/backend/internal/model"
)

// SMPDocumentRepository reads safety-management-plan documents.
type SMPDocumentRepository interface {
	GetByID(ctx context.Context, id int64) (*model.SMPDocument, error)
	List(ctx context.Context) ([]model.SMPDocument, error)
}

// HazardRepository is the hazard catalog's data access.
type HazardRepository interface {
	Create(ctx context.Context, hazard *model.Hazard) error
	GetByID(ctx context.Context, id int64) (*model.Hazard, error)
	ListByCategory(ctx context.Context, category string, smpDocumentID int64, offset, limit int) ([]model.Hazard, int64, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id int64) error
}

// ControlPlanRepository accesses control plans and their ordered steps.
type ControlPlanRepository interface {
	Create(ctx context.Context, plan *model.ControlPlan) error
	GetByID(ctx context.Context, id int64) (*model.ControlPlan, error)
	GetByHazard(ctx context.Context, hazardID int64) (*model.ControlPlan, error)
	// AddSteps appends all step rows in one transaction; a single failure
	// rolls back the batch.
	AddSteps(ctx context.Context, planID int64, descriptions []string) error
	// ListSteps returns the plan's steps ordered by id.
	ListSteps(ctx context.Context, planID int64) ([]model.ControlStep, error)
}

// ── SMPDocument ──

type smpDocumentRepo struct {
	db *gorm.DB
}

func NewSMPDocumentRepo(db *gorm.DB) SMPDocumentRepository {
	return &smpDocumentRepo{db: db}
}

func (r *smpDocumentRepo) GetByID(ctx context.Context, id int64) (*model.SMPDocument, error) {
	var doc model.SMPDocument
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = false", id).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *smpDocumentRepo) List(ctx context.Context) ([]model.SMPDocument, error) {
	var docs []model.SMPDocument
	err := r.db.WithContext(ctx).
		Where("is_deleted = false").
		Order("version DESC").
		Find(&docs).Error
	return docs, err
}

// ── Hazard ──

type hazardRepo struct {
	db *gorm.DB
}

func NewHazardRepo(db *gorm.DB) HazardRepository {
	return &hazardRepo{db: db}
}

func (r *hazardRepo) Create(ctx context.Context, hazard *model.Hazard) error {
	return r.db.WithContext(ctx).Create(hazard).Error
}

func (r *hazardRepo) GetByID(ctx context.Context, id int64) (*model.Hazard, error) {
	var hazard model.Hazard
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = false", id).
		First(&hazard).Error
	if err != nil {
		return nil, err
	}
	return &hazard, nil
}

func (r *hazardRepo) ListByCategory(ctx context.Context, category string, smpDocumentID int64, offset, limit int) ([]model.Hazard, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Hazard{}).
		Where("category = ? AND smp_document_id = ? AND is_deleted = false", category, smpDocumentID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var hazards []model.Hazard
	err := q.Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&hazards).Error
	return hazards, total, err
}

func (r *hazardRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.Hazard{}).
		Where("id = ? AND is_deleted = false", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *hazardRepo) SoftDelete(ctx context.Context, id int64) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Hazard{}).
		Where("id = ? AND is_deleted = false", id).
		Updates(map[string]interface{}{
			"deleted_at": now,
			"is_deleted": true,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ── ControlPlan ──

type controlPlanRepo struct {
	db *gorm.DB
}

func NewControlPlanRepo(db *gorm.DB) ControlPlanRepository {
	return &controlPlanRepo{db: db}
}

func (r *controlPlanRepo) Create(ctx context.Context, plan *model.ControlPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *controlPlanRepo) GetByID(ctx context.Context, id int64) (*model.ControlPlan, error) {
	var plan model.ControlPlan
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = false", id).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *controlPlanRepo) GetByHazard(ctx context.Context, hazardID int64) (*model.ControlPlan, error) {
	var plan model.ControlPlan
	err := r.db.WithContext(ctx).
		Where("hazard_id = ? AND is_deleted = false", hazardID).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *controlPlanRepo) AddSteps(ctx context.Context, planID int64, descriptions []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, desc := range descriptions {
			step := model.ControlStep{
				ControlPlanID: planID,
				Description:   desc,
			}
			if err := tx.Create(&step).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *controlPlanRepo) ListSteps(ctx context.Context, planID int64) ([]model.ControlStep, error) {
	var steps []model.ControlStep
	err := r.db.WithContext(ctx).
		Where("control_plan_id = ? AND is_deleted = false", planID).
		Order("id ASC").
		Find(&steps).Error
	return steps, err
}
