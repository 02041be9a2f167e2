package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"smp-portal/backend/internal/model"
)

// IncidentRepository is the incident intake pipeline's data access. The
// incident insert commits on its own; attachments are layered on top
// best-effort by the service.
type IncidentRepository interface {
	Create(ctx context.Context, incident *model.Incident) error
	GetByID(ctx context.Context, id int64) (*model.Incident, error)
	ListByShift(ctx context.Context, shiftID int64, offset, limit int) ([]model.Incident, int64, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
}

// AttachmentRepository stores evidence rows after their object upload
// succeeded.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *model.Attachment) error
	ListByIncident(ctx context.Context, incidentID int64) ([]model.Attachment, error)
}

// ── Incident ──

type incidentRepo struct {
	db *gorm.DB
}

func NewIncidentRepo(db *gorm.DB) IncidentRepository {
	return &incidentRepo{db: db}
}

func (r *incidentRepo) Create(ctx context.Context, incident *model.Incident) error {
	return r.db.WithContext(ctx).Create(incident).Error
}

func (r *incidentRepo) GetByID(ctx context.Context, id int64) (*model.Incident, error) {
	var incident model.Incident
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = false", id).
		First(&incident).Error
	if err != nil {
		return nil, err
	}
	return &incident, nil
}

func (r *incidentRepo) ListByShift(ctx context.Context, shiftID int64, offset, limit int) ([]model.Incident, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Incident{}).
		Where("shift_id = ? AND is_deleted = false", shiftID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var incidents []model.Incident
	err := q.Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&incidents).Error
	return incidents, total, err
}

func (r *incidentRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.Incident{}).
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

// ── Attachment ──

type attachmentRepo struct {
	db *gorm.DB
}

func NewAttachmentRepo(db *gorm.DB) AttachmentRepository {
	return &attachmentRepo{db: db}
}

func (r *attachmentRepo) Create(ctx context.Context, attachment *model.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *attachmentRepo) ListByIncident(ctx context.Context, incidentID int64) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := r.db.WithContext(ctx).
		Where("incident_id = ? AND is_deleted = false", incidentID).
		Order("id ASC").
		Find(&attachments).Error
	return attachments, err
}
