package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"smp-portal/backend/internal/model"
	pkgerrors "smp-portal/backend/pkg/errors"
)

// ShiftRepository is the shift lifecycle store's data access.
type ShiftRepository interface {
	// CreateWithWorkers inserts the shift and one roster row per worker in a
	// single transaction. Any insert failure rolls back the whole write.
	CreateWithWorkers(ctx context.Context, shift *model.Shift, workerIDs []int64) error
	GetByID(ctx context.Context, id int64) (*model.Shift, error)
	// GetCurrentBySupervisor returns the supervisor's most recently created
	// shift.
	GetCurrentBySupervisor(ctx context.Context, supervisorID int64) (*model.Shift, error)
	// GetCurrentByWorker returns the most recently created shift the worker
	// is rostered on.
	GetCurrentByWorker(ctx context.Context, workerID int64) (*model.Shift, error)
	ListBySupervisor(ctx context.Context, supervisorID int64, offset, limit int) ([]model.Shift, int64, error)
	// UpdateFields applies a partial update predicated on the version read by
	// the caller; a concurrent writer surfaces as ErrOptimisticLock.
	UpdateFields(ctx context.Context, id int64, version int, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id int64) error
}

// ShiftWorkerRepository reads roster rows. They are only ever written inside
// CreateWithWorkers.
type ShiftWorkerRepository interface {
	ListByShift(ctx context.Context, shiftID int64) ([]model.ShiftWorker, error)
}

// UserDetailRepository reads display profiles for roster assembly.
type UserDetailRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*model.UserDetail, error)
	ListByUserIDs(ctx context.Context, userIDs []int64) ([]model.UserDetail, error)
}

// ── Shift ──

type shiftRepo struct {
	db *gorm.DB
}

func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func (r *shiftRepo) CreateWithWorkers(ctx context.Context, shift *model.Shift, workerIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(shift).Error; err != nil {
			return err
		}
		for _, workerID := range workerIDs {
			link := model.ShiftWorker{
				ShiftID:      shift.ID,
				SupervisorID: shift.SupervisorID,
				WorkerID:     workerID,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *shiftRepo) GetByID(ctx context.Context, id int64) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = false", id).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) GetCurrentBySupervisor(ctx context.Context, supervisorID int64) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.WithContext(ctx).
		Where("supervisor_id = ? AND is_deleted = false", supervisorID).
		Order("created_at DESC").
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) GetCurrentByWorker(ctx context.Context, workerID int64) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.WithContext(ctx).
		Joins("JOIN shift_workers sw ON sw.shift_id = shifts.id").
		Where("sw.worker_id = ? AND sw.is_deleted = false AND shifts.is_deleted = false", workerID).
		Order("shifts.created_at DESC").
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) ListBySupervisor(ctx context.Context, supervisorID int64, offset, limit int) ([]model.Shift, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("supervisor_id = ? AND is_deleted = false", supervisorID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var shifts []model.Shift
	err := q.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&shifts).Error
	return shifts, total, err
}

func (r *shiftRepo) UpdateFields(ctx context.Context, id int64, version int, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	fields["version"] = version + 1

	result := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("id = ? AND version = ? AND is_deleted = false", id, version).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *shiftRepo) SoftDelete(ctx context.Context, id int64) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Shift{}).
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

// ── ShiftWorker ──

type shiftWorkerRepo struct {
	db *gorm.DB
}

func NewShiftWorkerRepo(db *gorm.DB) ShiftWorkerRepository {
	return &shiftWorkerRepo{db: db}
}

func (r *shiftWorkerRepo) ListByShift(ctx context.Context, shiftID int64) ([]model.ShiftWorker, error) {
	var workers []model.ShiftWorker
	err := r.db.WithContext(ctx).
		Where("shift_id = ? AND is_deleted = false", shiftID).
		Find(&workers).Error
	return workers, err
}

// ── UserDetail ──

type userDetailRepo struct {
	db *gorm.DB
}

func NewUserDetailRepo(db *gorm.DB) UserDetailRepository {
	return &userDetailRepo{db: db}
}

func (r *userDetailRepo) GetByUserID(ctx context.Context, userID int64) (*model.UserDetail, error) {
	var detail model.UserDetail
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = false", userID).
		First(&detail).Error
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *userDetailRepo) ListByUserIDs(ctx context.Context, userIDs []int64) ([]model.UserDetail, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var details []model.UserDetail
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND is_deleted = false", userIDs).
		Find(&details).Error
	return details, err
}
