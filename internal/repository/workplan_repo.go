package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"smp-portal/backend/internal/model"
	pkgerrors "smp-portal/backend/pkg/errors"
)

// WorkplanStep is one control step selected for assembly, with its worker
// assignments. Descriptions and names are snapshotted into the rows.
type WorkplanStep struct {
	ControlStepID   int64
	TaskDescription string
	Workers         []WorkerAssignment
}

// WorkerAssignment is one worker on a step.
type WorkerAssignment struct {
	WorkerID   int64
	WorkerName string
}

// WorkplanRepository is the workplan assembler's data access.
type WorkplanRepository interface {
	// CreateFull inserts the workplan, one task per step and one
	// assigned-worker row per assignment, all in a single transaction. Any
	// insert failure leaves no rows behind.
	CreateFull(ctx context.Context, workplan *model.Workplan, steps []WorkplanStep) error
	GetByIncident(ctx context.Context, incidentID int64) (*model.Workplan, error)
	ExistsForIncidentHazard(ctx context.Context, incidentID, hazardID int64) (bool, error)
}

// TaskRepository accesses workplan tasks.
type TaskRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Task, error)
	ListByWorkplan(ctx context.Context, workplanID int64) ([]model.Task, error)
	// ListUnfinished returns only tasks whose status is literally
	// "unfinished", the terminal not-done state, not pending or in_progress.
	ListUnfinished(ctx context.Context, workplanID int64) ([]model.Task, error)
	ListByWorker(ctx context.Context, workerID int64) ([]model.Task, error)
	// UpdateFields applies a partial update predicated on the version read by
	// the caller; a concurrent writer surfaces as ErrOptimisticLock.
	UpdateFields(ctx context.Context, id int64, version int, fields map[string]interface{}) error
}

// AssignedWorkerRepository reads worker assignments.
type AssignedWorkerRepository interface {
	// ListByTaskIDs batch-fetches the assignments of all given tasks in one
	// query.
	ListByTaskIDs(ctx context.Context, taskIDs []int64) ([]model.AssignedWorker, error)
}

// ── Workplan ──

type workplanRepo struct {
	db *gorm.DB
}

func NewWorkplanRepo(db *gorm.DB) WorkplanRepository {
	return &workplanRepo{db: db}
}

func (r *workplanRepo) CreateFull(ctx context.Context, workplan *model.Workplan, steps []WorkplanStep) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workplan).Error; err != nil {
			return err
		}
		for _, step := range steps {
			task := model.Task{
				WorkplanID:         workplan.ID,
				ControlProcedureID: step.ControlStepID,
				TaskDescription:    step.TaskDescription,
				Status:             model.TaskPending,
				Version:            1,
			}
			if err := tx.Create(&task).Error; err != nil {
				return err
			}
			for _, w := range step.Workers {
				assignment := model.AssignedWorker{
					TaskID:     task.ID,
					WorkerID:   w.WorkerID,
					WorkerName: w.WorkerName,
				}
				if err := tx.Create(&assignment).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *workplanRepo) GetByIncident(ctx context.Context, incidentID int64) (*model.Workplan, error) {
	var workplan model.Workplan
	err := r.db.WithContext(ctx).
		Where("incident_id = ? AND is_deleted = false", incidentID).
		First(&workplan).Error
	if err != nil {
		return nil, err
	}
	return &workplan, nil
}

func (r *workplanRepo) ExistsForIncidentHazard(ctx context.Context, incidentID, hazardID int64) (bool, error) {
	var workplan model.Workplan
	err := r.db.WithContext(ctx).
		Select("id").
		Where("incident_id = ? AND hazard_id = ? AND is_deleted = false", incidentID, hazardID).
		First(&workplan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ── Task ──

type taskRepo struct {
	db *gorm.DB
}

func NewTaskRepo(db *gorm.DB) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) GetByID(ctx context.Context, id int64) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = false", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepo) ListByWorkplan(ctx context.Context, workplanID int64) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("workplan_id = ? AND is_deleted = false", workplanID).
		Order("id ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) ListUnfinished(ctx context.Context, workplanID int64) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("workplan_id = ? AND status = ? AND is_deleted = false", workplanID, model.TaskUnfinished).
		Order("id ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) ListByWorker(ctx context.Context, workerID int64) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Joins("JOIN assigned_workers aw ON aw.task_id = workplan_tasks.id").
		Where("aw.worker_id = ? AND aw.is_deleted = false AND workplan_tasks.is_deleted = false", workerID).
		Order("workplan_tasks.id ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) UpdateFields(ctx context.Context, id int64, version int, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	fields["version"] = version + 1

	result := r.db.WithContext(ctx).
		Model(&model.Task{}).
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

// ── AssignedWorker ──

type assignedWorkerRepo struct {
	db *gorm.DB
}

func NewAssignedWorkerRepo(db *gorm.DB) AssignedWorkerRepository {
	return &assignedWorkerRepo{db: db}
}

func (r *assignedWorkerRepo) ListByTaskIDs(ctx context.Context, taskIDs []int64) ([]model.AssignedWorker, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	var workers []model.AssignedWorker
	err := r.db.WithContext(ctx).
		Where("task_id IN ? AND is_deleted = false", taskIDs).
		Order("id ASC").
		Find(&workers).Error
	return workers, err
}
