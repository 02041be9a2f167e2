package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"smp-portal/backend/internal/dto"
	"smp-portal/backend/internal/model"
	"smp-portal/backend/internal/repository"
	pkgerrors "smp-portal/backend/pkg/errors"
)

// ── workplan module errors ──

var (
	ErrWorkplanNotFound     = errors.New("workplan not found")
	ErrWorkplanExists       = errors.New("workplan already exists for incident and hazard")
	ErrWorkplanCreateFailed = errors.New("workplan creation failed")
	ErrTaskNotFound         = errors.New("task not found")
)

// IncidentAcknowledger moves an incident to acknowledged after a workplan
// commits. Implemented by the incident service client; the call is
// best-effort and never rolls the workplan back.
type IncidentAcknowledger interface {
	AcknowledgeIncident(ctx context.Context, incidentID int64) error
}

// WorkplanService assembles workplans from control steps and tracks their
// tasks through the pending/in_progress/completed-or-unfinished lifecycle.
type WorkplanService interface {
	Create(ctx context.Context, req *dto.CreateWorkplanRequest) (*dto.WorkplanResponse, error)
	GetByIncident(ctx context.Context, incidentID int64) (*dto.WorkplanResponse, error)
	// ListIncompleteTasks returns the tasks of the incident's workplan whose
	// status is unfinished. Pending and in-progress tasks are not incomplete;
	// they are still live.
	ListIncompleteTasks(ctx context.Context, incidentID int64) ([]dto.TaskResponse, error)
	ListTasksByWorker(ctx context.Context, workerID int64) ([]dto.WorkerTaskResponse, error)
	UpdateTask(ctx context.Context, taskID int64, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
}

type workplanService struct {
	repo         *repository.Repository
	acknowledger IncidentAcknowledger
	logger       *zap.Logger
}

// NewWorkplanService creates a WorkplanService. acknowledger may be nil when
// the incident service is unreachable by configuration.
func NewWorkplanService(repo *repository.Repository, acknowledger IncidentAcknowledger, logger *zap.Logger) WorkplanService {
	return &workplanService{repo: repo, acknowledger: acknowledger, logger: logger}
}

func (s *workplanService) Create(ctx context.Context, req *dto.CreateWorkplanRequest) (*dto.WorkplanResponse, error) {
	exists, err := s.repo.Workplan.ExistsForIncidentHazard(ctx, req.IncidentID, req.HazardID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrWorkplanExists
	}

	workplan := &model.Workplan{
		IncidentID: req.IncidentID,
		HazardID:   req.HazardID,
	}
	steps := make([]repository.WorkplanStep, 0, len(req.Steps))
	for _, step := range req.Steps {
		workers := make([]repository.WorkerAssignment, 0, len(step.Workers))
		for _, w := range step.Workers {
			workers = append(workers, repository.WorkerAssignment{
				WorkerID:   w.ID,
				WorkerName: w.Name,
			})
		}
		steps = append(steps, repository.WorkplanStep{
			ControlStepID:   step.ControlStepID,
			TaskDescription: step.TaskDescription,
			Workers:         workers,
		})
	}

	// One transaction for the workplan, its tasks and their workers. A
	// failure anywhere leaves nothing behind.
	if err := s.repo.Workplan.CreateFull(ctx, workplan, steps); err != nil {
		s.logger.Error("workplan assembly failed",
			zap.Int64("incident_id", req.IncidentID),
			zap.Int64("hazard_id", req.HazardID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrWorkplanCreateFailed, err)
	}

	// The workplan is committed; a failed acknowledgement only logs.
	if s.acknowledger != nil {
		if err := s.acknowledger.AcknowledgeIncident(ctx, req.IncidentID); err != nil {
			s.logger.Warn("incident acknowledgement failed",
				zap.Int64("incident_id", req.IncidentID),
				zap.Error(err),
			)
		}
	}

	return s.assembleWorkplan(ctx, workplan)
}

func (s *workplanService) GetByIncident(ctx context.Context, incidentID int64) (*dto.WorkplanResponse, error) {
	workplan, err := s.repo.Workplan.GetByIncident(ctx, incidentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkplanNotFound
		}
		return nil, err
	}
	return s.assembleWorkplan(ctx, workplan)
}

func (s *workplanService) ListIncompleteTasks(ctx context.Context, incidentID int64) ([]dto.TaskResponse, error) {
	workplan, err := s.repo.Workplan.GetByIncident(ctx, incidentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkplanNotFound
		}
		return nil, err
	}

	tasks, err := s.repo.Task.ListUnfinished(ctx, workplan.ID)
	if err != nil {
		s.logger.Error("unfinished task listing failed", zap.Int64("workplan_id", workplan.ID), zap.Error(err))
		return nil, err
	}
	return s.assembleTasks(ctx, tasks)
}

func (s *workplanService) ListTasksByWorker(ctx context.Context, workerID int64) ([]dto.WorkerTaskResponse, error) {
	tasks, err := s.repo.Task.ListByWorker(ctx, workerID)
	if err != nil {
		s.logger.Error("worker task listing failed", zap.Int64("worker_id", workerID), zap.Error(err))
		return nil, err
	}

	list := make([]dto.WorkerTaskResponse, 0, len(tasks))
	for _, task := range tasks {
		list = append(list, dto.WorkerTaskResponse{
			TaskID:          task.ID,
			WorkplanID:      task.WorkplanID,
			TaskDescription: task.TaskDescription,
			Status:          task.Status,
		})
	}
	return list, nil
}

func (s *workplanService) UpdateTask(ctx context.Context, taskID int64, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, err := s.repo.Task.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Status != nil && *req.Status != task.Status {
		if !model.TaskCanTransition(task.Status, *req.Status) {
			return nil, pkgerrors.NewInvalidTransition("task", task.Status, *req.Status)
		}
		fields["status"] = *req.Status
	}
	if req.TaskDescription != nil {
		fields["task_description"] = *req.TaskDescription
	}

	if len(fields) > 0 {
		if err := s.repo.Task.UpdateFields(ctx, taskID, task.Version, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTaskNotFound
			}
			s.logger.Error("task update failed", zap.Int64("task_id", taskID), zap.Error(err))
			return nil, err
		}
	}

	updated, err := s.repo.Task.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	resp, err := s.assembleTasks(ctx, []model.Task{*updated})
	if err != nil {
		return nil, err
	}
	return &resp[0], nil
}

func (s *workplanService) assembleWorkplan(ctx context.Context, workplan *model.Workplan) (*dto.WorkplanResponse, error) {
	tasks, err := s.repo.Task.ListByWorkplan(ctx, workplan.ID)
	if err != nil {
		return nil, err
	}
	taskResponses, err := s.assembleTasks(ctx, tasks)
	if err != nil {
		return nil, err
	}
	return &dto.WorkplanResponse{
		ID:         workplan.ID,
		IncidentID: workplan.IncidentID,
		HazardID:   workplan.HazardID,
		Tasks:      taskResponses,
	}, nil
}

// assembleTasks joins workers onto tasks with one batched lookup over all
// task ids rather than one query per task.
func (s *workplanService) assembleTasks(ctx context.Context, tasks []model.Task) ([]dto.TaskResponse, error) {
	taskIDs := make([]int64, 0, len(tasks))
	for _, task := range tasks {
		taskIDs = append(taskIDs, task.ID)
	}

	workersByTask := map[int64][]dto.TaskWorkerResponse{}
	if len(taskIDs) > 0 {
		workers, err := s.repo.AssignedWorker.ListByTaskIDs(ctx, taskIDs)
		if err != nil {
			return nil, err
		}
		for _, w := range workers {
			workersByTask[w.TaskID] = append(workersByTask[w.TaskID], dto.TaskWorkerResponse{
				ID:       w.ID,
				WorkerID: w.WorkerID,
				Name:     w.WorkerName,
			})
		}
	}

	list := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		workers := workersByTask[task.ID]
		if workers == nil {
			workers = []dto.TaskWorkerResponse{}
		}
		list = append(list, dto.TaskResponse{
			ID:                 task.ID,
			ControlProcedureID: task.ControlProcedureID,
			TaskDescription:    task.TaskDescription,
			Status:             task.Status,
			Workers:            workers,
		})
	}
	return list, nil
}
