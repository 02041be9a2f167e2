package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"smp-portal/backend/internal/dto"
	"smp-portal/backend/internal/model"
	"smp-portal/backend/internal/repository"
	pkgerrors "smp-portal/backend/pkg/errors"
)

// ── shift module errors ──

var (
	ErrShiftNotFound     = errors.New("shift not found")
	ErrShiftCreateFailed = errors.New("shift creation failed and was rolled back")
	ErrShiftTimeInvalid  = errors.New("shift time is not a valid RFC 3339 timestamp")
)

// ShiftService owns the shift lifecycle: creation with the worker roster in
// one transaction, current-shift lookup, forward-only status moves and soft
// deletion.
type ShiftService interface {
	Create(ctx context.Context, req *dto.CreateShiftRequest) (*dto.ShiftResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.ShiftResponse, error)
	GetCurrent(ctx context.Context, supervisorID int64) (*dto.ShiftResponse, error)
	GetCurrentByWorker(ctx context.Context, workerID int64) (*dto.ShiftResponse, error)
	ListBySupervisor(ctx context.Context, supervisorID int64, page, limit int) ([]dto.ShiftSummaryResponse, int64, error)
	Update(ctx context.Context, id int64, req *dto.UpdateShiftRequest) (*dto.ShiftResponse, error)
	SoftDelete(ctx context.Context, id int64) error
}

type shiftService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewShiftService creates a ShiftService.
func NewShiftService(repo *repository.Repository, logger *zap.Logger) ShiftService {
	return &shiftService{repo: repo, logger: logger}
}

func (s *shiftService) Create(ctx context.Context, req *dto.CreateShiftRequest) (*dto.ShiftResponse, error) {
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, ErrShiftTimeInvalid
	}

	var endTime *time.Time
	if req.EndTime != nil {
		t, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			return nil, ErrShiftTimeInvalid
		}
		endTime = &t
	}

	shift := &model.Shift{
		SupervisorID:     req.SupervisorID,
		NextSupervisorID: req.NextSupervisorID,
		StartTime:        startTime,
		EndTime:          endTime,
		Status:           model.ShiftToBegin,
		Version:          1,
	}

	workerIDs := make([]int64, 0, len(req.Workers))
	for _, w := range req.Workers {
		workerIDs = append(workerIDs, w.ID)
	}

	// One transaction: the shift and every roster row, or nothing.
	if err := s.repo.Shift.CreateWithWorkers(ctx, shift, workerIDs); err != nil {
		s.logger.Error("shift creation rolled back",
			zap.Int64("supervisor_id", req.SupervisorID),
			zap.Int("workers", len(workerIDs)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrShiftCreateFailed, err)
	}

	return s.assembleShift(ctx, shift)
}

func (s *shiftService) GetByID(ctx context.Context, id int64) (*dto.ShiftResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("shift lookup failed", zap.Int64("shift_id", id), zap.Error(err))
		return nil, err
	}
	return s.assembleShift(ctx, shift)
}

func (s *shiftService) GetCurrent(ctx context.Context, supervisorID int64) (*dto.ShiftResponse, error) {
	shift, err := s.repo.Shift.GetCurrentBySupervisor(ctx, supervisorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A supervisor with no shift history gets a typed absence, never
			// a dereference of a missing row.
			return nil, ErrShiftNotFound
		}
		s.logger.Error("current shift lookup failed", zap.Int64("supervisor_id", supervisorID), zap.Error(err))
		return nil, err
	}
	return s.assembleShift(ctx, shift)
}

func (s *shiftService) GetCurrentByWorker(ctx context.Context, workerID int64) (*dto.ShiftResponse, error) {
	shift, err := s.repo.Shift.GetCurrentByWorker(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("current shift lookup failed", zap.Int64("worker_id", workerID), zap.Error(err))
		return nil, err
	}
	return s.assembleShift(ctx, shift)
}

func (s *shiftService) ListBySupervisor(ctx context.Context, supervisorID int64, page, limit int) ([]dto.ShiftSummaryResponse, int64, error) {
	offset := (page - 1) * limit
	shifts, total, err := s.repo.Shift.ListBySupervisor(ctx, supervisorID, offset, limit)
	if err != nil {
		s.logger.Error("shift listing failed", zap.Int64("supervisor_id", supervisorID), zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.ShiftSummaryResponse, 0, len(shifts))
	for _, shift := range shifts {
		list = append(list, dto.ShiftSummaryResponse{
			ID:        shift.ID,
			Status:    shift.Status,
			StartTime: shift.StartTime.Format(time.RFC3339),
			EndTime:   formatTimePtr(shift.EndTime),
			CreatedAt: shift.CreatedAt.Format(time.RFC3339),
		})
	}
	return list, total, nil
}

func (s *shiftService) Update(ctx context.Context, id int64, req *dto.UpdateShiftRequest) (*dto.ShiftResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}

	if req.Status != nil && *req.Status != shift.Status {
		if !model.ShiftCanTransition(shift.Status, *req.Status) {
			return nil, pkgerrors.NewInvalidTransition("shift", shift.Status, *req.Status)
		}
		fields["status"] = *req.Status
		now := time.Now()
		switch *req.Status {
		case model.ShiftHandedOver:
			fields["finalized_at"] = now
		case model.ShiftAcknowledged:
			fields["acknowledged_at"] = now
		}
	}

	if req.NextSupervisorID != nil {
		fields["next_supervisor_id"] = *req.NextSupervisorID
	}

	if req.EndTime != nil {
		t, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			return nil, ErrShiftTimeInvalid
		}
		fields["end_time"] = t
	}

	if len(fields) > 0 {
		if err := s.repo.Shift.UpdateFields(ctx, id, shift.Version, fields); err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				return nil, err
			}
			s.logger.Error("shift update failed", zap.Int64("shift_id", id), zap.Error(err))
			return nil, err
		}
	}

	return s.GetByID(ctx, id)
}

func (s *shiftService) SoftDelete(ctx context.Context, id int64) error {
	if err := s.repo.Shift.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftNotFound
		}
		s.logger.Error("shift soft delete failed", zap.Int64("shift_id", id), zap.Error(err))
		return err
	}
	// Roster rows are left untouched; their lifecycle is independent.
	return nil
}

// assembleShift joins the shift row with its supervisor, optional next
// supervisor and worker roster display fields.
func (s *shiftService) assembleShift(ctx context.Context, shift *model.Shift) (*dto.ShiftResponse, error) {
	resp := &dto.ShiftResponse{
		ID:             shift.ID,
		Status:         shift.Status,
		StartTime:      shift.StartTime.Format(time.RFC3339),
		EndTime:        formatTimePtr(shift.EndTime),
		FinalizedAt:    formatTimePtr(shift.FinalizedAt),
		AcknowledgedAt: formatTimePtr(shift.AcknowledgedAt),
		Workers:        []dto.PersonResponse{},
		CreatedAt:      shift.CreatedAt.Format(time.RFC3339),
	}

	resp.Supervisor = s.lookupPerson(ctx, shift.SupervisorID)
	if shift.NextSupervisorID != nil {
		resp.NextSupervisor = s.lookupPerson(ctx, *shift.NextSupervisorID)
	}

	links, err := s.repo.ShiftWorker.ListByShift(ctx, shift.ID)
	if err != nil {
		s.logger.Error("roster lookup failed", zap.Int64("shift_id", shift.ID), zap.Error(err))
		return nil, err
	}

	workerIDs := make([]int64, 0, len(links))
	for _, link := range links {
		workerIDs = append(workerIDs, link.WorkerID)
	}

	details, err := s.repo.UserDetail.ListByUserIDs(ctx, workerIDs)
	if err != nil {
		s.logger.Error("worker details lookup failed", zap.Int64("shift_id", shift.ID), zap.Error(err))
		return nil, err
	}

	byUser := make(map[int64]model.UserDetail, len(details))
	for _, d := range details {
		byUser[d.UserID] = d
	}
	for _, workerID := range workerIDs {
		if d, ok := byUser[workerID]; ok {
			resp.Workers = append(resp.Workers, personFromDetail(&d))
		}
	}

	return resp, nil
}

// lookupPerson resolves a display profile; a missing profile degrades to nil
// rather than failing the shift read.
func (s *shiftService) lookupPerson(ctx context.Context, userID int64) *dto.PersonResponse {
	detail, err := s.repo.UserDetail.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("person lookup failed", zap.Int64("user_id", userID), zap.Error(err))
		}
		return nil
	}
	p := personFromDetail(detail)
	return &p
}

func personFromDetail(d *model.UserDetail) dto.PersonResponse {
	return dto.PersonResponse{
		ID:          d.UserID,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		PhoneNumber: d.PhoneNumber,
		Designation: d.Designation,
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
