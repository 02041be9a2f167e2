package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"smp-portal/backend/internal/dto"
	"smp-portal/backend/internal/model"
	"smp-portal/backend/internal/repository"
	pkgerrors "smp-portal/backend/pkg/errors"
)

// ── test helpers ──

func setupTestShiftService() (ShiftService, *mockShiftRepo, *mockShiftWorkerRepo, *mockUserDetailRepo) {
	workerRepo := newMockShiftWorkerRepo()
	shiftRepo := newMockShiftRepo(workerRepo)
	detailRepo := newMockUserDetailRepo()
	repo := &repository.Repository{
		Shift:       shiftRepo,
		ShiftWorker: workerRepo,
		UserDetail:  detailRepo,
	}
	svc := NewShiftService(repo, zap.NewNop())
	return svc, shiftRepo, workerRepo, detailRepo
}

func addTestDetail(detailRepo *mockUserDetailRepo, userID int64, firstName string) {
	detailRepo.details[userID] = &model.UserDetail{
		UserID:      userID,
		FirstName:   firstName,
		LastName:    "Kumar",
		PhoneNumber: "9999900000",
		Designation: "shift supervisor",
	}
}

func createShiftRequest(supervisorID int64, workerIDs ...int64) *dto.CreateShiftRequest {
	workers := make([]dto.WorkerRef, 0, len(workerIDs))
	for _, id := range workerIDs {
		workers = append(workers, dto.WorkerRef{ID: id})
	}
	return &dto.CreateShiftRequest{
		SupervisorID: supervisorID,
		StartTime:    time.Now().Format(time.RFC3339),
		Workers:      workers,
	}
}

// ── Create ──

func TestShiftService_Create_Success(t *testing.T) {
	svc, shiftRepo, workerRepo, detailRepo := setupTestShiftService()
	addTestDetail(detailRepo, 1, "Asha")
	addTestDetail(detailRepo, 10, "Ravi")
	addTestDetail(detailRepo, 11, "Sunil")

	shift, err := svc.Create(context.Background(), createShiftRequest(1, 10, 11))
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if shift.Status != model.ShiftToBegin {
		t.Errorf("expected status %q, got %q", model.ShiftToBegin, shift.Status)
	}
	if shift.Supervisor == nil || shift.Supervisor.FirstName != "Asha" {
		t.Errorf("expected supervisor Asha, got %+v", shift.Supervisor)
	}
	if len(shift.Workers) != 2 {
		t.Errorf("expected 2 workers on roster, got %d", len(shift.Workers))
	}
	if len(shiftRepo.shifts) != 1 {
		t.Errorf("expected 1 stored shift, got %d", len(shiftRepo.shifts))
	}
	if len(workerRepo.workers) != 2 {
		t.Errorf("expected 2 roster rows, got %d", len(workerRepo.workers))
	}
}

func TestShiftService_Create_RollbackLeavesNothing(t *testing.T) {
	svc, shiftRepo, workerRepo, _ := setupTestShiftService()
	shiftRepo.createErr = errors.New("constraint violation")

	_, err := svc.Create(context.Background(), createShiftRequest(1, 10, 11))
	if !errors.Is(err, ErrShiftCreateFailed) {
		t.Fatalf("expected ErrShiftCreateFailed, got %v", err)
	}
	if len(shiftRepo.shifts) != 0 {
		t.Errorf("expected no shift rows after rollback, got %d", len(shiftRepo.shifts))
	}
	if len(workerRepo.workers) != 0 {
		t.Errorf("expected no roster rows after rollback, got %d", len(workerRepo.workers))
	}
}

func TestShiftService_Create_InvalidTime(t *testing.T) {
	svc, _, _, _ := setupTestShiftService()

	req := createShiftRequest(1, 10)
	req.StartTime = "yesterday evening"

	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, ErrShiftTimeInvalid) {
		t.Errorf("expected ErrShiftTimeInvalid, got %v", err)
	}
}

// ── GetCurrent ──

func TestShiftService_GetCurrent_ReturnsLatest(t *testing.T) {
	svc, shiftRepo, _, detailRepo := setupTestShiftService()
	addTestDetail(detailRepo, 1, "Asha")

	older := &model.Shift{SupervisorID: 1, StartTime: time.Now().Add(-24 * time.Hour), Status: model.ShiftHandedOver, Version: 1}
	if err := shiftRepo.CreateWithWorkers(context.Background(), older, nil); err != nil {
		t.Fatal(err)
	}
	older.CreatedAt = time.Now().Add(-24 * time.Hour)

	newer := &model.Shift{SupervisorID: 1, StartTime: time.Now(), Status: model.ShiftOngoing, Version: 1}
	if err := shiftRepo.CreateWithWorkers(context.Background(), newer, nil); err != nil {
		t.Fatal(err)
	}

	current, err := svc.GetCurrent(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetCurrent should succeed: %v", err)
	}
	if current.ID != newer.ID {
		t.Errorf("expected latest shift %d, got %d", newer.ID, current.ID)
	}
}

func TestShiftService_GetCurrent_NoHistory(t *testing.T) {
	svc, _, _, _ := setupTestShiftService()

	_, err := svc.GetCurrent(context.Background(), 42)
	if !errors.Is(err, ErrShiftNotFound) {
		t.Errorf("expected ErrShiftNotFound for empty history, got %v", err)
	}
}

func TestShiftService_GetCurrentByWorker_ReturnsLatestRostered(t *testing.T) {
	svc, shiftRepo, _, detailRepo := setupTestShiftService()
	addTestDetail(detailRepo, 1, "Asha")

	first := &model.Shift{SupervisorID: 1, StartTime: time.Now().Add(-24 * time.Hour), Status: model.ShiftHandedOver, Version: 1}
	if err := shiftRepo.CreateWithWorkers(context.Background(), first, []int64{10}); err != nil {
		t.Fatal(err)
	}
	first.CreatedAt = time.Now().Add(-24 * time.Hour)

	second := &model.Shift{SupervisorID: 1, StartTime: time.Now(), Status: model.ShiftOngoing, Version: 1}
	if err := shiftRepo.CreateWithWorkers(context.Background(), second, []int64{10, 11}); err != nil {
		t.Fatal(err)
	}

	current, err := svc.GetCurrentByWorker(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetCurrentByWorker should succeed: %v", err)
	}
	if current.ID != second.ID {
		t.Errorf("expected latest rostered shift %d, got %d", second.ID, current.ID)
	}
}

// ── Update / lifecycle ──

func TestShiftService_Update_ValidTransition(t *testing.T) {
	svc, shiftRepo, _, detailRepo := setupTestShiftService()
	addTestDetail(detailRepo, 1, "Asha")

	shift := &model.Shift{SupervisorID: 1, StartTime: time.Now(), Status: model.ShiftToBegin, Version: 1}
	if err := shiftRepo.CreateWithWorkers(context.Background(), shift, nil); err != nil {
		t.Fatal(err)
	}

	next := model.ShiftOngoing
	updated, err := svc.Update(context.Background(), shift.ID, &dto.UpdateShiftRequest{Status: &next})
	if err != nil {
		t.Fatalf("Update should succeed: %v", err)
	}
	if updated.Status != model.ShiftOngoing {
		t.Errorf("expected status %q, got %q", model.ShiftOngoing, updated.Status)
	}
}

func TestShiftService_Update_TransitionGrid(t *testing.T) {
	statuses := []string{
		model.ShiftToBegin, model.ShiftOngoing, model.ShiftReadyForHandover,
		model.ShiftHandedOver, model.ShiftAcknowledged,
	}

	for i, from := range statuses {
		for j, to := range statuses {
			wantOK := j == i+1
			svc, shiftRepo, _, _ := setupTestShiftService()
			shift := &model.Shift{SupervisorID: 1, StartTime: time.Now(), Status: from, Version: 1}
			if err := shiftRepo.CreateWithWorkers(context.Background(), shift, nil); err != nil {
				t.Fatal(err)
			}

			status := to
			_, err := svc.Update(context.Background(), shift.ID, &dto.UpdateShiftRequest{Status: &status})
			if from == to {
				if err != nil {
					t.Errorf("%s -> %s: same-status update should be a no-op, got %v", from, to, err)
				}
				continue
			}
			if wantOK && err != nil {
				t.Errorf("%s -> %s: expected success, got %v", from, to, err)
			}
			if !wantOK && !pkgerrors.IsInvalidTransition(err) {
				t.Errorf("%s -> %s: expected invalid transition, got %v", from, to, err)
			}
		}
	}
}

func TestShiftService_Update_StampsHandoverTimes(t *testing.T) {
	svc, shiftRepo, _, _ := setupTestShiftService()

	shift := &model.Shift{SupervisorID: 1, StartTime: time.Now(), Status: model.ShiftReadyForHandover, Version: 1}
	if err := shiftRepo.CreateWithWorkers(context.Background(), shift, nil); err != nil {
		t.Fatal(err)
	}

	handed := model.ShiftHandedOver
	updated, err := svc.Update(context.Background(), shift.ID, &dto.UpdateShiftRequest{Status: &handed})
	if err != nil {
		t.Fatalf("hand over should succeed: %v", err)
	}
	if updated.FinalizedAt == nil {
		t.Error("expected finalized_at to be stamped on handover")
	}

	acked := model.ShiftAcknowledged
	updated, err = svc.Update(context.Background(), shift.ID, &dto.UpdateShiftRequest{Status: &acked})
	if err != nil {
		t.Fatalf("acknowledge should succeed: %v", err)
	}
	if updated.AcknowledgedAt == nil {
		t.Error("expected acknowledged_at to be stamped on acknowledgement")
	}
}

func TestShiftService_Update_OptimisticLock(t *testing.T) {
	svc, shiftRepo, _, _ := setupTestShiftService()

	shift := &model.Shift{SupervisorID: 1, StartTime: time.Now(), Status: model.ShiftToBegin, Version: 1}
	if err := shiftRepo.CreateWithWorkers(context.Background(), shift, nil); err != nil {
		t.Fatal(err)
	}
	// A concurrent writer bumps the version between our read and write.
	shiftRepo.updateErr = pkgerrors.ErrOptimisticLock

	next := model.ShiftOngoing
	_, err := svc.Update(context.Background(), shift.ID, &dto.UpdateShiftRequest{Status: &next})
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("expected ErrOptimisticLock, got %v", err)
	}
}

func TestShiftService_Update_NotFound(t *testing.T) {
	svc, _, _, _ := setupTestShiftService()

	next := model.ShiftOngoing
	_, err := svc.Update(context.Background(), 99, &dto.UpdateShiftRequest{Status: &next})
	if !errors.Is(err, ErrShiftNotFound) {
		t.Errorf("expected ErrShiftNotFound, got %v", err)
	}
}

// ── ListBySupervisor ──

func TestShiftService_ListBySupervisor_Paginates(t *testing.T) {
	svc, shiftRepo, _, _ := setupTestShiftService()

	for i := 0; i < 5; i++ {
		shift := &model.Shift{SupervisorID: 1, StartTime: time.Now(), Status: model.ShiftToBegin, Version: 1}
		if err := shiftRepo.CreateWithWorkers(context.Background(), shift, nil); err != nil {
			t.Fatal(err)
		}
	}

	list, total, err := svc.ListBySupervisor(context.Background(), 1, 2, 2)
	if err != nil {
		t.Fatalf("ListBySupervisor should succeed: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
	if len(list) != 2 {
		t.Errorf("expected page of 2, got %d", len(list))
	}
}

// ── SoftDelete ──

func TestShiftService_SoftDelete_HidesShift(t *testing.T) {
	svc, shiftRepo, _, _ := setupTestShiftService()

	shift := &model.Shift{SupervisorID: 1, StartTime: time.Now(), Status: model.ShiftToBegin, Version: 1}
	if err := shiftRepo.CreateWithWorkers(context.Background(), shift, nil); err != nil {
		t.Fatal(err)
	}

	if err := svc.SoftDelete(context.Background(), shift.ID); err != nil {
		t.Fatalf("SoftDelete should succeed: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), shift.ID); !errors.Is(err, ErrShiftNotFound) {
		t.Errorf("expected deleted shift to be invisible, got %v", err)
	}
}

func TestShiftService_MissingSupervisorProfileDegrades(t *testing.T) {
	svc, shiftRepo, _, _ := setupTestShiftService()

	shift := &model.Shift{SupervisorID: 7, StartTime: time.Now(), Status: model.ShiftToBegin, Version: 1}
	if err := shiftRepo.CreateWithWorkers(context.Background(), shift, nil); err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetByID(context.Background(), shift.ID)
	if err != nil {
		t.Fatalf("GetByID should succeed without a supervisor profile: %v", err)
	}
	if got.Supervisor != nil {
		t.Errorf("expected nil supervisor for missing profile, got %+v", got.Supervisor)
	}
}
