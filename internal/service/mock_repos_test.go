package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"smp-portal/backend/internal/model"
	"smp-portal/backend/internal/repository"
	pkgerrors "smp-portal/backend/pkg/errors"
)

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	shifts     map[int64]*model.Shift
	nextID     int64
	workerRepo *mockShiftWorkerRepo

	createErr error
	getErr    error
	listErr   error
	updateErr error
}

func newMockShiftRepo(workerRepo *mockShiftWorkerRepo) *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[int64]*model.Shift), nextID: 1, workerRepo: workerRepo}
}

func (m *mockShiftRepo) CreateWithWorkers(_ context.Context, shift *model.Shift, workerIDs []int64) error {
	if m.createErr != nil {
		return m.createErr
	}
	shift.ID = m.nextID
	m.nextID++
	shift.CreatedAt = time.Now()
	m.shifts[shift.ID] = shift
	for _, workerID := range workerIDs {
		m.workerRepo.workers = append(m.workerRepo.workers, model.ShiftWorker{
			ID:       int64(len(m.workerRepo.workers) + 1),
			ShiftID:  shift.ID,
			WorkerID: workerID,
		})
	}
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id int64) (*model.Shift, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if s, ok := m.shifts[id]; ok && !s.IsDeleted {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) GetCurrentBySupervisor(_ context.Context, supervisorID int64) (*model.Shift, error) {
	var latest *model.Shift
	for _, s := range m.shifts {
		if s.IsDeleted || s.SupervisorID != supervisorID {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) || (s.CreatedAt.Equal(latest.CreatedAt) && s.ID > latest.ID) {
			latest = s
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *latest
	return &copied, nil
}

func (m *mockShiftRepo) GetCurrentByWorker(_ context.Context, workerID int64) (*model.Shift, error) {
	var latest *model.Shift
	for _, link := range m.workerRepo.workers {
		if link.WorkerID != workerID {
			continue
		}
		s, ok := m.shifts[link.ShiftID]
		if !ok || s.IsDeleted {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) || (s.CreatedAt.Equal(latest.CreatedAt) && s.ID > latest.ID) {
			latest = s
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *latest
	return &copied, nil
}

func (m *mockShiftRepo) ListBySupervisor(_ context.Context, supervisorID int64, offset, limit int) ([]model.Shift, int64, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var all []model.Shift
	for _, s := range m.shifts {
		if !s.IsDeleted && s.SupervisorID == supervisorID {
			all = append(all, *s)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Shift{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockShiftRepo) UpdateFields(_ context.Context, id int64, version int, fields map[string]interface{}) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	s, ok := m.shifts[id]
	if !ok || s.IsDeleted {
		return gorm.ErrRecordNotFound
	}
	if s.Version != version {
		return pkgerrors.ErrOptimisticLock
	}
	for key, value := range fields {
		switch key {
		case "status":
			s.Status = value.(string)
		case "next_supervisor_id":
			v := value.(int64)
			s.NextSupervisorID = &v
		case "end_time":
			t := value.(time.Time)
			s.EndTime = &t
		case "finalized_at":
			t := value.(time.Time)
			s.FinalizedAt = &t
		case "acknowledged_at":
			t := value.(time.Time)
			s.AcknowledgedAt = &t
		}
	}
	s.Version++
	return nil
}

func (m *mockShiftRepo) SoftDelete(_ context.Context, id int64) error {
	s, ok := m.shifts[id]
	if !ok || s.IsDeleted {
		return gorm.ErrRecordNotFound
	}
	s.IsDeleted = true
	return nil
}

// ── Mock ShiftWorkerRepository ──

type mockShiftWorkerRepo struct {
	workers []model.ShiftWorker
	listErr error
}

func newMockShiftWorkerRepo() *mockShiftWorkerRepo {
	return &mockShiftWorkerRepo{}
}

func (m *mockShiftWorkerRepo) ListByShift(_ context.Context, shiftID int64) ([]model.ShiftWorker, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []model.ShiftWorker
	for _, w := range m.workers {
		if w.ShiftID == shiftID {
			result = append(result, w)
		}
	}
	return result, nil
}

// ── Mock UserDetailRepository ──

type mockUserDetailRepo struct {
	details map[int64]*model.UserDetail
}

func newMockUserDetailRepo() *mockUserDetailRepo {
	return &mockUserDetailRepo{details: make(map[int64]*model.UserDetail)}
}

func (m *mockUserDetailRepo) GetByUserID(_ context.Context, userID int64) (*model.UserDetail, error) {
	if d, ok := m.details[userID]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserDetailRepo) ListByUserIDs(_ context.Context, userIDs []int64) ([]model.UserDetail, error) {
	var result []model.UserDetail
	for _, id := range userIDs {
		if d, ok := m.details[id]; ok {
			result = append(result, *d)
		}
	}
	return result, nil
}

// ── Mock IncidentRepository ──

type mockIncidentRepo struct {
	incidents map[int64]*model.Incident
	order     []int64
	nextID    int64

	createErr error
	updateErr error
}

func newMockIncidentRepo() *mockIncidentRepo {
	return &mockIncidentRepo{incidents: make(map[int64]*model.Incident), nextID: 1}
}

func (m *mockIncidentRepo) Create(_ context.Context, incident *model.Incident) error {
	if m.createErr != nil {
		return m.createErr
	}
	incident.ID = m.nextID
	m.nextID++
	incident.CreatedAt = time.Now()
	m.incidents[incident.ID] = incident
	m.order = append(m.order, incident.ID)
	return nil
}

func (m *mockIncidentRepo) GetByID(_ context.Context, id int64) (*model.Incident, error) {
	if inc, ok := m.incidents[id]; ok && !inc.IsDeleted {
		copied := *inc
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIncidentRepo) ListByShift(_ context.Context, shiftID int64, offset, limit int) ([]model.Incident, int64, error) {
	var all []model.Incident
	for _, id := range m.order {
		inc := m.incidents[id]
		if !inc.IsDeleted && inc.ShiftID == shiftID {
			all = append(all, *inc)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Incident{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockIncidentRepo) UpdateFields(_ context.Context, id int64, fields map[string]interface{}) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	inc, ok := m.incidents[id]
	if !ok || inc.IsDeleted {
		return gorm.ErrRecordNotFound
	}
	for key, value := range fields {
		switch key {
		case "status":
			inc.Status = value.(string)
		case "root_cause":
			inc.RootCause = value.(string)
		}
	}
	return nil
}

// ── Mock AttachmentRepository ──

type mockAttachmentRepo struct {
	attachments []model.Attachment
	nextID      int64

	// failFiles makes Create fail for the named files, exercising the
	// best-effort path.
	failFiles map[string]error
}

func newMockAttachmentRepo() *mockAttachmentRepo {
	return &mockAttachmentRepo{nextID: 1, failFiles: make(map[string]error)}
}

func (m *mockAttachmentRepo) Create(_ context.Context, attachment *model.Attachment) error {
	if err, ok := m.failFiles[attachment.FileName]; ok {
		return err
	}
	attachment.ID = m.nextID
	m.nextID++
	m.attachments = append(m.attachments, *attachment)
	return nil
}

func (m *mockAttachmentRepo) ListByIncident(_ context.Context, incidentID int64) ([]model.Attachment, error) {
	var result []model.Attachment
	for _, a := range m.attachments {
		if a.IncidentID == incidentID {
			result = append(result, a)
		}
	}
	return result, nil
}

// ── Mock SMPDocumentRepository ──

type mockSMPDocumentRepo struct {
	documents map[int64]*model.SMPDocument
}

func newMockSMPDocumentRepo() *mockSMPDocumentRepo {
	return &mockSMPDocumentRepo{documents: make(map[int64]*model.SMPDocument)}
}

func (m *mockSMPDocumentRepo) GetByID(_ context.Context, id int64) (*model.SMPDocument, error) {
	if d, ok := m.documents[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSMPDocumentRepo) List(_ context.Context) ([]model.SMPDocument, error) {
	var result []model.SMPDocument
	for _, d := range m.documents {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ── Mock HazardRepository ──

type mockHazardRepo struct {
	hazards map[int64]*model.Hazard
	nextID  int64
}

func newMockHazardRepo() *mockHazardRepo {
	return &mockHazardRepo{hazards: make(map[int64]*model.Hazard), nextID: 1}
}

func (m *mockHazardRepo) Create(_ context.Context, hazard *model.Hazard) error {
	hazard.ID = m.nextID
	m.nextID++
	m.hazards[hazard.ID] = hazard
	return nil
}

func (m *mockHazardRepo) GetByID(_ context.Context, id int64) (*model.Hazard, error) {
	if h, ok := m.hazards[id]; ok && !h.IsDeleted {
		copied := *h
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHazardRepo) ListByCategory(_ context.Context, category string, smpDocumentID int64, offset, limit int) ([]model.Hazard, int64, error) {
	var all []model.Hazard
	for _, h := range m.hazards {
		if h.IsDeleted {
			continue
		}
		if category != "" && h.Category != category {
			continue
		}
		if smpDocumentID != 0 && h.SMPDocumentID != smpDocumentID {
			continue
		}
		all = append(all, *h)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Hazard{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockHazardRepo) UpdateFields(_ context.Context, id int64, fields map[string]interface{}) error {
	h, ok := m.hazards[id]
	if !ok || h.IsDeleted {
		return gorm.ErrRecordNotFound
	}
	for key, value := range fields {
		switch key {
		case "category":
			h.Category = value.(string)
		case "description":
			h.Description = value.(string)
		case "risk_consequence":
			h.RiskConsequence = value.(float64)
		case "risk_exposure":
			h.RiskExposure = value.(float64)
		case "risk_probability":
			h.RiskProbability = value.(float64)
		case "risk_rating":
			h.RiskRating = value.(float64)
		}
	}
	return nil
}

func (m *mockHazardRepo) SoftDelete(_ context.Context, id int64) error {
	h, ok := m.hazards[id]
	if !ok || h.IsDeleted {
		return gorm.ErrRecordNotFound
	}
	h.IsDeleted = true
	return nil
}

// ── Mock ControlPlanRepository ──

type mockControlPlanRepo struct {
	plans      map[int64]*model.ControlPlan
	steps      []model.ControlStep
	nextPlanID int64
	nextStepID int64

	addStepsErr error
}

func newMockControlPlanRepo() *mockControlPlanRepo {
	return &mockControlPlanRepo{plans: make(map[int64]*model.ControlPlan), nextPlanID: 1, nextStepID: 1}
}

func (m *mockControlPlanRepo) Create(_ context.Context, plan *model.ControlPlan) error {
	plan.ID = m.nextPlanID
	m.nextPlanID++
	m.plans[plan.ID] = plan
	return nil
}

func (m *mockControlPlanRepo) GetByID(_ context.Context, id int64) (*model.ControlPlan, error) {
	if p, ok := m.plans[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockControlPlanRepo) GetByHazard(_ context.Context, hazardID int64) (*model.ControlPlan, error) {
	for _, p := range m.plans {
		if p.HazardID == hazardID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockControlPlanRepo) AddSteps(_ context.Context, planID int64, descriptions []string) error {
	if m.addStepsErr != nil {
		return m.addStepsErr
	}
	for _, desc := range descriptions {
		m.steps = append(m.steps, model.ControlStep{
			ID:            m.nextStepID,
			ControlPlanID: planID,
			Description:   desc,
		})
		m.nextStepID++
	}
	return nil
}

func (m *mockControlPlanRepo) ListSteps(_ context.Context, planID int64) ([]model.ControlStep, error) {
	var result []model.ControlStep
	for _, s := range m.steps {
		if s.ControlPlanID == planID {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ── Mock WorkplanRepository ──

type mockWorkplanRepo struct {
	workplans  map[int64]*model.Workplan
	nextID     int64
	taskRepo   *mockTaskRepo
	workerRepo *mockAssignedWorkerRepo

	// createErr makes CreateFull fail without writing anything, matching the
	// transactional rollback.
	createErr error
}

func newMockWorkplanRepo(taskRepo *mockTaskRepo, workerRepo *mockAssignedWorkerRepo) *mockWorkplanRepo {
	return &mockWorkplanRepo{
		workplans:  make(map[int64]*model.Workplan),
		nextID:     1,
		taskRepo:   taskRepo,
		workerRepo: workerRepo,
	}
}

func (m *mockWorkplanRepo) CreateFull(_ context.Context, workplan *model.Workplan, steps []repository.WorkplanStep) error {
	if m.createErr != nil {
		return m.createErr
	}
	workplan.ID = m.nextID
	m.nextID++
	m.workplans[workplan.ID] = workplan
	for _, step := range steps {
		task := model.Task{
			ID:                 m.taskRepo.nextID,
			WorkplanID:         workplan.ID,
			ControlProcedureID: step.ControlStepID,
			TaskDescription:    step.TaskDescription,
			Status:             model.TaskPending,
			Version:            1,
		}
		m.taskRepo.nextID++
		m.taskRepo.tasks[task.ID] = &task
		for _, w := range step.Workers {
			m.workerRepo.workers = append(m.workerRepo.workers, model.AssignedWorker{
				ID:         int64(len(m.workerRepo.workers) + 1),
				TaskID:     task.ID,
				WorkerID:   w.WorkerID,
				WorkerName: w.WorkerName,
			})
		}
	}
	return nil
}

func (m *mockWorkplanRepo) GetByIncident(_ context.Context, incidentID int64) (*model.Workplan, error) {
	for _, wp := range m.workplans {
		if wp.IncidentID == incidentID {
			copied := *wp
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkplanRepo) ExistsForIncidentHazard(_ context.Context, incidentID, hazardID int64) (bool, error) {
	for _, wp := range m.workplans {
		if wp.IncidentID == incidentID && wp.HazardID == hazardID {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	tasks  map[int64]*model.Task
	nextID int64

	updateErr error
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[int64]*model.Task), nextID: 1}
}

func (m *mockTaskRepo) GetByID(_ context.Context, id int64) (*model.Task, error) {
	if t, ok := m.tasks[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) ListByWorkplan(_ context.Context, workplanID int64) ([]model.Task, error) {
	var result []model.Task
	for _, t := range m.tasks {
		if t.WorkplanID == workplanID {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockTaskRepo) ListUnfinished(_ context.Context, workplanID int64) ([]model.Task, error) {
	var result []model.Task
	for _, t := range m.tasks {
		if t.WorkplanID == workplanID && t.Status == model.TaskUnfinished {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockTaskRepo) ListByWorker(_ context.Context, workerID int64) ([]model.Task, error) {
	// The mock has no join; tests wire assignments through the shared
	// assigned-worker mock when they need this path.
	return nil, nil
}

func (m *mockTaskRepo) UpdateFields(_ context.Context, id int64, version int, fields map[string]interface{}) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	t, ok := m.tasks[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if t.Version != version {
		return pkgerrors.ErrOptimisticLock
	}
	for key, value := range fields {
		switch key {
		case "status":
			t.Status = value.(string)
		case "task_description":
			t.TaskDescription = value.(string)
		}
	}
	t.Version++
	return nil
}

// ── Mock AssignedWorkerRepository ──

type mockAssignedWorkerRepo struct {
	workers []model.AssignedWorker

	// listCalls counts batched lookups so tests can assert one query per
	// assembly rather than one per task.
	listCalls int
}

func newMockAssignedWorkerRepo() *mockAssignedWorkerRepo {
	return &mockAssignedWorkerRepo{}
}

func (m *mockAssignedWorkerRepo) ListByTaskIDs(_ context.Context, taskIDs []int64) ([]model.AssignedWorker, error) {
	m.listCalls++
	idSet := make(map[int64]bool, len(taskIDs))
	for _, id := range taskIDs {
		idSet[id] = true
	}
	var result []model.AssignedWorker
	for _, w := range m.workers {
		if idSet[w.TaskID] {
			result = append(result, w)
		}
	}
	return result, nil
}
