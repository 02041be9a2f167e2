package repository

import "gorm.io/gorm"

// Repository aggregates all data-access interfaces. Each component receives
// this by injection; nothing imports a shared connection singleton.
type Repository struct {
	Shift          ShiftRepository
	ShiftWorker    ShiftWorkerRepository
	UserDetail     UserDetailRepository
	Incident       IncidentRepository
	Attachment     AttachmentRepository
	SMPDocument    SMPDocumentRepository
	Hazard         HazardRepository
	ControlPlan    ControlPlanRepository
	Workplan       WorkplanRepository
	Task           TaskRepository
	AssignedWorker AssignedWorkerRepository
}

// NewRepository wires every repository onto one pooled connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Shift:          NewShiftRepo(db),
		ShiftWorker:    NewShiftWorkerRepo(db),
		UserDetail:     NewUserDetailRepo(db),
		Incident:       NewIncidentRepo(db),
		Attachment:     NewAttachmentRepo(db),
		SMPDocument:    NewSMPDocumentRepo(db),
		Hazard:         NewHazardRepo(db),
		ControlPlan:    NewControlPlanRepo(db),
		Workplan:       NewWorkplanRepo(db),
		Task:           NewTaskRepo(db),
		AssignedWorker: NewAssignedWorkerRepo(db),
	}
}
