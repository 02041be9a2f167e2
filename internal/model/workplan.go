package model

// Task statuses. completed and unfinished are terminal.
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
	TaskUnfinished = "unfinished"
)

// taskTransitions lists the allowed moves per status. Terminal statuses have
// no entry.
var taskTransitions = map[string][]string{
	TaskPending:    {TaskInProgress},
	TaskInProgress: {TaskCompleted, TaskUnfinished},
}

// TaskStatusValid reports whether s is a known task status.
func TaskStatusValid(s string) bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskUnfinished:
		return true
	}
	return false
}

// TaskCanTransition reports whether a task may move from one status to
// another.
func TaskCanTransition(from, to string) bool {
	for _, next := range taskTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Workplan turns a hazard's control plan into tracked work for one incident
// (table workplans). incident_id and hazard_id are plain integer references
// into their owning services.
type Workplan struct {
	ID         int64 `gorm:"primaryKey" json:"id"`
	IncidentID int64 `gorm:"not null"   json:"incident_id"`
	HazardID   int64 `gorm:"not null"   json:"hazard_id"`
	AuditModel
}

// TableName sets the table name.
func (Workplan) TableName() string { return "workplans" }

// Task is one actionable unit of a workplan (table workplan_tasks).
// task_description is snapshotted from the chosen control step at assembly
// time and never re-read from the catalog.
type Task struct {
	ID                 int64  `gorm:"primaryKey"                    json:"id"`
	WorkplanID         int64  `gorm:"not null"                      json:"workplan_id"`
	ControlProcedureID int64  `gorm:"not null"                      json:"control_procedure_id"`
	TaskDescription    string `gorm:"not null"                      json:"task_description"`
	Status             string `gorm:"type:task_status;not null;default:'pending'" json:"status"`
	Version            int    `gorm:"not null;default:1"            json:"version"`
	AuditModel
}

// TableName sets the table name.
func (Task) TableName() string { return "workplan_tasks" }

// AssignedWorker links a worker to a task with a denormalized name snapshot
// (table assigned_workers).
type AssignedWorker struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	TaskID     int64  `gorm:"not null"   json:"task_id"`
	WorkerID   int64  `gorm:"not null"   json:"worker_id"`
	WorkerName string `gorm:"not null"   json:"worker_name"`
	AuditModel
}

// TableName sets the table name.
func (AssignedWorker) TableName() string { return "assigned_workers" }
