package dto

// AssignedWorkerRequest names a worker being assigned to a task. The name is
// snapshotted into the row.
type AssignedWorkerRequest struct {
	ID   int64  `json:"id"   binding:"required,gt=0"`
	Name string `json:"name" binding:"required"`
}

// WorkplanStepRequest selects one control step for the workplan and assigns
// its workers. The description is snapshotted at assembly time.
type WorkplanStepRequest struct {
	ControlStepID   int64                   `json:"id"               binding:"required,gt=0"`
	TaskDescription string                  `json:"task_description" binding:"required"`
	Workers         []AssignedWorkerRequest `json:"workers"          binding:"required,min=1,dive"`
}

// CreateWorkplanRequest assembles a workplan from an incident, a hazard and
// the chosen control steps. The whole write is one transaction.
type CreateWorkplanRequest struct {
	IncidentID int64                 `json:"incident_id" binding:"required,gt=0"`
	HazardID   int64                 `json:"hazard_id"   binding:"required,gt=0"`
	Steps      []WorkplanStepRequest `json:"steps"       binding:"required,min=1,dive"`
}

// UpdateTaskRequest is the partial-update command for a task.
type UpdateTaskRequest struct {
	Status          *string `json:"status" binding:"omitempty,oneof=pending in_progress completed unfinished"`
	TaskDescription *string `json:"task_description"`
}

// TaskWorkerResponse is one worker assigned to a task.
type TaskWorkerResponse struct {
	ID       int64  `json:"id"`
	WorkerID int64  `json:"worker_id"`
	Name     string `json:"name"`
}

// TaskResponse is one task with its assigned workers.
type TaskResponse struct {
	ID                 int64                `json:"id"`
	ControlProcedureID int64                `json:"control_procedure_id"`
	TaskDescription    string               `json:"task_description"`
	Status             string               `json:"status"`
	Workers            []TaskWorkerResponse `json:"workers"`
}

// WorkplanResponse is a workplan with its tasks and their workers.
type WorkplanResponse struct {
	ID         int64          `json:"id"`
	IncidentID int64          `json:"incident_id"`
	HazardID   int64          `json:"hazard_id"`
	Tasks      []TaskResponse `json:"tasks"`
}

// WorkerTaskResponse is one task as seen from a worker's task list.
type WorkerTaskResponse struct {
	TaskID          int64  `json:"task_id"`
	WorkplanID      int64  `json:"workplan_id"`
	TaskDescription string `json:"task_description"`
	Status          string `json:"status"`
}
