package dto

// WorkerRef identifies a worker being rostered onto a shift.
type WorkerRef struct {
	ID int64 `json:"id" binding:"required,gt=0"`
}

// CreateShiftRequest creates a shift together with its worker roster.
type CreateShiftRequest struct {
	SupervisorID     int64       `json:"supervisor_id"      binding:"required,gt=0"`
	NextSupervisorID *int64      `json:"next_supervisor_id" binding:"omitempty,gt=0"`
	StartTime        string      `json:"start_time"         binding:"required"` // RFC 3339
	EndTime          *string     `json:"end_time"`
	Workers          []WorkerRef `json:"workers"            binding:"required,min=1,dive"`
}

// UpdateShiftRequest is the partial-update command for a shift. Only the
// fields it carries may change; status moves are validated against the
// lifecycle.
type UpdateShiftRequest struct {
	Status           *string `json:"status" binding:"omitempty,oneof=to_begin ongoing ready_for_handover handed_over acknowledged"`
	NextSupervisorID *int64  `json:"next_supervisor_id" binding:"omitempty,gt=0"`
	EndTime          *string `json:"end_time"`
}

// PersonResponse is a display profile embedded in shift responses.
type PersonResponse struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Designation string `json:"designation"`
}

// ShiftResponse is a shift with its assembled supervisor and roster.
type ShiftResponse struct {
	ID             int64            `json:"id"`
	Status         string           `json:"status"`
	StartTime      string           `json:"start_time"`
	EndTime        *string          `json:"end_time,omitempty"`
	FinalizedAt    *string          `json:"finalized_at,omitempty"`
	AcknowledgedAt *string          `json:"acknowledged_at,omitempty"`
	Supervisor     *PersonResponse  `json:"supervisor,omitempty"`
	NextSupervisor *PersonResponse  `json:"next_supervisor,omitempty"`
	Workers        []PersonResponse `json:"workers"`
	CreatedAt      string           `json:"created_at"`
}

// ShiftSummaryResponse is the lighter row used by shift history listings.
type ShiftSummaryResponse struct {
	ID        int64   `json:"id"`
	Status    string  `json:"status"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time,omitempty"`
	CreatedAt string  `json:"created_at"`
}
