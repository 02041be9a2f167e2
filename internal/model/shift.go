package model

import "time"

// Shift statuses. The lifecycle moves strictly forward, one step at a time.
const (
	ShiftToBegin          = "to_begin"
	ShiftOngoing          = "ongoing"
	ShiftReadyForHandover = "ready_for_handover"
	ShiftHandedOver       = "handed_over"
	ShiftAcknowledged     = "acknowledged"
)

// shiftTransitions is the allowed next step per status. Terminal statuses
// have no entry.
var shiftTransitions = map[string]string{
	ShiftToBegin:          ShiftOngoing,
	ShiftOngoing:          ShiftReadyForHandover,
	ShiftReadyForHandover: ShiftHandedOver,
	ShiftHandedOver:       ShiftAcknowledged,
}

// ShiftStatusValid reports whether s is a known shift status.
func ShiftStatusValid(s string) bool {
	switch s {
	case ShiftToBegin, ShiftOngoing, ShiftReadyForHandover, ShiftHandedOver, ShiftAcknowledged:
		return true
	}
	return false
}

// ShiftCanTransition reports whether a shift may move from one status to
// another. No skipping, no backward moves.
func ShiftCanTransition(from, to string) bool {
	next, ok := shiftTransitions[from]
	return ok && next == to
}

// Shift is a supervised work period (table shifts).
type Shift struct {
	ID               int64      `gorm:"primaryKey"                          json:"id"`
	SupervisorID     int64      `gorm:"not null"                            json:"supervisor_id"`
	NextSupervisorID *int64     `json:"next_supervisor_id,omitempty"`
	StartTime        time.Time  `gorm:"not null"                            json:"start_time"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	Status           string     `gorm:"type:shift_status;not null;default:'to_begin'" json:"status"`
	FinalizedAt      *time.Time `json:"finalized_at,omitempty"`
	AcknowledgedAt   *time.Time `json:"acknowledged_at,omitempty"`
	Version          int        `gorm:"not null;default:1"                  json:"version"`
	AuditModel
}

// TableName sets the table name.
func (Shift) TableName() string { return "shifts" }

// ShiftWorker links a worker to a shift roster (table shift_workers).
// Rows are written only inside shift creation and never updated afterwards.
type ShiftWorker struct {
	ID           int64 `gorm:"primaryKey" json:"id"`
	ShiftID      int64 `gorm:"not null"   json:"shift_id"`
	SupervisorID int64 `gorm:"not null"   json:"supervisor_id"`
	WorkerID     int64 `gorm:"not null"   json:"worker_id"`
	AuditModel
}

// TableName sets the table name.
func (ShiftWorker) TableName() string { return "shift_workers" }

// UserDetail is the display profile consumed when assembling rosters and
// reports (table user_details). Owned by the identity service; read-only here.
type UserDetail struct {
	ID          int64  `gorm:"primaryKey"                 json:"id"`
	UserID      int64  `gorm:"not null;uniqueIndex"       json:"user_id"`
	FirstName   string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName    string `gorm:"type:varchar(100);not null" json:"last_name"`
	PhoneNumber string `gorm:"type:varchar(20);not null"  json:"phone_number"`
	Designation string `gorm:"type:varchar(50);not null"  json:"designation"`
	AuditModel
}

// TableName sets the table name.
func (UserDetail) TableName() string { return "user_details" }
