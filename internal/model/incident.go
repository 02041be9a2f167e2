package model

// Incident report types.
const (
	ReportHazard        = "hazard"
	ReportNearMiss      = "near_miss"
	ReportAccident      = "accident"
	ReportEnvironmental = "environmental"
	ReportOther         = "other"
)

// Incident severities.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Incident statuses. closed and cancelled are terminal.
const (
	IncidentReported       = "reported"
	IncidentAcknowledged   = "acknowledged"
	IncidentInvestigating  = "investigating"
	IncidentPendingActions = "pending_actions"
	IncidentClosed         = "closed"
	IncidentCancelled      = "cancelled"
)

// IncidentStatusValid reports whether s is a known incident status.
func IncidentStatusValid(s string) bool {
	switch s {
	case IncidentReported, IncidentAcknowledged, IncidentInvestigating,
		IncidentPendingActions, IncidentClosed, IncidentCancelled:
		return true
	}
	return false
}

// IncidentStatusTerminal reports whether s permits no further status change.
func IncidentStatusTerminal(s string) bool {
	return s == IncidentClosed || s == IncidentCancelled
}

// Incident is a reported safety event tied to a shift (table incidents).
// shift_id is a plain integer reference into the shift service; never a
// cross-service foreign key.
type Incident struct {
	ID                  int64   `gorm:"primaryKey"                      json:"id"`
	ShiftID             int64   `gorm:"not null"                        json:"shift_id"`
	ReportType          string  `gorm:"type:report_type;not null"       json:"report_type"`
	ReportedByUserID    int64   `gorm:"not null"                        json:"reported_by_user_id"`
	LocationDescription string  `gorm:"not null"                        json:"location_description"`
	GPSLatitude         float64 `gorm:"column:gps_latitude;not null"    json:"gps_latitude"`
	GPSLongitude        float64 `gorm:"column:gps_longitude;not null"   json:"gps_longitude"`
	Description         string  `gorm:"not null"                        json:"description"`
	InitialSeverity     string  `gorm:"type:severity;not null"          json:"initial_severity"`
	Status              string  `gorm:"type:incident_status;not null;default:'reported'" json:"status"`
	RootCause           string  `gorm:"not null;default:''"             json:"root_cause"`
	AuditModel
}

// TableName sets the table name.
func (Incident) TableName() string { return "incidents" }

// Attachment is one stored evidence file (table incident_attachments).
// Creation is best-effort: a failed attachment never blocks the incident.
type Attachment struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	IncidentID  int64  `gorm:"not null"   json:"incident_id"`
	FileName    string `gorm:"not null"   json:"file_name"`
	StoragePath string `gorm:"not null"   json:"storage_path"`
	AuditModel
}

// TableName sets the table name.
func (Attachment) TableName() string { return "incident_attachments" }
