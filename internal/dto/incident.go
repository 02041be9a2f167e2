package dto

// CreateIncidentRequest is the multipart form body of an incident report.
// Attachments ride alongside as form files.
type CreateIncidentRequest struct {
	ShiftID             int64   `form:"shift_id"             binding:"required,gt=0"`
	ReportType          string  `form:"report_type"          binding:"required,oneof=hazard near_miss accident environmental other"`
	ReportedByUserID    int64   `form:"-"` // stamped from the authenticated caller
	LocationDescription string  `form:"location_description" binding:"required"`
	GPSLatitude         float64 `form:"gps_latitude"         binding:"required"`
	GPSLongitude        float64 `form:"gps_longitude"        binding:"required"`
	Description         string  `form:"description"          binding:"required"`
	InitialSeverity     string  `form:"initial_severity"     binding:"required,oneof=low medium high critical"`
	RootCause           string  `form:"root_cause"`
}

// UpdateIncidentRequest is the partial-update command for an incident.
type UpdateIncidentRequest struct {
	Status    *string `json:"status" binding:"omitempty,oneof=reported acknowledged investigating pending_actions closed cancelled"`
	RootCause *string `json:"root_cause"`
}

// FailedAttachment records one evidence file that could not be persisted
// while the incident itself committed.
type FailedAttachment struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

// IncidentResponse mirrors one incident row.
type IncidentResponse struct {
	ID                  int64   `json:"id"`
	ShiftID             int64   `json:"shift_id"`
	ReportType          string  `json:"report_type"`
	ReportedByUserID    int64   `json:"reported_by_user_id"`
	LocationDescription string  `json:"location_description"`
	GPSLatitude         float64 `json:"gps_latitude"`
	GPSLongitude        float64 `json:"gps_longitude"`
	Description         string  `json:"description"`
	InitialSeverity     string  `json:"initial_severity"`
	Status              string  `json:"status"`
	RootCause           string  `json:"root_cause"`
	CreatedAt           string  `json:"created_at"`
}

// CreateIncidentResult is the intake outcome: the committed incident plus the
// attachments that failed. A non-empty failure list is a warning, not an
// error.
type CreateIncidentResult struct {
	Incident          IncidentResponse   `json:"incident"`
	FailedAttachments []FailedAttachment `json:"failed_attachments"`
}

// AttachmentResponse is one stored attachment with a presigned download URL.
type AttachmentResponse struct {
	ID          int64  `json:"id"`
	FileName    string `json:"file_name"`
	StoragePath string `json:"storage_path"`
	URL         string `json:"url,omitempty"`
}
