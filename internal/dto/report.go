package dto

// ShiftSection is the shift part of a handover report. When the shift
// service could not be reached the section carries its failure reason and no
// data; the rest of the report is unaffected.
type ShiftSection struct {
	Available bool           `json:"available"`
	Reason    string         `json:"reason,omitempty"`
	Shift     *ShiftResponse `json:"shift,omitempty"`
}

// WorkplanSection is the workplan part of one incident entry, degraded
// independently per incident.
type WorkplanSection struct {
	Available bool              `json:"available"`
	Reason    string            `json:"reason,omitempty"`
	Workplan  *WorkplanResponse `json:"workplan,omitempty"`
}

// IncidentEntry is one incident with its (possibly unavailable) workplan.
type IncidentEntry struct {
	Incident IncidentResponse `json:"incident"`
	Workplan WorkplanSection  `json:"workplan"`
}

// IncidentsSection is the incident list of a handover report.
type IncidentsSection struct {
	Available bool            `json:"available"`
	Reason    string          `json:"reason,omitempty"`
	Items     []IncidentEntry `json:"items"`
}

// ShiftReport is the structured handover document handed to the PDF
// renderer. Every section degrades on its own; the report as a whole never
// fails because one downstream service did.
type ShiftReport struct {
	ShiftID     int64            `json:"shift_id"`
	GeneratedAt string           `json:"generated_at"`
	Shift       ShiftSection     `json:"shift"`
	Incidents   IncidentsSection `json:"incidents"`
}
