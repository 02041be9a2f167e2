package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"smp-portal/backend/internal/dto"
)

// ── report fetchers ──
//
// The aggregator reads the other services over HTTP; each fetcher is
// implemented by a client in internal/client. Keeping them as interfaces lets
// the degrade paths be exercised without a network.

// ShiftFetcher reads shift state from the shift service.
type ShiftFetcher interface {
	FetchShift(ctx context.Context, shiftID int64) (*dto.ShiftResponse, error)
}

// IncidentFetcher reads the incidents of a shift from the incident service.
type IncidentFetcher interface {
	FetchIncidentsByShift(ctx context.Context, shiftID int64) ([]dto.IncidentResponse, error)
}

// WorkplanFetcher reads an incident's workplan from the workplan service.
type WorkplanFetcher interface {
	FetchWorkplanByIncident(ctx context.Context, incidentID int64) (*dto.WorkplanResponse, error)
}

// ReportService assembles handover reports by fanning out to the shift,
// incident and workplan services. Every downstream call has its own timeout
// and is tried exactly once; a failed call marks its section unavailable and
// the rest of the report stands.
type ReportService interface {
	GenerateShiftReport(ctx context.Context, shiftID int64) (*dto.ShiftReport, error)
}

type reportService struct {
	shifts      ShiftFetcher
	incidents   IncidentFetcher
	workplans   WorkplanFetcher
	callTimeout time.Duration
	logger      *zap.Logger
}

// NewReportService creates a ReportService. callTimeout bounds each
// downstream call separately.
func NewReportService(shifts ShiftFetcher, incidents IncidentFetcher, workplans WorkplanFetcher, callTimeout time.Duration, logger *zap.Logger) ReportService {
	return &reportService{
		shifts:      shifts,
		incidents:   incidents,
		workplans:   workplans,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

func (s *reportService) GenerateShiftReport(ctx context.Context, shiftID int64) (*dto.ShiftReport, error) {
	report := &dto.ShiftReport{
		ShiftID:     shiftID,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	report.Shift = s.fetchShiftSection(ctx, shiftID)
	report.Incidents = s.fetchIncidentsSection(ctx, shiftID)

	return report, nil
}

func (s *reportService) fetchShiftSection(ctx context.Context, shiftID int64) dto.ShiftSection {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	shift, err := s.shifts.FetchShift(callCtx, shiftID)
	if err != nil {
		s.logger.Warn("shift section unavailable", zap.Int64("shift_id", shiftID), zap.Error(err))
		return dto.ShiftSection{Available: false, Reason: err.Error()}
	}
	return dto.ShiftSection{Available: true, Shift: shift}
}

func (s *reportService) fetchIncidentsSection(ctx context.Context, shiftID int64) dto.IncidentsSection {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	incidents, err := s.incidents.FetchIncidentsByShift(callCtx, shiftID)
	cancel()
	if err != nil {
		s.logger.Warn("incidents section unavailable", zap.Int64("shift_id", shiftID), zap.Error(err))
		return dto.IncidentsSection{Available: false, Reason: err.Error(), Items: []dto.IncidentEntry{}}
	}

	// Workplans are fetched per incident; one missing workplan degrades its
	// own entry only.
	items := make([]dto.IncidentEntry, 0, len(incidents))
	for _, incident := range incidents {
		items = append(items, dto.IncidentEntry{
			Incident: incident,
			Workplan: s.fetchWorkplanSection(ctx, incident.ID),
		})
	}
	return dto.IncidentsSection{Available: true, Items: items}
}

func (s *reportService) fetchWorkplanSection(ctx context.Context, incidentID int64) dto.WorkplanSection {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	workplan, err := s.workplans.FetchWorkplanByIncident(callCtx, incidentID)
	if err != nil {
		s.logger.Warn("workplan section unavailable", zap.Int64("incident_id", incidentID), zap.Error(err))
		return dto.WorkplanSection{Available: false, Reason: err.Error()}
	}
	return dto.WorkplanSection{Available: true, Workplan: workplan}
}
