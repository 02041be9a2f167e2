package service

import (
	"go.uber.org/zap"

	"smp-portal/backend/config"
	"smp-portal/backend/internal/repository"
)

// Service aggregates every module service behind one entry point.
type Service struct {
	Shift    ShiftService
	Incident IncidentService
	Catalog  CatalogService
	Workplan WorkplanService
	Report   ReportService
	Export   ExportService
}

// NewService wires the module services. store backs incident attachments; the
// fetchers and acknowledger are the HTTP clients of the peer services.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	store ObjectStore,
	shifts ShiftFetcher,
	incidents IncidentFetcher,
	workplans WorkplanFetcher,
	acknowledger IncidentAcknowledger,
	logger *zap.Logger,
) *Service {
	return &Service{
		Shift:    NewShiftService(repo, logger),
		Incident: NewIncidentService(repo, store, logger),
		Catalog:  NewCatalogService(repo, logger),
		Workplan: NewWorkplanService(repo, acknowledger, logger),
		Report:   NewReportService(shifts, incidents, workplans, cfg.Services.CallTimeout, logger),
		Export:   NewExportService(repo, logger),
	}
}
