package handler

import "smp-portal/backend/internal/service"

// Handler aggregates every module handler behind one entry point.
type Handler struct {
	Shift    *ShiftHandler
	Incident *IncidentHandler
	Catalog  *CatalogHandler
	Workplan *WorkplanHandler
	Report   *ReportHandler
	Export   *ExportHandler
}

// NewHandler creates the Handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Shift:    NewShiftHandler(svc.Shift),
		Incident: NewIncidentHandler(svc.Incident),
		Catalog:  NewCatalogHandler(svc.Catalog),
		Workplan: NewWorkplanHandler(svc.Workplan),
		Report:   NewReportHandler(svc.Report),
		Export:   NewExportHandler(svc.Export),
	}
}
