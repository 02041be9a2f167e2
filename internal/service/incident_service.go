package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"smp-portal/backend/internal/dto"
	"smp-portal/backend/internal/model"
	"smp-portal/backend/internal/repository"
	pkgerrors "smp-portal/backend/pkg/errors"
	"smp-portal/backend/pkg/storage"
)

// ── incident module errors ──

var (
	ErrIncidentNotFound     = errors.New("incident not found")
	ErrIncidentCreateFailed = errors.New("incident creation failed")
)

// ObjectStore is the evidence store the intake pipeline uploads into.
// Satisfied by pkg/storage.Client.
type ObjectStore interface {
	Upload(ctx context.Context, key, fileName string, r io.Reader, size int64) error
	SignedURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// EvidenceFile is one uploaded attachment, decoupled from multipart so the
// pipeline can be exercised without an HTTP request.
type EvidenceFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// IncidentService owns incident intake. The incident row is the
// availability-critical write and commits standalone; attachments are
// best-effort on top; a lost photo never loses the incident.
type IncidentService interface {
	Create(ctx context.Context, req *dto.CreateIncidentRequest, files []EvidenceFile) (*dto.CreateIncidentResult, error)
	ListByShift(ctx context.Context, shiftID int64, page, limit int) ([]dto.IncidentResponse, int64, error)
	Update(ctx context.Context, id int64, req *dto.UpdateIncidentRequest) (*dto.IncidentResponse, error)
	ListAttachments(ctx context.Context, incidentID int64) ([]dto.AttachmentResponse, error)
}

type incidentService struct {
	repo   *repository.Repository
	store  ObjectStore
	logger *zap.Logger
}

// NewIncidentService creates an IncidentService.
func NewIncidentService(repo *repository.Repository, store ObjectStore, logger *zap.Logger) IncidentService {
	return &incidentService{repo: repo, store: store, logger: logger}
}

func (s *incidentService) Create(ctx context.Context, req *dto.CreateIncidentRequest, files []EvidenceFile) (*dto.CreateIncidentResult, error) {
	incident := &model.Incident{
		ShiftID:             req.ShiftID,
		ReportType:          req.ReportType,
		ReportedByUserID:    req.ReportedByUserID,
		LocationDescription: req.LocationDescription,
		GPSLatitude:         req.GPSLatitude,
		GPSLongitude:        req.GPSLongitude,
		Description:         req.Description,
		InitialSeverity:     req.InitialSeverity,
		Status:              model.IncidentReported,
		RootCause:           req.RootCause,
	}

	if err := s.repo.Incident.Create(ctx, incident); err != nil {
		s.logger.Error("incident insert failed", zap.Int64("shift_id", req.ShiftID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrIncidentCreateFailed, err)
	}

	result := &dto.CreateIncidentResult{
		Incident:          incidentResponse(incident),
		FailedAttachments: []dto.FailedAttachment{},
	}

	// Best-effort evidence persistence: each file is handled independently
	// and a failure is recorded, not propagated. The incident above stands
	// whatever happens here.
	for _, file := range files {
		if err := s.persistAttachment(ctx, incident.ID, file); err != nil {
			s.logger.Warn("attachment failed",
				zap.Int64("incident_id", incident.ID),
				zap.String("file", file.Name),
				zap.Error(err),
			)
			result.FailedAttachments = append(result.FailedAttachments, dto.FailedAttachment{
				FileName: file.Name,
				Reason:   err.Error(),
			})
		}
	}

	return result, nil
}

// persistAttachment uploads one file and records its row. The upload runs
// outside any database transaction; if the row insert fails afterwards the
// orphaned object is deleted best-effort.
func (s *incidentService) persistAttachment(ctx context.Context, incidentID int64, file EvidenceFile) error {
	r, err := file.Open()
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer r.Close()

	key := storage.ObjectKey(file.Name)
	if err := s.store.Upload(ctx, key, file.Name, r, file.Size); err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	attachment := &model.Attachment{
		IncidentID:  incidentID,
		FileName:    file.Name,
		StoragePath: key,
	}
	if err := s.repo.Attachment.Create(ctx, attachment); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn("orphaned object left in store",
				zap.String("key", key),
				zap.Error(delErr),
			)
		}
		return fmt.Errorf("record attachment: %w", err)
	}

	return nil
}

func (s *incidentService) ListByShift(ctx context.Context, shiftID int64, page, limit int) ([]dto.IncidentResponse, int64, error) {
	offset := (page - 1) * limit
	incidents, total, err := s.repo.Incident.ListByShift(ctx, shiftID, offset, limit)
	if err != nil {
		s.logger.Error("incident listing failed", zap.Int64("shift_id", shiftID), zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.IncidentResponse, 0, len(incidents))
	for i := range incidents {
		list = append(list, incidentResponse(&incidents[i]))
	}
	return list, total, nil
}

func (s *incidentService) Update(ctx context.Context, id int64, req *dto.UpdateIncidentRequest) (*dto.IncidentResponse, error) {
	incident, err := s.repo.Incident.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIncidentNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}

	if req.Status != nil && *req.Status != incident.Status {
		// closed and cancelled admit no further status change.
		if model.IncidentStatusTerminal(incident.Status) {
			return nil, pkgerrors.NewInvalidTransition("incident", incident.Status, *req.Status)
		}
		fields["status"] = *req.Status
	}

	if req.RootCause != nil {
		fields["root_cause"] = *req.RootCause
	}

	if len(fields) > 0 {
		if err := s.repo.Incident.UpdateFields(ctx, id, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrIncidentNotFound
			}
			s.logger.Error("incident update failed", zap.Int64("incident_id", id), zap.Error(err))
			return nil, err
		}
	}

	updated, err := s.repo.Incident.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := incidentResponse(updated)
	return &resp, nil
}

func (s *incidentService) ListAttachments(ctx context.Context, incidentID int64) ([]dto.AttachmentResponse, error) {
	if _, err := s.repo.Incident.GetByID(ctx, incidentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIncidentNotFound
		}
		return nil, err
	}

	attachments, err := s.repo.Attachment.ListByIncident(ctx, incidentID)
	if err != nil {
		s.logger.Error("attachment listing failed", zap.Int64("incident_id", incidentID), zap.Error(err))
		return nil, err
	}

	list := make([]dto.AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		resp := dto.AttachmentResponse{
			ID:          a.ID,
			FileName:    a.FileName,
			StoragePath: a.StoragePath,
		}
		// A failed presign degrades to a row without a download link.
		if url, err := s.store.SignedURL(ctx, a.StoragePath); err == nil {
			resp.URL = url
		} else {
			s.logger.Warn("presign failed", zap.String("key", a.StoragePath), zap.Error(err))
		}
		list = append(list, resp)
	}
	return list, nil
}

func incidentResponse(incident *model.Incident) dto.IncidentResponse {
	return dto.IncidentResponse{
		ID:                  incident.ID,
		ShiftID:             incident.ShiftID,
		ReportType:          incident.ReportType,
		ReportedByUserID:    incident.ReportedByUserID,
		LocationDescription: incident.LocationDescription,
		GPSLatitude:         incident.GPSLatitude,
		GPSLongitude:        incident.GPSLongitude,
		Description:         incident.Description,
		InitialSeverity:     incident.InitialSeverity,
		Status:              incident.Status,
		RootCause:           incident.RootCause,
		CreatedAt:           incident.CreatedAt.Format(time.RFC3339),
	}
}
