package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"smp-portal/backend/internal/repository"
)

// ── export module errors ──

var (
	ErrExportNoIncidents  = errors.New("shift has no incidents to export")
	ErrExportNoShifts     = errors.New("supervisor has no shifts to export")
	ErrExportGenerateFail = errors.New("export generation failed")
)

// ExportService renders operational data as downloadable files: the incident
// register of a shift as Excel and a supervisor's shift roster as an iCalendar
// feed. Both return a buffer plus a suggested filename; the handler sets the
// response headers.
type ExportService interface {
	ExportIncidentRegister(ctx context.Context, shiftID int64) (*bytes.Buffer, string, error)
	ExportShiftCalendar(ctx context.Context, supervisorID int64) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// registerPageSize bounds one export query; registers are paged through until
// exhausted.
const registerPageSize = 500

func (s *exportService) ExportIncidentRegister(ctx context.Context, shiftID int64) (*bytes.Buffer, string, error) {
	if _, err := s.repo.Shift.GetByID(ctx, shiftID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrShiftNotFound
		}
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Incident Register"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "C", 14)
	f.SetColWidth(sheetName, "D", "D", 28)
	f.SetColWidth(sheetName, "E", "F", 12)
	f.SetColWidth(sheetName, "G", "G", 40)
	f.SetColWidth(sheetName, "H", "H", 22)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Shift %d - Incident Register", shiftID))
	f.MergeCell(sheetName, "A1", "H1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	headers := []string{"ID", "Type", "Severity", "Location", "Status", "Reported By", "Description", "Reported At"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, fmt.Sprintf("%s2", col), h)
	}

	row := 3
	total := 0
	for page := 1; ; page++ {
		incidents, _, err := s.repo.Incident.ListByShift(ctx, shiftID, (page-1)*registerPageSize, registerPageSize)
		if err != nil {
			s.logger.Error("incident register query failed", zap.Int64("shift_id", shiftID), zap.Error(err))
			return nil, "", err
		}
		for _, incident := range incidents {
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), incident.ID)
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), incident.ReportType)
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), incident.InitialSeverity)
			f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), incident.LocationDescription)
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), incident.Status)
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), incident.ReportedByUserID)
			f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), incident.Description)
			f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), incident.CreatedAt.Format(time.RFC3339))
			row++
			total++
		}
		if len(incidents) < registerPageSize {
			break
		}
	}
	if total == 0 {
		return nil, "", ErrExportNoIncidents
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("excel write failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("incident_register_shift_%d.xlsx", shiftID)
	return buf, filename, nil
}

// calendarPageSize bounds the shift history walk per query.
const calendarPageSize = 200

func (s *exportService) ExportShiftCalendar(ctx context.Context, supervisorID int64) (*bytes.Buffer, string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//smp-portal//shift-calendar//EN")

	total := 0
	for page := 1; ; page++ {
		shifts, _, err := s.repo.Shift.ListBySupervisor(ctx, supervisorID, (page-1)*calendarPageSize, calendarPageSize)
		if err != nil {
			s.logger.Error("shift calendar query failed", zap.Int64("supervisor_id", supervisorID), zap.Error(err))
			return nil, "", err
		}
		for _, shift := range shifts {
			event := cal.AddEvent(fmt.Sprintf("shift-%d@smp-portal", shift.ID))
			event.SetSummary(fmt.Sprintf("Shift %d (%s)", shift.ID, shift.Status))
			event.SetStartAt(shift.StartTime.UTC())
			if shift.EndTime != nil {
				event.SetEndAt(shift.EndTime.UTC())
			} else {
				// An open shift still needs a DTEND to render; assume a
				// standard twelve-hour window.
				event.SetEndAt(shift.StartTime.UTC().Add(12 * time.Hour))
			}
			event.SetDtStampTime(time.Now().UTC())
			total++
		}
		if len(shifts) < calendarPageSize {
			break
		}
	}
	if total == 0 {
		return nil, "", ErrExportNoShifts
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("shifts_supervisor_%d.ics", supervisorID)
	return buf, filename, nil
}
