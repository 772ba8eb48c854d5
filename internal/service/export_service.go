package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pfe-platform/defense-api/internal/models"
	appErrors "github.com/pfe-platform/defense-api/pkg/errors"
	"github.com/pfe-platform/defense-api/pkg/export"
)

// ExportFormat selects the rendered timetable format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportPayload is a rendered timetable ready to be served.
type ExportPayload struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the defense timetable as CSV or PDF.
type ExportService struct {
	defenses defenseReader
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(defenses defenseReader, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{defenses: defenses, csv: csv, pdf: pdf, logger: logger}
}

// Timetable renders the defenses matching the filter.
func (s *ExportService) Timetable(ctx context.Context, filter models.DefenseFilter, format ExportFormat) (*ExportPayload, error) {
	defenses, err := s.defenses.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load defenses for export")
	}

	dataset := timetableDataset(defenses)
	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render CSV export")
		}
		return &ExportPayload{Content: content, ContentType: "text/csv", Filename: "defense-schedule.csv"}, nil
	case ExportFormatPDF:
		content, err := s.pdf.Render(dataset, "Defense Schedule")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render PDF export")
		}
		return &ExportPayload{Content: content, ContentType: "application/pdf", Filename: "defense-schedule.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// ParseExportFormat normalises a query-string format value.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "csv":
		return ExportFormatCSV, nil
	case "pdf":
		return ExportFormatPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", raw))
	}
}

func timetableDataset(defenses []models.Defense) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"Date", "Start", "End", "Project", "Student", "Supervisor", "Room", "Jury President", "Jury Reporter"},
	}
	for _, defense := range defenses {
		dataset.Rows = append(dataset.Rows, []string{
			defense.Date.Format("2006-01-02"),
			defense.StartTime.Clock(),
			defense.EndTime.Clock(),
			defense.ProjectTitle,
			defense.StudentName,
			defense.SupervisorName,
			defense.RoomName,
			defense.JuryPresidentName,
			defense.JuryReporterName,
		})
	}
	return dataset
}
