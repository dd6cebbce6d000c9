package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/SameerShan723/timetable-api/internal/models"
	"github.com/SameerShan723/timetable-api/pkg/export"
	appErrors "github.com/SameerShan723/timetable-api/pkg/errors"
)

// ExportFormat names a supported document format.
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

// ExportDocument is a rendered export ready for download.
type ExportDocument struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders a version's grid into downloadable documents. Read
// only; it never touches the version lifecycle.
type ExportService struct {
	versions *VersionService
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(versions *VersionService, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{versions: versions, csv: csv, pdf: pdf, logger: logger}
}

// Render resolves the version and produces the requested document.
func (s *ExportService) Render(ctx context.Context, version int, format ExportFormat) (*ExportDocument, error) {
	resolved, err := s.versions.Get(ctx, version)
	if err != nil {
		return nil, err
	}

	dataset := buildTimetableDataset(resolved.Grid)

	switch format {
	case ExportFormatCSV:
		body, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportDocument{
			Filename:    fmt.Sprintf("timetable-v%d.csv", version),
			ContentType: "text/csv",
			Body:        body,
		}, nil
	case ExportFormatPDF:
		body, err := s.pdf.Render(dataset, fmt.Sprintf("Timetable Version %d", version))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportDocument{
			Filename:    fmt.Sprintf("timetable-v%d.pdf", version),
			ContentType: "application/pdf",
			Body:        body,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// buildTimetableDataset flattens the grid into one table: a row per
// (day, room), a column per canonical time slot.
func buildTimetableDataset(grid models.TimetableData) export.Dataset {
	headers := append([]string{"Day", "Room"}, models.TimeSlots...)
	rows := []map[string]string{}

	for _, day := range models.Weekdays {
		for _, rs := range grid[day] {
			row := map[string]string{
				"Day":  string(day),
				"Room": rs.Room,
			}
			for slotIdx, label := range models.TimeSlots {
				if slotIdx >= len(rs.Slots) {
					continue
				}
				row[label] = renderCell(rs.Slots[slotIdx])
			}
			rows = append(rows, row)
		}
	}

	return export.Dataset{Headers: headers, Rows: rows}
}

func renderCell(slot models.Slot) string {
	if slot.IsEmpty() {
		return ""
	}
	sess := slot.Session
	parts := []string{sess.DisplaySubject()}
	if sess.Section != "" {
		parts[0] = fmt.Sprintf("%s (%s)", sess.DisplaySubject(), sess.Section)
	}
	parts = append(parts, sess.DisplayTeacher())
	return strings.Join(parts, " / ")
}
