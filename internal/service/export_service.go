package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Venkatnagaram/mentor-apis-working/internal/models"
	appErrors "github.com/Venkatnagaram/mentor-apis-working/pkg/errors"
	"github.com/Venkatnagaram/mentor-apis-working/pkg/export"
)

type exportMeetingLister interface {
	ListByUser(ctx context.Context, userID string, status models.MeetingStatus) ([]models.Meeting, error)
}

// ExportFormat selects the rendered agenda format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult is a rendered document ready to be served.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders a user's meeting agenda to CSV or PDF.
type ExportService struct {
	meetings exportMeetingLister
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(meetings exportMeetingLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		meetings: meetings,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

var agendaHeaders = []string{"Start", "End", "Duration (min)", "Mentor", "Mentee", "Status"}

// MeetingAgenda exports the user's scheduled meetings in the given format.
// Times are rendered in the supplied location.
func (s *ExportService) MeetingAgenda(ctx context.Context, userID string, format ExportFormat, loc *time.Location) (*ExportResult, error) {
	if loc == nil {
		loc = time.UTC
	}

	meetings, err := s.meetings.ListByUser(ctx, userID, models.MeetingStatusScheduled)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meetings for export")
	}

	dataset := export.Dataset{Headers: agendaHeaders}
	for _, m := range meetings {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Start":          m.StartAt.In(loc).Format("2006-01-02 15:04"),
			"End":            m.EndAt.In(loc).Format("2006-01-02 15:04"),
			"Duration (min)": fmt.Sprintf("%d", m.DurationMinutes),
			"Mentor":         m.MentorID,
			"Mentee":         m.MenteeID,
			"Status":         string(m.Status),
		})
	}

	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: "meetings.csv"}, nil

	case ExportFormatPDF:
		content, err := s.pdf.Render(dataset, "Meeting agenda")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: "meetings.pdf"}, nil
	}

	return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
}
