package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/register-share-api/internal/attendance"
	"github.com/noah-isme/register-share-api/internal/models"
	appErrors "github.com/noah-isme/register-share-api/pkg/errors"
	"github.com/noah-isme/register-share-api/pkg/export"
)

type snapshotFetcher interface {
	Fetch(ctx context.Context, code string) (*models.ShareSnapshot, error)
}

// ExportFormat selects the register export renderer.
type ExportFormat string

const (
	ExportFormatPDF ExportFormat = "pdf"
	ExportFormatCSV ExportFormat = "csv"
)

// ExportResult carries rendered bytes with response metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders a shared class's month register for download.
type ExportService struct {
	shares snapshotFetcher
	pdf    *export.PDFExporter
	csv    *export.CSVExporter
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(shares snapshotFetcher, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		shares: shares,
		pdf:    export.NewPDFExporter(),
		csv:    export.NewCSVExporter(),
		logger: logger,
	}
}

// RenderRegister fetches the snapshot behind the code and renders the named
// month. Holiday and Sunday columns are flagged so renderers can suppress
// marks on them, mirroring the on-screen register.
func (s *ExportService) RenderRegister(ctx context.Context, code, month string, format ExportFormat) (*ExportResult, error) {
	if attendance.MonthIndex(month) < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown month name")
	}

	snap, err := s.shares.Fetch(ctx, code)
	if err != nil {
		return nil, err
	}

	sheet := buildRegisterSheet(snap, month, time.Now().Year())

	switch format {
	case ExportFormatPDF, "":
		content, err := s.pdf.Render(sheet)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    exportFilename(snap.Name, month, "pdf"),
		}, nil
	case ExportFormatCSV:
		content, err := s.csv.Render(sheet)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    exportFilename(snap.Name, month, "csv"),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be pdf or csv")
	}
}

func buildRegisterSheet(snap *models.ShareSnapshot, month string, year int) export.RegisterSheet {
	reg := attendance.Register{Class: &snap.SchoolClass, Year: year, ReadOnly: true}

	days := make([]export.DayColumn, 0, attendance.DaysInMonth(month, year))
	for day := 1; day <= attendance.DaysInMonth(month, year); day++ {
		days = append(days, export.DayColumn{
			Day:     day,
			Holiday: reg.IsHoliday(month, day),
		})
	}

	rows := make([]export.RegisterRow, 0, len(snap.Students))
	for _, student := range snap.Students {
		marks := map[int]string{}
		for day, status := range snap.Attendance[month][student.ID] {
			marks[day] = string(status)
		}
		stats := reg.Stats(month, student.ID)
		rows = append(rows, export.RegisterRow{
			Roll:     student.RollNo,
			Name:     student.Name,
			Marks:    marks,
			Presents: stats.Presents,
			Absents:  stats.Absents,
		})
	}

	return export.RegisterSheet{
		Title: fmt.Sprintf("%s - %s %d", snap.Name, month, year),
		Month: month,
		Days:  days,
		Rows:  rows,
	}
}

func exportFilename(className, month, ext string) string {
	return fmt.Sprintf("%s-%s-register.%s", className, month, ext)
}
