package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edtech-progress-api/internal/models"
	appErrors "github.com/noah-isme/edtech-progress-api/pkg/errors"
	"github.com/noah-isme/edtech-progress-api/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type auditTrailProvider interface {
	AllWithUsernames(ctx context.Context) ([]models.AuditLogWithUser, error)
}

type progressLister interface {
	ListForUser(ctx context.Context, userID int64) ([]models.ProgressEntry, error)
}

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportResult is a rendered document plus its metadata.
type ExportResult struct {
	Payload     []byte
	ContentType string
	Filename    string
}

// ExportService renders the audit trail and per-user progress as downloadable
// documents for administrative review.
type ExportService struct {
	audit    auditTrailProvider
	progress progressLister
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(audit auditTrailProvider, progress progressLister, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{audit: audit, progress: progress, csv: csv, pdf: pdf, logger: logger}
}

// AuditTrail renders the full audit trail in the requested format.
func (s *ExportService) AuditTrail(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	entries, err := s.audit.AllWithUsernames(ctx)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: []string{"Timestamp", "Username", "Action", "Details"}}
	for _, e := range entries {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Timestamp": e.CreatedAt.Format(time.RFC3339),
			"Username":  e.Username,
			"Action":    e.Action,
			"Details":   e.Details,
		})
	}

	return s.render(dataset, "Audit Trail", "audit-trail", format)
}

// UserProgress renders one user's stored progress rows as CSV.
func (s *ExportService) UserProgress(ctx context.Context, userID int64) (*ExportResult, error) {
	entries, err := s.progress.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: []string{"Subject", "Chapter", "Component", "Status", "Updated"}}
	for _, e := range entries {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Subject":   e.Subject,
			"Chapter":   e.Chapter,
			"Component": string(e.Component),
			"Status":    string(e.Status),
			"Updated":   e.UpdatedAt.Format(time.RFC3339),
		})
	}

	return s.render(dataset, "", "progress-user-"+strconv.FormatInt(userID, 10), FormatCSV)
}

func (s *ExportService) render(dataset export.Dataset, title, basename string, format ExportFormat) (*ExportResult, error) {
	switch format {
	case FormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Payload: payload, ContentType: "text/csv", Filename: basename + ".csv"}, nil
	case FormatPDF:
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Payload: payload, ContentType: "application/pdf", Filename: basename + ".pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
