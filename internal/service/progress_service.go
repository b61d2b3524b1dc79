package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edtech-progress-api/internal/catalog"
	"github.com/noah-isme/edtech-progress-api/internal/models"
	appErrors "github.com/noah-isme/edtech-progress-api/pkg/errors"
)

type progressRepository interface {
	FindStatus(ctx context.Context, userID int64, subject, chapter string, component models.Component) (models.Status, error)
	Upsert(ctx context.Context, userID int64, subject, chapter string, component models.Component, status models.Status) error
	CountByStatus(ctx context.Context, userID int64, status models.Status) (int, error)
	GroupBySubjectAndStatus(ctx context.Context, userID int64) ([]models.SubjectStatusCount, error)
	ListByUser(ctx context.Context, userID int64) ([]models.ProgressEntry, error)
}

type auditRecorder interface {
	Record(ctx context.Context, userID int64, action, detail string) error
}

// ProgressService reads and writes per-user completion status.
type ProgressService struct {
	repo      progressRepository
	audit     auditRecorder
	catalog   *catalog.Catalog
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgressService constructs a ProgressService instance.
func NewProgressService(repo progressRepository, audit auditRecorder, cat *catalog.Catalog, validate *validator.Validate, logger *zap.Logger) *ProgressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	return &ProgressService{repo: repo, audit: audit, catalog: cat, validator: validate, logger: logger}
}

// Catalog exposes the injected catalog for read-only consumers.
func (s *ProgressService) Catalog() *catalog.Catalog {
	return s.catalog
}

// GetStatus returns the stored status for a triple, defaulting to
// StatusNotDone when no row exists.
func (s *ProgressService) GetStatus(ctx context.Context, userID int64, key models.TripleKey) (models.Status, error) {
	if err := s.validateKey(key); err != nil {
		return "", err
	}

	status, err := s.repo.FindStatus(ctx, userID, key.Subject, key.Chapter, key.Component)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StatusNotDone, nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read status")
	}
	return status, nil
}

// SetStatus upserts the status for a triple. Setting the value it already
// holds is a no-op; a change performs one atomic write followed by exactly
// one audit entry describing the transition.
func (s *ProgressService) SetStatus(ctx context.Context, userID int64, req models.SetStatusRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	key := models.TripleKey{Subject: req.Subject, Chapter: req.Chapter, Component: req.Component}
	if err := s.validateKey(key); err != nil {
		return err
	}
	if !req.Status.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unrecognized status %q", req.Status))
	}

	current, err := s.GetStatus(ctx, userID, key)
	if err != nil {
		return err
	}
	if current == req.Status {
		return nil
	}

	if err := s.repo.Upsert(ctx, userID, key.Subject, key.Chapter, key.Component, req.Status); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store status")
	}

	detail := fmt.Sprintf("%s > %s > %s : %s", key.Subject, key.Chapter, key.Component, req.Status)
	if err := s.audit.Record(ctx, userID, models.AuditActionUpdateProgress, detail); err != nil {
		return err
	}

	return nil
}

// CompletionRate is the percentage of all catalog slots the user has marked
// done, in [0, 100]. A catalog with zero slots yields 0.
func (s *ProgressService) CompletionRate(ctx context.Context, userID int64) (float64, error) {
	total := s.catalog.TotalSlots()
	if total == 0 {
		return 0, nil
	}

	done, err := s.repo.CountByStatus(ctx, userID, models.StatusDone)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count completed slots")
	}

	return float64(done) / float64(total) * 100, nil
}

// GroupedBySubjectAndStatus returns the per-subject, per-status counts that
// drive the proportional charts. Empty groups are absent, not zero-filled.
func (s *ProgressService) GroupedBySubjectAndStatus(ctx context.Context, userID int64) ([]models.SubjectStatusCount, error) {
	rows, err := s.repo.GroupBySubjectAndStatus(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate progress")
	}
	return rows, nil
}

// ListForUser returns every stored entry for the user, used by exports.
func (s *ProgressService) ListForUser(ctx context.Context, userID int64) ([]models.ProgressEntry, error) {
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list progress")
	}
	return entries, nil
}

func (s *ProgressService) validateKey(key models.TripleKey) error {
	if !key.Component.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unrecognized component %q", key.Component))
	}
	if !s.catalog.Contains(key.Subject, key.Chapter) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown subject/chapter pair %q / %q", key.Subject, key.Chapter))
	}
	return nil
}
