package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/edtech-progress-api/internal/models"
	appErrors "github.com/noah-isme/edtech-progress-api/pkg/errors"
)

type auditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	RecentForUser(ctx context.Context, userID int64, limit int) ([]models.AuditLog, error)
	AllWithUsernames(ctx context.Context) ([]models.AuditLogWithUser, error)
}

const defaultRecentLimit = 5

// AuditService appends to and queries the append-only audit trail.
type AuditService struct {
	repo   auditRepository
	logger *zap.Logger
}

// NewAuditService constructs an AuditService instance.
func NewAuditService(repo auditRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// Record appends one immutable entry. Failures are returned to the caller;
// in this synchronous system an audit write failure must not be swallowed.
func (s *AuditService) Record(ctx context.Context, userID int64, action, detail string) error {
	entry := &models.AuditLog{UserID: userID, Action: action, Details: detail}
	if err := s.repo.Create(ctx, entry); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record audit entry")
	}
	return nil
}

// RecentForUser returns the user's latest entries in descending timestamp
// order, bounded by limit.
func (s *AuditService) RecentForUser(ctx context.Context, userID int64, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	entries, err := s.repo.RecentForUser(ctx, userID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent activity")
	}
	return entries, nil
}

// AllWithUsernames returns the full trail joined with usernames for
// administrative review.
func (s *AuditService) AllWithUsernames(ctx context.Context) ([]models.AuditLogWithUser, error) {
	entries, err := s.repo.AllWithUsernames(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load audit trail")
	}
	return entries, nil
}
