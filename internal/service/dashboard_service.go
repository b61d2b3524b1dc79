package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/edtech-progress-api/internal/models"
)

type progressSummaryProvider interface {
	CompletionRate(ctx context.Context, userID int64) (float64, error)
	GroupedBySubjectAndStatus(ctx context.Context, userID int64) ([]models.SubjectStatusCount, error)
}

type activityProvider interface {
	RecentForUser(ctx context.Context, userID int64, limit int) ([]models.AuditLog, error)
}

type doneCounter interface {
	CountByStatus(ctx context.Context, userID int64, status models.Status) (int, error)
}

// DashboardService composes the per-user summary payload: headline numbers,
// the subject/status breakdown, and recent activity.
type DashboardService struct {
	progress       progressSummaryProvider
	counts         doneCounter
	activity       activityProvider
	activeSubjects int
	logger         *zap.Logger
}

// NewDashboardService constructs a DashboardService instance. activeSubjects
// is the catalog's subject count, fixed at startup.
func NewDashboardService(progress progressSummaryProvider, counts doneCounter, activity activityProvider, activeSubjects int, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		progress:       progress,
		counts:         counts,
		activity:       activity,
		activeSubjects: activeSubjects,
		logger:         logger,
	}
}

// Summary builds the dashboard payload for one user.
func (s *DashboardService) Summary(ctx context.Context, userID int64) (*models.DashboardSummary, error) {
	rate, err := s.progress.CompletionRate(ctx, userID)
	if err != nil {
		return nil, err
	}

	done, err := s.counts.CountByStatus(ctx, userID, models.StatusDone)
	if err != nil {
		return nil, err
	}

	bySubject, err := s.progress.GroupedBySubjectAndStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.activity.RecentForUser(ctx, userID, defaultRecentLimit)
	if err != nil {
		return nil, err
	}

	return &models.DashboardSummary{
		ActiveSubjects: s.activeSubjects,
		CompletedTasks: done,
		CompletionRate: rate,
		BySubject:      bySubject,
		RecentActivity: recent,
	}, nil
}
