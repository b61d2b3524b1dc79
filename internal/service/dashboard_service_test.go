package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edtech-progress-api/internal/models"
)

type stubSummarySource struct {
	rate      float64
	bySubject []models.SubjectStatusCount
	done      int
	recent    []models.AuditLog
	gotLimit  int
}

func (s *stubSummarySource) CompletionRate(ctx context.Context, userID int64) (float64, error) {
	return s.rate, nil
}

func (s *stubSummarySource) GroupedBySubjectAndStatus(ctx context.Context, userID int64) ([]models.SubjectStatusCount, error) {
	return s.bySubject, nil
}

func (s *stubSummarySource) CountByStatus(ctx context.Context, userID int64, status models.Status) (int, error) {
	return s.done, nil
}

func (s *stubSummarySource) RecentForUser(ctx context.Context, userID int64, limit int) ([]models.AuditLog, error) {
	s.gotLimit = limit
	return s.recent, nil
}

func TestDashboardSummary(t *testing.T) {
	src := &stubSummarySource{
		rate: 33.3,
		done: 9,
		bySubject: []models.SubjectStatusCount{
			{Subject: "Physique", Status: models.StatusDone, Count: 9},
		},
		recent: []models.AuditLog{
			{UserID: 1, Action: models.AuditActionUpdateProgress, Details: "Physique > Thermodynamique > TD : Fait"},
		},
	}
	svc := NewDashboardService(src, src, src, 3, nil)

	summary, err := svc.Summary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.ActiveSubjects)
	assert.Equal(t, 9, summary.CompletedTasks)
	assert.InDelta(t, 33.3, summary.CompletionRate, 0.01)
	require.Len(t, summary.BySubject, 1)
	require.Len(t, summary.RecentActivity, 1)
	assert.Equal(t, defaultRecentLimit, src.gotLimit)
}

func TestDashboardSummaryEmptyUser(t *testing.T) {
	src := &stubSummarySource{}
	svc := NewDashboardService(src, src, src, 3, nil)

	summary, err := svc.Summary(context.Background(), 2)
	require.NoError(t, err)
	assert.Zero(t, summary.CompletedTasks)
	assert.Zero(t, summary.CompletionRate)
	assert.Empty(t, summary.BySubject)
	assert.Empty(t, summary.RecentActivity)
}
