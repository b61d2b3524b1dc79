package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/edtech-progress-api/internal/catalog"
	"github.com/noah-isme/edtech-progress-api/internal/models"
	appErrors "github.com/noah-isme/edtech-progress-api/pkg/errors"
)

type tripleID struct {
	userID int64
	key    models.TripleKey
}

type fakeProgressRepo struct {
	rows    map[tripleID]models.Status
	upserts int
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{rows: make(map[tripleID]models.Status)}
}

func (f *fakeProgressRepo) FindStatus(ctx context.Context, userID int64, subject, chapter string, component models.Component) (models.Status, error) {
	status, ok := f.rows[tripleID{userID, models.TripleKey{Subject: subject, Chapter: chapter, Component: component}}]
	if !ok {
		return "", sql.ErrNoRows
	}
	return status, nil
}

func (f *fakeProgressRepo) Upsert(ctx context.Context, userID int64, subject, chapter string, component models.Component, status models.Status) error {
	f.upserts++
	f.rows[tripleID{userID, models.TripleKey{Subject: subject, Chapter: chapter, Component: component}}] = status
	return nil
}

func (f *fakeProgressRepo) CountByStatus(ctx context.Context, userID int64, status models.Status) (int, error) {
	total := 0
	for id, s := range f.rows {
		if id.userID == userID && s == status {
			total++
		}
	}
	return total, nil
}

func (f *fakeProgressRepo) GroupBySubjectAndStatus(ctx context.Context, userID int64) ([]models.SubjectStatusCount, error) {
	counts := make(map[models.SubjectStatusCount]int)
	for id, s := range f.rows {
		if id.userID != userID {
			continue
		}
		counts[models.SubjectStatusCount{Subject: id.key.Subject, Status: s}]++
	}
	var out []models.SubjectStatusCount
	for k, n := range counts {
		k.Count = n
		out = append(out, k)
	}
	return out, nil
}

func (f *fakeProgressRepo) ListByUser(ctx context.Context, userID int64) ([]models.ProgressEntry, error) {
	var out []models.ProgressEntry
	for id, s := range f.rows {
		if id.userID != userID {
			continue
		}
		out = append(out, models.ProgressEntry{
			UserID:    userID,
			Subject:   id.key.Subject,
			Chapter:   id.key.Chapter,
			Component: id.key.Component,
			Status:    s,
		})
	}
	return out, nil
}

type fakeAudit struct {
	entries []models.AuditLog
	err     error
}

func (f *fakeAudit) Record(ctx context.Context, userID int64, action, detail string) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, models.AuditLog{UserID: userID, Action: action, Details: detail})
	return nil
}

func newTestProgressService(repo *fakeProgressRepo, audit *fakeAudit) *ProgressService {
	return NewProgressService(repo, audit, catalog.Default(), validator.New(), zap.NewNop())
}

func TestGetStatusDefaultsToNotDone(t *testing.T) {
	svc := newTestProgressService(newFakeProgressRepo(), &fakeAudit{})

	status, err := svc.GetStatus(context.Background(), 1, models.TripleKey{
		Subject: "Physique", Chapter: "Thermodynamique", Component: models.ComponentTD,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotDone, status)
}

func TestSetStatusWritesOnceAndAudits(t *testing.T) {
	repo := newFakeProgressRepo()
	audit := &fakeAudit{}
	svc := newTestProgressService(repo, audit)

	req := models.SetStatusRequest{
		Subject: "Physique", Chapter: "Thermodynamique",
		Component: models.ComponentTD, Status: models.StatusDone,
	}
	require.NoError(t, svc.SetStatus(context.Background(), 1, req))

	require.Len(t, repo.rows, 1)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionUpdateProgress, audit.entries[0].Action)
	assert.Equal(t, "Physique > Thermodynamique > TD : Fait", audit.entries[0].Details)

	status, err := svc.GetStatus(context.Background(), 1, models.TripleKey{
		Subject: "Physique", Chapter: "Thermodynamique", Component: models.ComponentTD,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, status)
}

func TestSetStatusIdempotent(t *testing.T) {
	repo := newFakeProgressRepo()
	audit := &fakeAudit{}
	svc := newTestProgressService(repo, audit)

	req := models.SetStatusRequest{
		Subject: "Physique", Chapter: "Thermodynamique",
		Component: models.ComponentTD, Status: models.StatusDone,
	}
	require.NoError(t, svc.SetStatus(context.Background(), 1, req))
	require.NoError(t, svc.SetStatus(context.Background(), 1, req))

	// Second call with the same value is a no-op: one row, one write, one
	// audit entry.
	assert.Len(t, repo.rows, 1)
	assert.Equal(t, 1, repo.upserts)
	assert.Len(t, audit.entries, 1)
}

func TestSetStatusTransitionAuditsEachChange(t *testing.T) {
	repo := newFakeProgressRepo()
	audit := &fakeAudit{}
	svc := newTestProgressService(repo, audit)

	req := models.SetStatusRequest{
		Subject: "Physique", Chapter: "Thermodynamique",
		Component: models.ComponentTD, Status: models.StatusInProgress,
	}
	require.NoError(t, svc.SetStatus(context.Background(), 1, req))
	req.Status = models.StatusDone
	require.NoError(t, svc.SetStatus(context.Background(), 1, req))

	assert.Len(t, repo.rows, 1)
	assert.Len(t, audit.entries, 2)
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestProgressService(newFakeProgressRepo(), &fakeAudit{})

	err := svc.SetStatus(context.Background(), 1, models.SetStatusRequest{
		Subject: "Physique", Chapter: "Thermodynamique",
		Component: models.ComponentTD, Status: "Presque fait",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSetStatusRejectsUnknownPair(t *testing.T) {
	svc := newTestProgressService(newFakeProgressRepo(), &fakeAudit{})

	err := svc.SetStatus(context.Background(), 1, models.SetStatusRequest{
		Subject: "Alchimie", Chapter: "Transmutation",
		Component: models.ComponentTD, Status: models.StatusDone,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSetStatusSurfacesAuditFailure(t *testing.T) {
	repo := newFakeProgressRepo()
	audit := &fakeAudit{err: appErrors.ErrInternal}
	svc := newTestProgressService(repo, audit)

	err := svc.SetStatus(context.Background(), 1, models.SetStatusRequest{
		Subject: "Physique", Chapter: "Thermodynamique",
		Component: models.ComponentTD, Status: models.StatusDone,
	})
	require.Error(t, err)
}

func TestCompletionRate(t *testing.T) {
	repo := newFakeProgressRepo()
	audit := &fakeAudit{}
	svc := newTestProgressService(repo, audit)

	// Default catalog: 3 subjects x 3 chapters x 3 components = 27 slots.
	// Mark 9 of them done: one full subject.
	for _, chapter := range []string{"Mécanique du Point", "Thermodynamique", "Électromagnétisme"} {
		for _, component := range models.Components {
			require.NoError(t, svc.SetStatus(context.Background(), 1, models.SetStatusRequest{
				Subject: "Physique", Chapter: chapter, Component: component, Status: models.StatusDone,
			}))
		}
	}

	rate, err := svc.CompletionRate(context.Background(), 1)
	require.NoError(t, err)
	assert.InDelta(t, 33.3, rate, 0.1)
}

func TestCompletionRateEmptyCatalog(t *testing.T) {
	svc := NewProgressService(newFakeProgressRepo(), &fakeAudit{}, catalog.New(nil), validator.New(), zap.NewNop())

	rate, err := svc.CompletionRate(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, rate)
}

func TestGroupedOmitsEmptyGroups(t *testing.T) {
	repo := newFakeProgressRepo()
	svc := newTestProgressService(repo, &fakeAudit{})

	require.NoError(t, svc.SetStatus(context.Background(), 1, models.SetStatusRequest{
		Subject: "Physique", Chapter: "Thermodynamique",
		Component: models.ComponentTD, Status: models.StatusDone,
	}))

	rows, err := svc.GroupedBySubjectAndStatus(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Physique", rows[0].Subject)
	assert.Equal(t, models.StatusDone, rows[0].Status)
	assert.Equal(t, 1, rows[0].Count)
}
