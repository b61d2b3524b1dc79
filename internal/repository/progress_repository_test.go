package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edtech-progress-api/internal/models"
)

func TestFindStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProgressRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM progress WHERE user_id = ? AND subject = ? AND chapter = ? AND component = ? LIMIT 1")).
		WithArgs(int64(1), "Physique", "Thermodynamique", string(models.ComponentTD)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(string(models.StatusInProgress)))

	status, err := repo.FindStatus(context.Background(), 1, "Physique", "Thermodynamique", models.ComponentTD)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindStatusMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProgressRepository(db)

	mock.ExpectQuery("SELECT status FROM progress").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindStatus(context.Background(), 1, "Physique", "Thermodynamique", models.ComponentTD)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertProgress(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProgressRepository(db)

	mock.ExpectExec("INSERT INTO progress").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Upsert(context.Background(), 1, "Physique", "Thermodynamique", models.ComponentTD, models.StatusDone)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProgressRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM progress WHERE user_id = ? AND status = ?")).
		WithArgs(int64(1), string(models.StatusDone)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))

	total, err := repo.CountByStatus(context.Background(), 1, models.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, 9, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupBySubjectAndStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProgressRepository(db)

	rows := sqlmock.NewRows([]string{"subject", "status", "count"}).
		AddRow("Mathématiques", string(models.StatusDone), 3).
		AddRow("Physique", string(models.StatusInProgress), 2)
	mock.ExpectQuery("SELECT subject, status, COUNT\\(\\*\\) AS count FROM progress").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	got, err := repo.GroupBySubjectAndStatus(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Mathématiques", got[0].Subject)
	assert.Equal(t, 3, got[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
