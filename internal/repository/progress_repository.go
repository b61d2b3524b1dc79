package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edtech-progress-api/internal/models"
)

// ProgressRepository provides database access for per-user completion rows.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a new instance of ProgressRepository.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// FindStatus returns the stored status for a triple, or sql.ErrNoRows when
// the user never set one.
func (r *ProgressRepository) FindStatus(ctx context.Context, userID int64, subject, chapter string, component models.Component) (models.Status, error) {
	const query = `SELECT status FROM progress WHERE user_id = ? AND subject = ? AND chapter = ? AND component = ? LIMIT 1`
	var status models.Status
	if err := r.db.GetContext(ctx, &status, query, userID, subject, chapter, component); err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", fmt.Errorf("find progress status: %w", err)
	}
	return status, nil
}

// Upsert inserts the row for a triple or updates its status and timestamp in
// place. The unique index on (user_id, subject, chapter, component) makes
// this a single atomic statement; concurrent writers to the same key cannot
// produce duplicate rows.
func (r *ProgressRepository) Upsert(ctx context.Context, userID int64, subject, chapter string, component models.Component, status models.Status) error {
	const query = `INSERT INTO progress (user_id, subject, chapter, component, status, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, subject, chapter, component)
DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, userID, subject, chapter, component, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

// CountByStatus returns how many rows the user has in the given status.
func (r *ProgressRepository) CountByStatus(ctx context.Context, userID int64, status models.Status) (int, error) {
	const query = `SELECT COUNT(*) FROM progress WHERE user_id = ? AND status = ?`
	var total int
	if err := r.db.GetContext(ctx, &total, query, userID, status); err != nil {
		return 0, fmt.Errorf("count progress by status: %w", err)
	}
	return total, nil
}

// GroupBySubjectAndStatus aggregates the user's rows per (subject, status).
// Groups with zero entries are simply absent.
func (r *ProgressRepository) GroupBySubjectAndStatus(ctx context.Context, userID int64) ([]models.SubjectStatusCount, error) {
	const query = `SELECT subject, status, COUNT(*) AS count FROM progress WHERE user_id = ? GROUP BY subject, status ORDER BY subject, status`
	var rows []models.SubjectStatusCount
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("group progress by subject and status: %w", err)
	}
	return rows, nil
}

// ListByUser returns every stored row for a user, ordered for export.
func (r *ProgressRepository) ListByUser(ctx context.Context, userID int64) ([]models.ProgressEntry, error) {
	const query = `SELECT id, user_id, subject, chapter, component, status, updated_at FROM progress WHERE user_id = ? ORDER BY subject, chapter, component`
	var entries []models.ProgressEntry
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("list progress by user: %w", err)
	}
	return entries, nil
}
