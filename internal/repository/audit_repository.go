package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edtech-progress-api/internal/models"
)

// AuditRepository provides database access for the append-only audit trail.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new instance of AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends one audit entry. The timestamp is assigned here, at write
// time, so the trail orders reliably.
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	entry.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO audit_logs (user_id, action, details, created_at) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, entry.UserID, entry.Action, entry.Details, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create audit log id: %w", err)
	}
	entry.ID = id
	return nil
}

// RecentForUser returns the user's latest entries, most recent first.
func (r *AuditRepository) RecentForUser(ctx context.Context, userID int64, limit int) ([]models.AuditLog, error) {
	const query = `SELECT id, user_id, action, details, created_at FROM audit_logs WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`
	var entries []models.AuditLog
	if err := r.db.SelectContext(ctx, &entries, query, userID, limit); err != nil {
		return nil, fmt.Errorf("recent audit logs for user: %w", err)
	}
	return entries, nil
}

// AllWithUsernames returns the full trail joined with usernames, most recent
// first, for administrative review.
func (r *AuditRepository) AllWithUsernames(ctx context.Context) ([]models.AuditLogWithUser, error) {
	const query = `SELECT audit_logs.created_at, users.username, audit_logs.action, audit_logs.details
FROM audit_logs
JOIN users ON audit_logs.user_id = users.id
ORDER BY audit_logs.created_at DESC, audit_logs.id DESC`
	var entries []models.AuditLogWithUser
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list audit logs with usernames: %w", err)
	}
	return entries, nil
}
