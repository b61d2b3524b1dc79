package models

import "time"

// Audit action codes. The column is free text; these are the categories the
// services emit.
const (
	AuditActionUpdateProgress = "UPDATE_PROGRESS"
	AuditActionCreateUser     = "CREATE_USER"
	AuditActionLogin          = "LOGIN"
)

// AuditLog represents an append-only audit trail record.
type AuditLog struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Action    string    `db:"action" json:"action"`
	Details   string    `db:"details" json:"details"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AuditLogWithUser joins an audit entry with the acting user's name for
// administrative review.
type AuditLogWithUser struct {
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Username  string    `db:"username" json:"username"`
	Action    string    `db:"action" json:"action"`
	Details   string    `db:"details" json:"details"`
}
