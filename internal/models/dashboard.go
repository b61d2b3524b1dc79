package models

// DashboardSummary aggregates the per-user numbers the dashboard shows.
type DashboardSummary struct {
	ActiveSubjects int                  `json:"active_subjects"`
	CompletedTasks int                  `json:"completed_tasks"`
	CompletionRate float64              `json:"completion_rate"`
	BySubject      []SubjectStatusCount `json:"by_subject"`
	RecentActivity []AuditLog           `json:"recent_activity"`
}
