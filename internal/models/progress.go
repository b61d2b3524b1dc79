package models

import "time"

// Status is the completion state of one (subject, chapter, component) triple.
type Status string

const (
	StatusNotDone    Status = "Non fait"
	StatusInProgress Status = "En cours"
	StatusDone       Status = "Fait"
)

// Valid reports whether the status is one of the recognised variants.
func (s Status) Valid() bool {
	switch s {
	case StatusNotDone, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Component is one of the three fixed work types per chapter: lecture,
// directed exercises, or lab work.
type Component string

const (
	ComponentCours Component = "Cours"
	ComponentTD    Component = "TD"
	ComponentTP    Component = "TP"
)

// Components lists all components in display order.
var Components = []Component{ComponentCours, ComponentTD, ComponentTP}

// Valid reports whether the component is one of the recognised variants.
func (c Component) Valid() bool {
	switch c {
	case ComponentCours, ComponentTD, ComponentTP:
		return true
	}
	return false
}

// ProgressEntry is one stored status row. A row exists only for triples the
// user has actively set; absence is equivalent to StatusNotDone.
type ProgressEntry struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Subject   string    `db:"subject" json:"subject"`
	Chapter   string    `db:"chapter" json:"chapter"`
	Component Component `db:"component" json:"component"`
	Status    Status    `db:"status" json:"status"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TripleKey identifies one trackable unit of work.
type TripleKey struct {
	Subject   string    `json:"subject"`
	Chapter   string    `json:"chapter"`
	Component Component `json:"component"`
}

// SubjectStatusCount is one row of the per-subject, per-status aggregation
// driving the dashboard charts. Groups with no entries are absent.
type SubjectStatusCount struct {
	Subject string `db:"subject" json:"subject"`
	Status  Status `db:"status" json:"status"`
	Count   int    `db:"count" json:"count"`
}
