package model

import "time"

// TaskRecord is one actionable item as stored in the record backend.
//
// TimerCategory is derived: it is always recomputed from EstimatedMinutes and
// never taken from extraction output. DueDate carries a calendar date only
// (midnight in the service timezone); it is resolved once at creation time.
type TaskRecord struct {
	ID               string     // backend-assigned, empty before persistence
	Task             string     // short description
	Client           string     // categorical label, "General" by default
	Project          string     // categorical label, "General" by default
	EstimatedMinutes int        // non-negative
	TimerCategory    string     // derived from EstimatedMinutes
	EarlyBonus       float64    // gamification weight
	Penalty          float64    // gamification weight
	ActualMinutes    *float64   // nil until completion is recorded
	DueDate          *time.Time // nil when no due date
	Done             bool
}

// HasDueDate reports whether the record carries a due date.
func (t TaskRecord) HasDueDate() bool {
	return t.DueDate != nil
}
