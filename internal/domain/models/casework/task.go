package casework

import (
	"time"
)

// Workstream partitions a case's task list. Fixed at creation.
type Workstream string

const (
	WorkstreamProcedural      Workstream = "PROCEDURAL"
	WorkstreamExtraProcedural Workstream = "EXTRA_PROCEDURAL"
	WorkstreamAudit           Workstream = "AUDIT"
)

// Workstreams lists every workstream in display order.
var Workstreams = []Workstream{
	WorkstreamProcedural,
	WorkstreamExtraProcedural,
	WorkstreamAudit,
}

// Valid reports whether w is one of the three workstreams.
func (w Workstream) Valid() bool {
	switch w {
	case WorkstreamProcedural, WorkstreamExtraProcedural, WorkstreamAudit:
		return true
	}
	return false
}

// Status is the cyclic task status.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusImportant Status = "IMPORTANT"
	StatusDone      Status = "DONE"
)

// Next returns the status that follows s in the cycle
// PENDING -> IMPORTANT -> DONE -> PENDING.
// An unknown status restarts the cycle at PENDING.
func (s Status) Next() Status {
	switch s {
	case StatusPending:
		return StatusImportant
	case StatusImportant:
		return StatusDone
	case StatusDone:
		return StatusPending
	default:
		return StatusPending
	}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusImportant, StatusDone:
		return true
	}
	return false
}

// Task is one work item inside a case.
type Task struct {
	ID            string     `json:"id" db:"id"`
	CaseID        string     `json:"case_id" db:"case_id"`
	Workstream    Workstream `json:"workstream" db:"workstream"`
	Status        Status     `json:"status" db:"status"`
	Action        string     `json:"action" db:"action"`
	ScheduledDate string     `json:"scheduled_date" db:"scheduled_date"`           // YYYY-MM-DD
	ScheduledTime *string    `json:"scheduled_time,omitempty" db:"scheduled_time"` // HH:MM, NULL = all day
	AssigneeID    string     `json:"assignee_id" db:"assignee_id"`
	PrincipalNote *string    `json:"principal_note,omitempty" db:"principal_note"`
	Highlighted   bool       `json:"highlighted" db:"highlighted"`
	CreatedBy     string     `json:"created_by" db:"created_by"`
	Version       int64      `json:"version" db:"version"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// TaskDetail is the task aggregate returned by reads.
type TaskDetail struct {
	Task
	Annotations     []Annotation `json:"annotations"`
	AnnotationCount int          `json:"annotation_count"`
	Attachments     []Attachment `json:"attachments"`
}
