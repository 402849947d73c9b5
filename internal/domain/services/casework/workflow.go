package casework

import (
	"context"

	models "casedesk/internal/domain/models/casework"
	"casedesk/internal/httputil"
)

// WorkflowService is the controller over tasks, their annotation threads and
// their attachment sets. Every mutation is serialized per task and returns
// the authoritative state.
type WorkflowService interface {
	// CreateTask creates a PENDING task. A non-empty principal note also
	// seeds the annotation thread.
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*models.Task, error)

	// GetTask returns the task aggregate with its annotations windowed
	GetTask(ctx context.Context, userID, taskID string, window models.Window) (*models.TaskDetail, error)

	// ListTasks lists a case's tasks, optionally for one workstream
	ListTasks(ctx context.Context, userID, caseID string, workstream *models.Workstream) ([]models.Task, error)

	// EditTask applies a partial update
	EditTask(ctx context.Context, userID, taskID string, req *EditTaskRequest) (*models.Task, error)

	// DeleteTask removes a task and its annotations and attachments
	DeleteTask(ctx context.Context, userID, taskID string) error

	// CycleStatus advances PENDING -> IMPORTANT -> DONE -> PENDING. A repeated
	// idempotency key returns the task without advancing it again.
	CycleStatus(ctx context.Context, userID, taskID, idempotencyKey string) (*models.Task, error)

	// ToggleHighlight flips the highlighted flag
	ToggleHighlight(ctx context.Context, userID, taskID string) (*models.Task, error)

	// AddAnnotation appends to the thread and makes text the principal note
	AddAnnotation(ctx context.Context, taskID, authorID, text string) (*models.Annotation, error)

	// EditAnnotation changes the text of the requester's own annotation
	EditAnnotation(ctx context.Context, taskID, annotationID, requesterID, text string) (*models.Annotation, error)

	// DeleteAnnotation removes the requester's own annotation
	DeleteAnnotation(ctx context.Context, taskID, annotationID, requesterID string) error

	// ListAnnotations returns the thread oldest-first, capped by window
	ListAnnotations(ctx context.Context, userID, taskID string, window models.Window) ([]models.Annotation, error)

	// StageAttachment validates a locally chosen file and adds it to set.
	// Nothing is persisted.
	StageAttachment(set *models.StagedSet, file StagedFile, displayName string) (*models.StagedAttachment, error)

	// CommitAttachments persists every staged item of set, all or nothing.
	// The set is cleared only on success.
	CommitAttachments(ctx context.Context, req *CommitAttachmentsRequest) ([]models.Attachment, error)

	// ListAttachments lists a task's committed attachments
	ListAttachments(ctx context.Context, userID, taskID string) ([]models.Attachment, error)

	// RemoveAttachment deletes a committed attachment
	RemoveAttachment(ctx context.Context, userID, taskID, attachmentID string) error
}

// CreateTaskRequest represents a task creation request
type CreateTaskRequest struct {
	CaseID        string            `json:"-"`
	UserID        string            `json:"-"`
	Workstream    models.Workstream `json:"workstream"`
	Action        string            `json:"action"`
	AssigneeID    string            `json:"assignee_id"`
	ScheduledDate string            `json:"scheduled_date"`
	ScheduledTime *string           `json:"scheduled_time,omitempty"`
	PrincipalNote *string           `json:"principal_note,omitempty"`
}

// EditTaskRequest represents a partial task update. Absent fields are left
// unchanged; scheduled_time and principal_note may be cleared with null.
type EditTaskRequest struct {
	Action          *string                 `json:"action,omitempty"`
	ScheduledDate   *string                 `json:"scheduled_date,omitempty"`
	ScheduledTime   httputil.OptionalString `json:"scheduled_time"`
	AssigneeID      *string                 `json:"assignee_id,omitempty"`
	PrincipalNote   httputil.OptionalString `json:"principal_note"`
	ExpectedVersion *int64                  `json:"expected_version,omitempty"`
}

// StagedFile is a file picked by the caller
type StagedFile struct {
	Name    string
	Content []byte
}

// CommitAttachmentsRequest carries the caller's staged set to commit
type CommitAttachmentsRequest struct {
	TaskID     string
	UploaderID string
	FolderID   *string
	Staged     *models.StagedSet
}
