package casework

import (
	"context"

	"casedesk/internal/domain/models/casework"
)

// AttachmentRepository defines data access operations for committed attachments
type AttachmentRepository interface {
	// Create inserts one attachment. Batches are made atomic by the caller's transaction.
	Create(ctx context.Context, attachment *casework.Attachment) error

	// GetByID retrieves an attachment belonging to taskID
	GetByID(ctx context.Context, taskID, id string) (*casework.Attachment, error)

	// Delete removes an attachment belonging to taskID
	Delete(ctx context.Context, taskID, id string) error

	// ListByTask lists a task's attachments in commit order
	ListByTask(ctx context.Context, taskID string) ([]casework.Attachment, error)

	// CountByFolder counts attachments filed into a folder
	CountByFolder(ctx context.Context, folderID string) (int, error)
}
