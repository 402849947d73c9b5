package casework

import (
	"context"

	"casedesk/internal/domain/models/casework"
)

// AnnotationRepository defines data access operations for a task's annotation thread
type AnnotationRepository interface {
	// Create appends an annotation
	Create(ctx context.Context, annotation *casework.Annotation) error

	// GetByID retrieves an annotation belonging to taskID
	GetByID(ctx context.Context, taskID, id string) (*casework.Annotation, error)

	// Update writes text and edited flag
	Update(ctx context.Context, annotation *casework.Annotation) error

	// Delete removes an annotation belonging to taskID
	Delete(ctx context.Context, taskID, id string) error

	// ListByTask returns the task's annotations oldest-first, capped by window
	ListByTask(ctx context.Context, taskID string, window casework.Window) ([]casework.Annotation, error)

	// CountByTask returns the full thread length
	CountByTask(ctx context.Context, taskID string) (int, error)
}
