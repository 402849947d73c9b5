package casework

import (
	"context"

	"casedesk/internal/domain/models/casework"
)

// TaskRepository defines data access operations for tasks
type TaskRepository interface {
	// Create inserts a task. ID, CreatedAt and UpdatedAt are filled in when empty.
	Create(ctx context.Context, task *casework.Task) error

	// GetByID retrieves a task by ID
	GetByID(ctx context.Context, id string) (*casework.Task, error)

	// GetForUpdate retrieves a task and locks its row until the surrounding
	// transaction ends. Outside a transaction it behaves like GetByID.
	GetForUpdate(ctx context.Context, id string) (*casework.Task, error)

	// ListByCase lists a case's tasks, optionally filtered by workstream,
	// ordered by schedule then creation time.
	ListByCase(ctx context.Context, caseID string, workstream *casework.Workstream) ([]casework.Task, error)

	// Update writes every mutable field and bumps Version. It fails with
	// domain.ErrConflict when the stored version differs from expectedVersion.
	Update(ctx context.Context, task *casework.Task, expectedVersion int64) error

	// Delete removes a task; annotations, attachments and cycle keys cascade.
	Delete(ctx context.Context, id string) error

	// ClaimCycleKey records an idempotency key for a status cycle. It returns
	// false when the key was already recorded for the task.
	ClaimCycleKey(ctx context.Context, taskID, key string) (bool, error)
}
