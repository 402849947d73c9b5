package casework

import (
	"context"

	"casedesk/internal/domain/models/casework"
)

// FolderRepository defines data access operations for case folders
type FolderRepository interface {
	// Create creates a new folder; a duplicate name in the case is a ConflictError
	Create(ctx context.Context, folder *casework.Folder) error

	// GetByID retrieves a folder scoped to a case
	GetByID(ctx context.Context, id, caseID string) (*casework.Folder, error)

	// GetByIDOnly retrieves a folder by ID only (no case scoping)
	// Use when authorization is handled separately
	GetByIDOnly(ctx context.Context, id string) (*casework.Folder, error)

	// ListByCase lists a case's folders ordered by name
	ListByCase(ctx context.Context, caseID string) ([]casework.Folder, error)

	// Delete deletes a folder
	Delete(ctx context.Context, id, caseID string) error
}
