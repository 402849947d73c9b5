package casework

import (
	"context"
	"io"

	models "casedesk/internal/domain/models/casework"
)

// FolderService handles the per-case folder registry
type FolderService interface {
	// CreateFolder creates a colour-tagged folder in a case
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// ListFolders lists a case's folders
	ListFolders(ctx context.Context, userID, caseID string) ([]models.Folder, error)

	// DeleteFolder deletes a folder no attachment references
	DeleteFolder(ctx context.Context, userID, folderID string) error
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	CaseID string       `json:"-"`
	UserID string       `json:"-"`
	Name   string       `json:"name"`
	Color  models.Color `json:"color"`
}

// StaffDirectory resolves identities eligible as task assignees
type StaffDirectory interface {
	// ResolveStaff returns the identity, or ErrNotFound for unknown ids,
	// clients, the owner account and inactive accounts
	ResolveStaff(ctx context.Context, id string) (*models.StaffIdentity, error)

	// ListAssignable lists every eligible identity
	ListAssignable(ctx context.Context) ([]models.StaffIdentity, error)
}

// ContentStore keeps attachment bytes. Locations are opaque to callers.
type ContentStore interface {
	// Put stores r under a location derived from hint and returns it
	Put(ctx context.Context, hint string, r io.Reader) (string, error)

	// Discard removes bytes written by a commit that did not complete
	Discard(ctx context.Context, location string) error
}
