package services

import "context"

// CaseAuthorizer checks if a user can access case resources.
// Current implementation: case membership.
//
// Services call the authorizer before operating on resources.
// This separates authorization (who can access) from identification (which resource).
type CaseAuthorizer interface {
	// CanAccessCase checks if user can access a case
	CanAccessCase(ctx context.Context, userID, caseID string) error

	// CanAccessTask checks if user can access a task (via its case)
	CanAccessTask(ctx context.Context, userID, taskID string) error

	// CanAccessFolder checks if user can access a folder (via its case)
	CanAccessFolder(ctx context.Context, userID, folderID string) error
}
