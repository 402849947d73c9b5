package auth

import (
	"context"
	"fmt"

	"casedesk/internal/domain"
	repo "casedesk/internal/domain/repositories/casework"
)

// MembershipAuthorizer implements CaseAuthorizer using case membership.
// A user can access a resource if they are a member of the case that holds it.
type MembershipAuthorizer struct {
	caseRepo   repo.CaseRepository
	taskRepo   repo.TaskRepository
	folderRepo repo.FolderRepository
}

// NewMembershipAuthorizer creates a new membership-based authorizer
func NewMembershipAuthorizer(
	caseRepo repo.CaseRepository,
	taskRepo repo.TaskRepository,
	folderRepo repo.FolderRepository,
) *MembershipAuthorizer {
	return &MembershipAuthorizer{
		caseRepo:   caseRepo,
		taskRepo:   taskRepo,
		folderRepo: folderRepo,
	}
}

// CanAccessCase checks the case exists and the user is a member
func (a *MembershipAuthorizer) CanAccessCase(ctx context.Context, userID, caseID string) error {
	if userID == "" {
		return fmt.Errorf("no user in request: %w", domain.ErrUnauthorized)
	}
	if _, err := a.caseRepo.GetByID(ctx, caseID); err != nil {
		return fmt.Errorf("get case for auth: %w", err)
	}

	member, err := a.caseRepo.IsMember(ctx, caseID, userID)
	if err != nil {
		return fmt.Errorf("check case membership: %w", err)
	}
	if !member {
		return fmt.Errorf("access denied to case %s: %w", caseID, domain.ErrForbidden)
	}
	return nil
}

// CanAccessTask checks if user can access a task (via its case)
func (a *MembershipAuthorizer) CanAccessTask(ctx context.Context, userID, taskID string) error {
	task, err := a.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("get task for auth: %w", err)
	}
	return a.CanAccessCase(ctx, userID, task.CaseID)
}

// CanAccessFolder checks if user can access a folder (via its case)
func (a *MembershipAuthorizer) CanAccessFolder(ctx context.Context, userID, folderID string) error {
	folder, err := a.folderRepo.GetByIDOnly(ctx, folderID)
	if err != nil {
		return fmt.Errorf("get folder for auth: %w", err)
	}
	return a.CanAccessCase(ctx, userID, folder.CaseID)
}
