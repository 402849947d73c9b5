package casework

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"casedesk/internal/domain"
	models "casedesk/internal/domain/models/casework"
	repo "casedesk/internal/domain/repositories/casework"
	"casedesk/internal/domain/services"
	svc "casedesk/internal/domain/services/casework"
)

type folderService struct {
	folderRepo     repo.FolderRepository
	attachmentRepo repo.AttachmentRepository
	authorizer     services.CaseAuthorizer
	logger         *slog.Logger
}

// NewFolderService creates a new folder registry service
func NewFolderService(
	folderRepo repo.FolderRepository,
	attachmentRepo repo.AttachmentRepository,
	authorizer services.CaseAuthorizer,
	logger *slog.Logger,
) svc.FolderService {
	return &folderService{
		folderRepo:     folderRepo,
		attachmentRepo: attachmentRepo,
		authorizer:     authorizer,
		logger:         logger,
	}
}

// CreateFolder creates a folder; names are unique per case
func (s *folderService) CreateFolder(ctx context.Context, req *svc.CreateFolderRequest) (*models.Folder, error) {
	if err := validateCreateFolder(req); err != nil {
		return nil, err
	}
	if err := s.authorizer.CanAccessCase(ctx, req.UserID, req.CaseID); err != nil {
		return nil, err
	}

	folder := &models.Folder{
		CaseID:    req.CaseID,
		Name:      req.Name,
		Color:     req.Color,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"folder_id", folder.ID,
		"case_id", folder.CaseID,
		"name", folder.Name,
		"color", folder.Color,
	)
	return folder, nil
}

// ListFolders lists a case's folders
func (s *folderService) ListFolders(ctx context.Context, userID, caseID string) ([]models.Folder, error) {
	if err := s.authorizer.CanAccessCase(ctx, userID, caseID); err != nil {
		return nil, err
	}
	return s.folderRepo.ListByCase(ctx, caseID)
}

// DeleteFolder deletes a folder. A folder still holding attachments is
// rejected rather than unfiling them.
func (s *folderService) DeleteFolder(ctx context.Context, userID, folderID string) error {
	if err := s.authorizer.CanAccessFolder(ctx, userID, folderID); err != nil {
		return err
	}

	folder, err := s.folderRepo.GetByIDOnly(ctx, folderID)
	if err != nil {
		return err
	}

	refs, err := s.attachmentRepo.CountByFolder(ctx, folderID)
	if err != nil {
		return fmt.Errorf("count folder references: %w", err)
	}
	if refs > 0 {
		return &domain.ReferentialConflictError{
			ResourceType: "folder",
			ResourceID:   folderID,
			References:   refs,
		}
	}

	// The store maps a concurrent reference to ReferentialConflictError too.
	if err := s.folderRepo.Delete(ctx, folderID, folder.CaseID); err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"folder_id", folderID,
		"case_id", folder.CaseID,
	)
	return nil
}
