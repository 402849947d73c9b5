package casework

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"casedesk/internal/config"
	"casedesk/internal/domain"
	models "casedesk/internal/domain/models/casework"
	svc "casedesk/internal/domain/services/casework"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// StageAttachment records a locally chosen file in set. Nothing is persisted.
func (s *workflowService) StageAttachment(set *models.StagedSet, file svc.StagedFile, displayName string) (*models.StagedAttachment, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: staged set is required", domain.ErrValidation)
	}
	original := path.Base(strings.ReplaceAll(strings.TrimSpace(file.Name), "\\", "/"))
	if original == "" || original == "." || original == "/" {
		return nil, fmt.Errorf("%w: file name is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(original) > config.MaxAttachmentNameLength {
		return nil, fmt.Errorf("%w: file name exceeds %d characters", domain.ErrValidation, config.MaxAttachmentNameLength)
	}
	label := strings.TrimSpace(displayName)
	if utf8.RuneCountInString(label) > config.MaxAttachmentNameLength {
		return nil, fmt.Errorf("%w: display name exceeds %d characters", domain.ErrValidation, config.MaxAttachmentNameLength)
	}
	size := int64(len(file.Content))
	if size > s.maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", domain.ErrValidation, original, size, s.maxBytes)
	}
	if set.Len() >= config.MaxAttachmentsPerCommit {
		return nil, fmt.Errorf("%w: at most %d attachments per commit", domain.ErrValidation, config.MaxAttachmentsPerCommit)
	}

	item := models.StagedAttachment{
		LocalID:      uuid.NewString(),
		DisplayName:  label,
		OriginalName: original,
		SizeBytes:    size,
		MimeType:     mimetype.Detect(file.Content).String(),
		Content:      file.Content,
	}
	if err := set.Add(item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CommitAttachments writes every staged item to the content store and then
// inserts all rows in one transaction. On failure, written bytes are
// discarded and the set is left as it was.
func (s *workflowService) CommitAttachments(ctx context.Context, req *svc.CommitAttachmentsRequest) ([]models.Attachment, error) {
	if req == nil || req.Staged == nil {
		return nil, fmt.Errorf("%w: staged set is required", domain.ErrValidation)
	}
	set := req.Staged
	if set.TaskID != req.TaskID {
		return nil, fmt.Errorf("%w: staged set belongs to task %s", domain.ErrValidation, set.TaskID)
	}
	items := set.Items()
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: nothing staged", domain.ErrValidation)
	}
	if len(items) > config.MaxAttachmentsPerCommit {
		return nil, fmt.Errorf("%w: at most %d attachments per commit", domain.ErrValidation, config.MaxAttachmentsPerCommit)
	}
	folderID := req.FolderID
	if folderID != nil && strings.TrimSpace(*folderID) == "" {
		folderID = nil
	}

	if err := s.authorizer.CanAccessTask(ctx, req.UploaderID, req.TaskID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(req.TaskID)
	defer unlock()

	task, err := s.taskRepo.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateFolder(ctx, folderID, task.CaseID); err != nil {
		return nil, err
	}

	var written []string
	discard := func() {
		for _, loc := range written {
			if derr := s.content.Discard(ctx, loc); derr != nil {
				s.logger.Warn("failed to discard attachment content",
					"task_id", req.TaskID,
					"location", loc,
					"error", derr,
				)
			}
		}
	}

	for _, item := range items {
		hint := path.Join(task.CaseID, task.ID, item.LocalID+"-"+item.OriginalName)
		loc, err := s.content.Put(ctx, hint, bytes.NewReader(item.Content))
		if err != nil {
			discard()
			var unavailable *domain.StoreUnavailableError
			if errors.As(err, &unavailable) {
				return nil, err
			}
			return nil, &domain.StoreUnavailableError{Op: "write attachment content", Err: err}
		}
		written = append(written, loc)
	}

	committed := make([]models.Attachment, 0, len(items))
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.taskRepo.GetForUpdate(txCtx, req.TaskID); err != nil {
			return err
		}
		now := s.now()
		for i, item := range items {
			a := models.Attachment{
				TaskID:          req.TaskID,
				DisplayName:     item.DisplayName,
				OriginalName:    item.OriginalName,
				SizeBytes:       item.SizeBytes,
				MimeType:        item.MimeType,
				FolderID:        folderID,
				UploaderID:      req.UploaderID,
				CreatedAt:       now,
				ContentLocation: written[i],
			}
			if err := s.attachmentRepo.Create(txCtx, &a); err != nil {
				return fmt.Errorf("commit attachment %d of %d: %w", i+1, len(items), err)
			}
			committed = append(committed, a)
		}
		return nil
	})
	if err != nil {
		discard()
		return nil, err
	}

	set.Clear()

	s.logger.Info("attachments committed",
		"task_id", req.TaskID,
		"count", len(committed),
		"folder_id", folderID,
		"uploader_id", req.UploaderID,
	)
	return committed, nil
}

// ListAttachments lists a task's committed attachments
func (s *workflowService) ListAttachments(ctx context.Context, userID, taskID string) ([]models.Attachment, error) {
	if err := s.authorizer.CanAccessTask(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return s.attachmentRepo.ListByTask(ctx, taskID)
}

// RemoveAttachment deletes a committed attachment. Any caller with access to
// the case may remove it.
func (s *workflowService) RemoveAttachment(ctx context.Context, userID, taskID, attachmentID string) error {
	if err := s.authorizer.CanAccessTask(ctx, userID, taskID); err != nil {
		return err
	}

	unlock := s.locks.Lock(taskID)
	defer unlock()

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.attachmentRepo.GetByID(txCtx, taskID, attachmentID); err != nil {
			return err
		}
		return s.attachmentRepo.Delete(txCtx, taskID, attachmentID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("attachment removed",
		"task_id", taskID,
		"attachment_id", attachmentID,
		"user_id", userID,
	)
	return nil
}
