package casework

import (
	"context"
	"fmt"

	"casedesk/internal/domain"
	models "casedesk/internal/domain/models/casework"
)

// AddAnnotation appends to the thread and replaces the principal note in the
// same transaction.
func (s *workflowService) AddAnnotation(ctx context.Context, taskID, authorID, text string) (*models.Annotation, error) {
	text, err := validateNoteText(text)
	if err != nil {
		return nil, err
	}
	name, err := s.displayName(ctx, authorID)
	if err != nil {
		return nil, err
	}

	var annotation *models.Annotation
	_, err = s.mutateTask(ctx, authorID, taskID, func(txCtx context.Context, task *models.Task) error {
		annotation = &models.Annotation{
			TaskID:            task.ID,
			AuthorID:          authorID,
			AuthorDisplayName: name,
			Text:              text,
			CreatedAt:         s.now(),
		}
		if err := s.annotationRepo.Create(txCtx, annotation); err != nil {
			return fmt.Errorf("create annotation: %w", err)
		}
		note := text
		task.PrincipalNote = &note
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("annotation added",
		"task_id", taskID,
		"annotation_id", annotation.ID,
		"author_id", authorID,
	)
	return annotation, nil
}

// EditAnnotation rewrites the text of the requester's own annotation. The
// principal note is left as is.
func (s *workflowService) EditAnnotation(ctx context.Context, taskID, annotationID, requesterID, text string) (*models.Annotation, error) {
	text, err := validateNoteText(text)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.CanAccessTask(ctx, requesterID, taskID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(taskID)
	defer unlock()

	var annotation *models.Annotation
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		a, err := s.ownAnnotation(txCtx, taskID, annotationID, requesterID)
		if err != nil {
			return err
		}
		a.Text = text
		a.Edited = true
		if err := s.annotationRepo.Update(txCtx, a); err != nil {
			return err
		}
		annotation = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("annotation edited",
		"task_id", taskID,
		"annotation_id", annotationID,
		"author_id", requesterID,
	)
	return annotation, nil
}

// DeleteAnnotation removes the requester's own annotation
func (s *workflowService) DeleteAnnotation(ctx context.Context, taskID, annotationID, requesterID string) error {
	if err := s.authorizer.CanAccessTask(ctx, requesterID, taskID); err != nil {
		return err
	}

	unlock := s.locks.Lock(taskID)
	defer unlock()

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.ownAnnotation(txCtx, taskID, annotationID, requesterID); err != nil {
			return err
		}
		return s.annotationRepo.Delete(txCtx, taskID, annotationID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("annotation deleted",
		"task_id", taskID,
		"annotation_id", annotationID,
		"author_id", requesterID,
	)
	return nil
}

// ListAnnotations returns the thread oldest-first
func (s *workflowService) ListAnnotations(ctx context.Context, userID, taskID string, window models.Window) ([]models.Annotation, error) {
	if err := s.authorizer.CanAccessTask(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return s.annotationRepo.ListByTask(ctx, taskID, window)
}

// ownAnnotation loads an annotation and checks requesterID wrote it
func (s *workflowService) ownAnnotation(ctx context.Context, taskID, annotationID, requesterID string) (*models.Annotation, error) {
	a, err := s.annotationRepo.GetByID(ctx, taskID, annotationID)
	if err != nil {
		return nil, err
	}
	if a.AuthorID != requesterID {
		return nil, &domain.NotAuthorError{AnnotationID: annotationID, RequesterID: requesterID}
	}
	return a, nil
}
