package memory

import (
	"context"
	"fmt"
	"sort"

	"casedesk/internal/domain"
	models "casedesk/internal/domain/models/casework"

	"github.com/google/uuid"
)

// AttachmentRepository implements the AttachmentRepository interface over a Store
type AttachmentRepository struct {
	store *Store
}

// Create inserts one attachment
func (r *AttachmentRepository) Create(ctx context.Context, a *models.Attachment) error {
	return r.store.write(ctx, "attachments.create", func(st *state) error {
		if _, ok := st.tasks[a.TaskID]; !ok {
			return fmt.Errorf("task %s: %w", a.TaskID, domain.ErrNotFound)
		}
		if a.FolderID != nil {
			if _, ok := st.folders[*a.FolderID]; !ok {
				return fmt.Errorf("folder %s: %w", *a.FolderID, domain.ErrNotFound)
			}
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		st.attachments[a.ID] = *a
		return nil
	})
}

// GetByID retrieves an attachment of taskID
func (r *AttachmentRepository) GetByID(ctx context.Context, taskID, id string) (*models.Attachment, error) {
	var out *models.Attachment
	err := r.store.read(ctx, func(st *state) error {
		a, ok := st.attachments[id]
		if !ok || a.TaskID != taskID {
			return fmt.Errorf("attachment %s: %w", id, domain.ErrNotFound)
		}
		out = &a
		return nil
	})
	return out, err
}

// Delete removes an attachment of taskID
func (r *AttachmentRepository) Delete(ctx context.Context, taskID, id string) error {
	return r.store.write(ctx, "attachments.delete", func(st *state) error {
		a, ok := st.attachments[id]
		if !ok || a.TaskID != taskID {
			return fmt.Errorf("attachment %s: %w", id, domain.ErrNotFound)
		}
		delete(st.attachments, id)
		return nil
	})
}

// ListByTask lists a task's attachments in commit order
func (r *AttachmentRepository) ListByTask(ctx context.Context, taskID string) ([]models.Attachment, error) {
	attachments := []models.Attachment{}
	err := r.store.read(ctx, func(st *state) error {
		for _, a := range st.attachments {
			if a.TaskID == taskID {
				attachments = append(attachments, a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(attachments, func(i, j int) bool {
		a, b := attachments[i], attachments[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return attachments, nil
}

// CountByFolder counts attachments filed into folderID
func (r *AttachmentRepository) CountByFolder(ctx context.Context, folderID string) (int, error) {
	count := 0
	err := r.store.read(ctx, func(st *state) error {
		count = countFolderRefs(st, folderID)
		return nil
	})
	return count, err
}

func countFolderRefs(st *state, folderID string) int {
	n := 0
	for _, a := range st.attachments {
		if a.FolderID != nil && *a.FolderID == folderID {
			n++
		}
	}
	return n
}
