package memory

import (
	"context"
	"fmt"

	"casedesk/internal/domain"
	models "casedesk/internal/domain/models/casework"

	"github.com/google/uuid"
)

// AnnotationRepository implements the AnnotationRepository interface over a Store
type AnnotationRepository struct {
	store *Store
}

// Create appends an annotation
func (r *AnnotationRepository) Create(ctx context.Context, a *models.Annotation) error {
	return r.store.write(ctx, "annotations.create", func(st *state) error {
		if _, ok := st.tasks[a.TaskID]; !ok {
			return fmt.Errorf("task %s: %w", a.TaskID, domain.ErrNotFound)
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		st.annotations[a.ID] = *a
		return nil
	})
}

// GetByID retrieves an annotation of taskID
func (r *AnnotationRepository) GetByID(ctx context.Context, taskID, id string) (*models.Annotation, error) {
	var out *models.Annotation
	err := r.store.read(ctx, func(st *state) error {
		a, ok := st.annotations[id]
		if !ok || a.TaskID != taskID {
			return fmt.Errorf("annotation %s: %w", id, domain.ErrNotFound)
		}
		out = &a
		return nil
	})
	return out, err
}

// Update writes text and the edited flag
func (r *AnnotationRepository) Update(ctx context.Context, a *models.Annotation) error {
	return r.store.write(ctx, "annotations.update", func(st *state) error {
		stored, ok := st.annotations[a.ID]
		if !ok || stored.TaskID != a.TaskID {
			return fmt.Errorf("annotation %s: %w", a.ID, domain.ErrNotFound)
		}
		stored.Text = a.Text
		stored.Edited = a.Edited
		st.annotations[a.ID] = stored
		return nil
	})
}

// Delete removes an annotation of taskID
func (r *AnnotationRepository) Delete(ctx context.Context, taskID, id string) error {
	return r.store.write(ctx, "annotations.delete", func(st *state) error {
		a, ok := st.annotations[id]
		if !ok || a.TaskID != taskID {
			return fmt.Errorf("annotation %s: %w", id, domain.ErrNotFound)
		}
		delete(st.annotations, id)
		return nil
	})
}

// ListByTask returns the thread oldest-first, capped by window
func (r *AnnotationRepository) ListByTask(ctx context.Context, taskID string, window models.Window) ([]models.Annotation, error) {
	annotations := []models.Annotation{}
	err := r.store.read(ctx, func(st *state) error {
		for _, a := range st.annotations {
			if a.TaskID == taskID {
				annotations = append(annotations, a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return window.Apply(annotations), nil
}

// CountByTask returns the full thread length
func (r *AnnotationRepository) CountByTask(ctx context.Context, taskID string) (int, error) {
	count := 0
	err := r.store.read(ctx, func(st *state) error {
		for _, a := range st.annotations {
			if a.TaskID == taskID {
				count++
			}
		}
		return nil
	})
	return count, err
}
