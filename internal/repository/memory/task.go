package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"casedesk/internal/domain"
	models "casedesk/internal/domain/models/casework"

	"github.com/google/uuid"
)

// TaskRepository implements the TaskRepository interface over a Store
type TaskRepository struct {
	store *Store
}

// Create inserts a task
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.store.write(ctx, "tasks.create", func(st *state) error {
		if _, ok := st.cases[task.CaseID]; !ok {
			return fmt.Errorf("case %s: %w", task.CaseID, domain.ErrNotFound)
		}
		if task.ID == "" {
			task.ID = uuid.NewString()
		}
		if task.CreatedAt.IsZero() {
			task.CreatedAt = time.Now().UTC()
		}
		if task.UpdatedAt.IsZero() {
			task.UpdatedAt = task.CreatedAt
		}
		if task.Version == 0 {
			task.Version = 1
		}
		st.tasks[task.ID] = *task
		return nil
	})
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	var out *models.Task
	err := r.store.read(ctx, func(st *state) error {
		task, ok := st.tasks[id]
		if !ok {
			return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
		}
		out = &task
		return nil
	})
	return out, err
}

// GetForUpdate retrieves a task. Transactions are already serialized by the
// store, so no extra lock is taken.
func (r *TaskRepository) GetForUpdate(ctx context.Context, id string) (*models.Task, error) {
	return r.GetByID(ctx, id)
}

// ListByCase lists a case's tasks ordered by schedule then creation time
func (r *TaskRepository) ListByCase(ctx context.Context, caseID string, workstream *models.Workstream) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.store.read(ctx, func(st *state) error {
		for _, task := range st.tasks {
			if task.CaseID != caseID {
				continue
			}
			if workstream != nil && task.Workstream != *workstream {
				continue
			}
			tasks = append(tasks, task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.ScheduledDate != b.ScheduledDate {
			return a.ScheduledDate < b.ScheduledDate
		}
		at, bt := timeOrLast(a.ScheduledTime), timeOrLast(b.ScheduledTime)
		if at != bt {
			return at < bt
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return tasks, nil
}

func timeOrLast(t *string) string {
	if t == nil {
		return "~"
	}
	return *t
}

// Update writes every mutable field when the stored version matches
func (r *TaskRepository) Update(ctx context.Context, task *models.Task, expectedVersion int64) error {
	return r.store.write(ctx, "tasks.update", func(st *state) error {
		stored, ok := st.tasks[task.ID]
		if !ok {
			return fmt.Errorf("task %s: %w", task.ID, domain.ErrNotFound)
		}
		if stored.Version != expectedVersion {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("task %s was modified concurrently", task.ID),
				ResourceType: "task",
				ResourceID:   task.ID,
			}
		}
		task.Version = expectedVersion + 1
		task.CaseID = stored.CaseID
		task.Workstream = stored.Workstream
		task.CreatedBy = stored.CreatedBy
		task.CreatedAt = stored.CreatedAt
		st.tasks[task.ID] = *task
		return nil
	})
}

// Delete removes a task with its annotations, attachments and cycle keys
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, "tasks.delete", func(st *state) error {
		if _, ok := st.tasks[id]; !ok {
			return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
		}
		delete(st.tasks, id)
		for aid, a := range st.annotations {
			if a.TaskID == id {
				delete(st.annotations, aid)
			}
		}
		for aid, a := range st.attachments {
			if a.TaskID == id {
				delete(st.attachments, aid)
			}
		}
		for k := range st.cycleKeys {
			if k.taskID == id {
				delete(st.cycleKeys, k)
			}
		}
		return nil
	})
}

// ClaimCycleKey records key for taskID, reporting false on a repeat
func (r *TaskRepository) ClaimCycleKey(ctx context.Context, taskID, key string) (bool, error) {
	claimed := false
	err := r.store.write(ctx, "tasks.claim_cycle_key", func(st *state) error {
		if _, ok := st.tasks[taskID]; !ok {
			return fmt.Errorf("task %s: %w", taskID, domain.ErrNotFound)
		}
		k := cycleKey{taskID: taskID, key: key}
		if st.cycleKeys[k] {
			return nil
		}
		st.cycleKeys[k] = true
		claimed = true
		return nil
	})
	return claimed, err
}
