package casework

import (
	"context"
	"fmt"
	"time"

	"casedesk/internal/domain"
	models "casedesk/internal/domain/models/casework"
	repo "casedesk/internal/domain/repositories/casework"
	"casedesk/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, case_id, workstream, status, action,
	to_char(scheduled_date, 'YYYY-MM-DD'), scheduled_time, assignee_id,
	principal_note, highlighted, created_by, version, created_at, updated_at`

// PostgresTaskRepository implements the TaskRepository interface
type PostgresTaskRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(config *postgres.RepositoryConfig) repo.TaskRepository {
	return &PostgresTaskRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a task
func (r *PostgresTaskRepository) Create(ctx context.Context, task *models.Task) error {
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = task.CreatedAt
	}
	if task.Version == 0 {
		task.Version = 1
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (case_id, workstream, status, action, scheduled_date, scheduled_time,
			assignee_id, principal_note, highlighted, created_by, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, r.tables.Tasks)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		task.CaseID,
		task.Workstream,
		task.Status,
		task.Action,
		task.ScheduledDate,
		task.ScheduledTime,
		task.AssigneeID,
		task.PrincipalNote,
		task.Highlighted,
		task.CreatedBy,
		task.Version,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("case %s: %w", task.CaseID, domain.ErrNotFound)
		}
		return postgres.StoreError("create task", err)
	}

	return nil
}

// GetByID retrieves a task by ID
func (r *PostgresTaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, taskColumns, r.tables.Tasks)
	return r.getOne(ctx, query, id)
}

// GetForUpdate retrieves a task and holds its row lock for the surrounding transaction
func (r *PostgresTaskRepository) GetForUpdate(ctx context.Context, id string) (*models.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 FOR UPDATE`, taskColumns, r.tables.Tasks)
	return r.getOne(ctx, query, id)
}

func (r *PostgresTaskRepository) getOne(ctx context.Context, query, id string) (*models.Task, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	task, err := scanTask(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
		}
		if isInvalidUUID(err) {
			return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
		}
		return nil, postgres.StoreError("get task", err)
	}
	return task, nil
}

// ListByCase lists a case's tasks, optionally for one workstream
func (r *PostgresTaskRepository) ListByCase(ctx context.Context, caseID string, workstream *models.Workstream) ([]models.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE case_id = $1 AND ($2::text IS NULL OR workstream = $2)
		ORDER BY scheduled_date ASC, scheduled_time ASC NULLS LAST, created_at ASC, id ASC
	`, taskColumns, r.tables.Tasks)

	var ws *string
	if workstream != nil {
		s := string(*workstream)
		ws = &s
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, caseID, ws)
	if err != nil {
		return nil, postgres.StoreError("list tasks", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, postgres.StoreError("scan task", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.StoreError("iterate tasks", err)
	}

	return tasks, nil
}

// Update writes every mutable field when the stored version matches
func (r *PostgresTaskRepository) Update(ctx context.Context, task *models.Task, expectedVersion int64) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, action = $2, scheduled_date = $3::date, scheduled_time = $4,
			assignee_id = $5, principal_note = $6, highlighted = $7,
			updated_at = $8, version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING version
	`, r.tables.Tasks)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		task.Status,
		task.Action,
		task.ScheduledDate,
		task.ScheduledTime,
		task.AssigneeID,
		task.PrincipalNote,
		task.Highlighted,
		task.UpdatedAt,
		task.ID,
		expectedVersion,
	).Scan(&task.Version)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("task %s was modified concurrently", task.ID),
				ResourceType: "task",
				ResourceID:   task.ID,
			}
		}
		return postgres.StoreError("update task", err)
	}

	return nil
}

// Delete removes a task
func (r *PostgresTaskRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Tasks)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return postgres.StoreError("delete task", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ClaimCycleKey records key for taskID, reporting false on a repeat
func (r *PostgresTaskRepository) ClaimCycleKey(ctx context.Context, taskID, key string) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (task_id, key) VALUES ($1, $2)
		ON CONFLICT (task_id, key) DO NOTHING
	`, r.tables.CycleKeys)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, taskID, key)
	if err != nil {
		return false, postgres.StoreError("claim cycle key", err)
	}
	return result.RowsAffected() == 1, nil
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var task models.Task
	err := row.Scan(
		&task.ID,
		&task.CaseID,
		&task.Workstream,
		&task.Status,
		&task.Action,
		&task.ScheduledDate,
		&task.ScheduledTime,
		&task.AssigneeID,
		&task.PrincipalNote,
		&task.Highlighted,
		&task.CreatedBy,
		&task.Version,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}
