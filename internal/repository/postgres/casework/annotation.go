package casework

import (
	"context"
	"fmt"

	"casedesk/internal/domain"
	models "casedesk/internal/domain/models/casework"
	repo "casedesk/internal/domain/repositories/casework"
	"casedesk/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAnnotationRepository implements the AnnotationRepository interface
type PostgresAnnotationRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewAnnotationRepository creates a new annotation repository
func NewAnnotationRepository(config *postgres.RepositoryConfig) repo.AnnotationRepository {
	return &PostgresAnnotationRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create appends an annotation
func (r *PostgresAnnotationRepository) Create(ctx context.Context, a *models.Annotation) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (task_id, author_id, author_display_name, text, edited, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, r.tables.Annotations)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		a.TaskID,
		a.AuthorID,
		a.AuthorDisplayName,
		a.Text,
		a.Edited,
		a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("task %s: %w", a.TaskID, domain.ErrNotFound)
		}
		return postgres.StoreError("create annotation", err)
	}

	return nil
}

// GetByID retrieves an annotation of taskID
func (r *PostgresAnnotationRepository) GetByID(ctx context.Context, taskID, id string) (*models.Annotation, error) {
	query := fmt.Sprintf(`
		SELECT id, task_id, author_id, author_display_name, text, created_at, edited
		FROM %s
		WHERE id = $1 AND task_id = $2
	`, r.tables.Annotations)

	var a models.Annotation
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, taskID).Scan(
		&a.ID,
		&a.TaskID,
		&a.AuthorID,
		&a.AuthorDisplayName,
		&a.Text,
		&a.CreatedAt,
		&a.Edited,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) || isInvalidUUID(err) {
			return nil, fmt.Errorf("annotation %s: %w", id, domain.ErrNotFound)
		}
		return nil, postgres.StoreError("get annotation", err)
	}

	return &a, nil
}

// Update writes text and the edited flag
func (r *PostgresAnnotationRepository) Update(ctx context.Context, a *models.Annotation) error {
	query := fmt.Sprintf(`
		UPDATE %s SET text = $1, edited = $2
		WHERE id = $3 AND task_id = $4
	`, r.tables.Annotations)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, a.Text, a.Edited, a.ID, a.TaskID)
	if err != nil {
		return postgres.StoreError("update annotation", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("annotation %s: %w", a.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes an annotation of taskID
func (r *PostgresAnnotationRepository) Delete(ctx context.Context, taskID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND task_id = $2`, r.tables.Annotations)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, taskID)
	if err != nil {
		return postgres.StoreError("delete annotation", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("annotation %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByTask returns the thread oldest-first. A Latest window selects the
// newest rows and reverses them back into chronological order.
func (r *PostgresAnnotationRepository) ListByTask(ctx context.Context, taskID string, window models.Window) ([]models.Annotation, error) {
	var query string
	var args []interface{}

	if window.IsAll() {
		query = fmt.Sprintf(`
			SELECT id, task_id, author_id, author_display_name, text, created_at, edited
			FROM %s
			WHERE task_id = $1
			ORDER BY created_at ASC, id ASC
		`, r.tables.Annotations)
		args = append(args, taskID)
	} else {
		query = fmt.Sprintf(`
			SELECT id, task_id, author_id, author_display_name, text, created_at, edited
			FROM (
				SELECT * FROM %s
				WHERE task_id = $1
				ORDER BY created_at DESC, id DESC
				LIMIT $2
			) latest
			ORDER BY created_at ASC, id ASC
		`, r.tables.Annotations)
		args = append(args, taskID, window.Latest)
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.StoreError("list annotations", err)
	}
	defer rows.Close()

	annotations := []models.Annotation{}
	for rows.Next() {
		var a models.Annotation
		if err := rows.Scan(
			&a.ID,
			&a.TaskID,
			&a.AuthorID,
			&a.AuthorDisplayName,
			&a.Text,
			&a.CreatedAt,
			&a.Edited,
		); err != nil {
			return nil, postgres.StoreError("scan annotation", err)
		}
		annotations = append(annotations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.StoreError("iterate annotations", err)
	}

	return annotations, nil
}

// CountByTask returns the full thread length
func (r *PostgresAnnotationRepository) CountByTask(ctx context.Context, taskID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE task_id = $1`, r.tables.Annotations)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, taskID).Scan(&count); err != nil {
		return 0, postgres.StoreError("count annotations", err)
	}
	return count, nil
}
