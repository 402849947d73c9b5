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

// PostgresAttachmentRepository implements the AttachmentRepository interface
type PostgresAttachmentRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(config *postgres.RepositoryConfig) repo.AttachmentRepository {
	return &PostgresAttachmentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts one attachment row
func (r *PostgresAttachmentRepository) Create(ctx context.Context, a *models.Attachment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (task_id, display_name, original_name, size_bytes, mime_type,
			folder_id, uploader_id, content_location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, r.tables.Attachments)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		a.TaskID,
		a.DisplayName,
		a.OriginalName,
		a.SizeBytes,
		a.MimeType,
		a.FolderID,
		a.UploaderID,
		a.ContentLocation,
		a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("task or folder for attachment '%s': %w", a.DisplayName, domain.ErrNotFound)
		}
		return postgres.StoreError("create attachment", err)
	}

	return nil
}

// GetByID retrieves an attachment of taskID
func (r *PostgresAttachmentRepository) GetByID(ctx context.Context, taskID, id string) (*models.Attachment, error) {
	query := fmt.Sprintf(`
		SELECT id, task_id, display_name, original_name, size_bytes, mime_type,
			folder_id, uploader_id, created_at, content_location
		FROM %s
		WHERE id = $1 AND task_id = $2
	`, r.tables.Attachments)

	var a models.Attachment
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, taskID).Scan(
		&a.ID,
		&a.TaskID,
		&a.DisplayName,
		&a.OriginalName,
		&a.SizeBytes,
		&a.MimeType,
		&a.FolderID,
		&a.UploaderID,
		&a.CreatedAt,
		&a.ContentLocation,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) || isInvalidUUID(err) {
			return nil, fmt.Errorf("attachment %s: %w", id, domain.ErrNotFound)
		}
		return nil, postgres.StoreError("get attachment", err)
	}

	return &a, nil
}

// Delete removes an attachment of taskID
func (r *PostgresAttachmentRepository) Delete(ctx context.Context, taskID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND task_id = $2`, r.tables.Attachments)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, taskID)
	if err != nil {
		return postgres.StoreError("delete attachment", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("attachment %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByTask lists a task's attachments in commit order
func (r *PostgresAttachmentRepository) ListByTask(ctx context.Context, taskID string) ([]models.Attachment, error) {
	query := fmt.Sprintf(`
		SELECT id, task_id, display_name, original_name, size_bytes, mime_type,
			folder_id, uploader_id, created_at, content_location
		FROM %s
		WHERE task_id = $1
		ORDER BY created_at ASC, id ASC
	`, r.tables.Attachments)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, taskID)
	if err != nil {
		return nil, postgres.StoreError("list attachments", err)
	}
	defer rows.Close()

	attachments := []models.Attachment{}
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(
			&a.ID,
			&a.TaskID,
			&a.DisplayName,
			&a.OriginalName,
			&a.SizeBytes,
			&a.MimeType,
			&a.FolderID,
			&a.UploaderID,
			&a.CreatedAt,
			&a.ContentLocation,
		); err != nil {
			return nil, postgres.StoreError("scan attachment", err)
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.StoreError("iterate attachments", err)
	}

	return attachments, nil
}

// CountByFolder counts attachments filed into folderID
func (r *PostgresAttachmentRepository) CountByFolder(ctx context.Context, folderID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE folder_id = $1`, r.tables.Attachments)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, folderID).Scan(&count); err != nil {
		return 0, postgres.StoreError("count folder attachments", err)
	}
	return count, nil
}
