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

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) repo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (case_id, name, color, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.CaseID,
		folder.Name,
		folder.Color,
		folder.CreatedAt,
	).Scan(&folder.ID, &folder.CreatedAt)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			existingID, queryErr := r.getExistingFolderID(ctx, folder.CaseID, folder.Name)
			if queryErr != nil {
				return fmt.Errorf("folder '%s' already exists: %w", folder.Name, domain.ErrConflict)
			}
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder '%s' already exists", folder.Name),
				ResourceType: "folder",
				ResourceID:   existingID,
			}
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("case %s: %w", folder.CaseID, domain.ErrNotFound)
		}
		return postgres.StoreError("create folder", err)
	}

	return nil
}

// GetByID retrieves a folder scoped to a case
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, caseID string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, case_id, name, color, created_at
		FROM %s
		WHERE id = $1 AND case_id = $2
	`, r.tables.Folders)
	return r.getOne(ctx, query, id, caseID)
}

// GetByIDOnly retrieves a folder by ID without case scoping
func (r *PostgresFolderRepository) GetByIDOnly(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, case_id, name, color, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Folders)
	return r.getOne(ctx, query, id)
}

func (r *PostgresFolderRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Folder, error) {
	var folder models.Folder
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, args...).Scan(
		&folder.ID,
		&folder.CaseID,
		&folder.Name,
		&folder.Color,
		&folder.CreatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) || isInvalidUUID(err) {
			return nil, fmt.Errorf("folder %v: %w", args[0], domain.ErrNotFound)
		}
		return nil, postgres.StoreError("get folder", err)
	}
	return &folder, nil
}

// ListByCase lists a case's folders ordered by name
func (r *PostgresFolderRepository) ListByCase(ctx context.Context, caseID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, case_id, name, color, created_at
		FROM %s
		WHERE case_id = $1
		ORDER BY name ASC
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, caseID)
	if err != nil {
		return nil, postgres.StoreError("list folders", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		var folder models.Folder
		if err := rows.Scan(
			&folder.ID,
			&folder.CaseID,
			&folder.Name,
			&folder.Color,
			&folder.CreatedAt,
		); err != nil {
			return nil, postgres.StoreError("scan folder", err)
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.StoreError("iterate folders", err)
	}

	return folders, nil
}

// Delete deletes a folder. Attachments still filed in it block the delete.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id, caseID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND case_id = $2`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, caseID)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return &domain.ReferentialConflictError{ResourceType: "folder", ResourceID: id}
		}
		return postgres.StoreError("delete folder", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *PostgresFolderRepository) getExistingFolderID(ctx context.Context, caseID, name string) (string, error) {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE case_id = $1 AND name = $2`, r.tables.Folders)

	var id string
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, caseID, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}
