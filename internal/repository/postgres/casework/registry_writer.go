package casework

import (
	"context"
	"fmt"
	"time"

	"casedesk/internal/domain"
	models "casedesk/internal/domain/models/casework"
	"casedesk/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RegistryWriter upserts registry records. The API never writes cases or
// accounts; the seed command does.
type RegistryWriter struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewRegistryWriter creates a registry writer
func NewRegistryWriter(config *postgres.RepositoryConfig) *RegistryWriter {
	return &RegistryWriter{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// PutStaff inserts or replaces a directory account
func (w *RegistryWriter) PutStaff(ctx context.Context, staff models.StaffIdentity) error {
	if staff.ID == "" {
		return fmt.Errorf("%w: staff id is required", domain.ErrValidation)
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, display_name, email, role, active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			active = EXCLUDED.active
	`, w.tables.Staff)

	executor := postgres.GetExecutor(ctx, w.pool)
	if _, err := executor.Exec(ctx, query, staff.ID, staff.DisplayName, staff.Email, staff.Role, staff.Active); err != nil {
		return postgres.StoreError("put staff", err)
	}
	return nil
}

// PutCase inserts or retitles a case. An empty ID is generated by the database.
func (w *RegistryWriter) PutCase(ctx context.Context, c *models.Case) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	executor := postgres.GetExecutor(ctx, w.pool)

	if c.ID == "" {
		query := fmt.Sprintf(`INSERT INTO %s (title, created_at) VALUES ($1, $2) RETURNING id`, w.tables.Cases)
		if err := executor.QueryRow(ctx, query, c.Title, c.CreatedAt).Scan(&c.ID); err != nil {
			return postgres.StoreError("create case", err)
		}
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title
		RETURNING created_at
	`, w.tables.Cases)
	if err := executor.QueryRow(ctx, query, c.ID, c.Title, c.CreatedAt).Scan(&c.CreatedAt); err != nil {
		if isInvalidUUID(err) {
			return fmt.Errorf("%w: case id %q is not a UUID", domain.ErrValidation, c.ID)
		}
		return postgres.StoreError("put case", err)
	}
	return nil
}

// AddMember grants userID access to caseID
func (w *RegistryWriter) AddMember(ctx context.Context, caseID, userID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (case_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, w.tables.CaseMembers)

	executor := postgres.GetExecutor(ctx, w.pool)
	if _, err := executor.Exec(ctx, query, caseID, userID); err != nil {
		if postgres.IsPgForeignKeyError(err) || isInvalidUUID(err) {
			return fmt.Errorf("case %s: %w", caseID, domain.ErrNotFound)
		}
		return postgres.StoreError("add case member", err)
	}
	return nil
}
