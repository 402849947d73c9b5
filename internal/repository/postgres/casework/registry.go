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

// PostgresStaffRepository implements the StaffRepository interface
type PostgresStaffRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(config *postgres.RepositoryConfig) repo.StaffRepository {
	return &PostgresStaffRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByID retrieves an account regardless of role
func (r *PostgresStaffRepository) GetByID(ctx context.Context, id string) (*models.StaffIdentity, error) {
	query := fmt.Sprintf(`
		SELECT id, display_name, email, role, active
		FROM %s
		WHERE id = $1
	`, r.tables.Staff)

	var s models.StaffIdentity
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(&s.ID, &s.DisplayName, &s.Email, &s.Role, &s.Active)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("staff %s: %w", id, domain.ErrNotFound)
		}
		return nil, postgres.StoreError("get staff", err)
	}
	return &s, nil
}

// List returns every account ordered by display name
func (r *PostgresStaffRepository) List(ctx context.Context) ([]models.StaffIdentity, error) {
	query := fmt.Sprintf(`
		SELECT id, display_name, email, role, active
		FROM %s
		ORDER BY display_name ASC, id ASC
	`, r.tables.Staff)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, postgres.StoreError("list staff", err)
	}
	defer rows.Close()

	staff := []models.StaffIdentity{}
	for rows.Next() {
		var s models.StaffIdentity
		if err := rows.Scan(&s.ID, &s.DisplayName, &s.Email, &s.Role, &s.Active); err != nil {
			return nil, postgres.StoreError("scan staff", err)
		}
		staff = append(staff, s)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.StoreError("iterate staff", err)
	}
	return staff, nil
}

// PostgresCaseRepository implements the CaseRepository interface
type PostgresCaseRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(config *postgres.RepositoryConfig) repo.CaseRepository {
	return &PostgresCaseRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByID retrieves a case
func (r *PostgresCaseRepository) GetByID(ctx context.Context, id string) (*models.Case, error) {
	query := fmt.Sprintf(`SELECT id, title, created_at FROM %s WHERE id = $1`, r.tables.Cases)

	var c models.Case
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(&c.ID, &c.Title, &c.CreatedAt)
	if err != nil {
		if postgres.IsPgNoRowsError(err) || isInvalidUUID(err) {
			return nil, fmt.Errorf("case %s: %w", id, domain.ErrNotFound)
		}
		return nil, postgres.StoreError("get case", err)
	}
	return &c, nil
}

// IsMember reports whether userID is a member of caseID
func (r *PostgresCaseRepository) IsMember(ctx context.Context, caseID, userID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE case_id = $1 AND user_id = $2)
	`, r.tables.CaseMembers)

	var member bool
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, caseID, userID).Scan(&member); err != nil {
		if isInvalidUUID(err) {
			return false, nil
		}
		return false, postgres.StoreError("check case membership", err)
	}
	return member, nil
}
