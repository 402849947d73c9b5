package casework

import (
	"context"
	"fmt"

	"casedesk/internal/domain"
	models "casedesk/internal/domain/models/casework"
	repo "casedesk/internal/domain/repositories/casework"
	svc "casedesk/internal/domain/services/casework"
)

type staffDirectory struct {
	staffRepo repo.StaffRepository
}

// NewStaffDirectory creates the assignee directory over the account registry
func NewStaffDirectory(staffRepo repo.StaffRepository) svc.StaffDirectory {
	return &staffDirectory{staffRepo: staffRepo}
}

// ResolveStaff returns an assignable identity. Clients, the owner account and
// inactive accounts resolve as not found.
func (d *staffDirectory) ResolveStaff(ctx context.Context, id string) (*models.StaffIdentity, error) {
	if id == "" {
		return nil, fmt.Errorf("staff id is empty: %w", domain.ErrNotFound)
	}
	staff, err := d.staffRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !staff.Assignable() {
		return nil, fmt.Errorf("staff %s: %w", id, domain.ErrNotFound)
	}
	return staff, nil
}

// ListAssignable lists every identity ResolveStaff would accept
func (d *staffDirectory) ListAssignable(ctx context.Context) ([]models.StaffIdentity, error) {
	all, err := d.staffRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.StaffIdentity, 0, len(all))
	for _, s := range all {
		if s.Assignable() {
			out = append(out, s)
		}
	}
	return out, nil
}
