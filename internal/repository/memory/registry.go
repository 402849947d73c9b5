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

// StaffRepository implements the StaffRepository interface over a Store
type StaffRepository struct {
	store *Store
}

// GetByID retrieves an account regardless of role
func (r *StaffRepository) GetByID(ctx context.Context, id string) (*models.StaffIdentity, error) {
	var out *models.StaffIdentity
	err := r.store.read(ctx, func(st *state) error {
		s, ok := st.staff[id]
		if !ok {
			return fmt.Errorf("staff %s: %w", id, domain.ErrNotFound)
		}
		out = &s
		return nil
	})
	return out, err
}

// List returns every account ordered by display name
func (r *StaffRepository) List(ctx context.Context) ([]models.StaffIdentity, error) {
	staff := []models.StaffIdentity{}
	err := r.store.read(ctx, func(st *state) error {
		for _, s := range st.staff {
			staff = append(staff, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(staff, func(i, j int) bool {
		if staff[i].DisplayName != staff[j].DisplayName {
			return staff[i].DisplayName < staff[j].DisplayName
		}
		return staff[i].ID < staff[j].ID
	})
	return staff, nil
}

// CaseRepository implements the CaseRepository interface over a Store
type CaseRepository struct {
	store *Store
}

// GetByID retrieves a case
func (r *CaseRepository) GetByID(ctx context.Context, id string) (*models.Case, error) {
	var out *models.Case
	err := r.store.read(ctx, func(st *state) error {
		c, ok := st.cases[id]
		if !ok {
			return fmt.Errorf("case %s: %w", id, domain.ErrNotFound)
		}
		out = &c
		return nil
	})
	return out, err
}

// IsMember reports whether userID is a member of caseID
func (r *CaseRepository) IsMember(ctx context.Context, caseID, userID string) (bool, error) {
	member := false
	err := r.store.read(ctx, func(st *state) error {
		member = st.members[caseID][userID]
		return nil
	})
	return member, err
}

// PutCase inserts or replaces a case. An empty ID is generated.
func (s *Store) PutCase(ctx context.Context, c *models.Case) error {
	return s.write(ctx, "cases.put", func(st *state) error {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now().UTC()
		}
		st.cases[c.ID] = *c
		return nil
	})
}

// AddMember grants userID access to caseID
func (s *Store) AddMember(ctx context.Context, caseID, userID string) error {
	return s.write(ctx, "cases.add_member", func(st *state) error {
		if _, ok := st.cases[caseID]; !ok {
			return fmt.Errorf("case %s: %w", caseID, domain.ErrNotFound)
		}
		if st.members[caseID] == nil {
			st.members[caseID] = make(map[string]bool)
		}
		st.members[caseID][userID] = true
		return nil
	})
}

// PutStaff inserts or replaces a directory account
func (s *Store) PutStaff(ctx context.Context, staff models.StaffIdentity) error {
	return s.write(ctx, "staff.put", func(st *state) error {
		if staff.ID == "" {
			return fmt.Errorf("%w: staff id is required", domain.ErrValidation)
		}
		st.staff[staff.ID] = staff
		return nil
	})
}
