package casework

import (
	"context"

	"casedesk/internal/domain/models/casework"
)

// StaffRepository reads the identity directory
type StaffRepository interface {
	// GetByID retrieves an account regardless of role
	GetByID(ctx context.Context, id string) (*casework.StaffIdentity, error)

	// List returns every account ordered by display name
	List(ctx context.Context) ([]casework.StaffIdentity, error)
}

// CaseRepository reads the case registry
type CaseRepository interface {
	// GetByID retrieves a case
	GetByID(ctx context.Context, id string) (*casework.Case, error)

	// IsMember reports whether userID has access to caseID
	IsMember(ctx context.Context, caseID, userID string) (bool, error)
}
