package casework

import "time"

// Role of a directory account.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLawyer    Role = "lawyer"
	RoleParalegal Role = "paralegal"
	RoleAssistant Role = "assistant"
	RoleClient    Role = "client"
	// RoleOwner is the firm account; its display name is the firm itself.
	RoleOwner Role = "owner"
)

// StaffIdentity is a directory account.
type StaffIdentity struct {
	ID          string `json:"id" db:"id"`
	DisplayName string `json:"display_name" db:"display_name"`
	Email       string `json:"email" db:"email"`
	Role        Role   `json:"role" db:"role"`
	Active      bool   `json:"active" db:"active"`
}

// Assignable reports whether the identity may be given tasks. Clients and the
// owner account never are.
func (s StaffIdentity) Assignable() bool {
	if !s.Active {
		return false
	}
	switch s.Role {
	case RoleClient, RoleOwner:
		return false
	}
	return true
}

// Case is the registry record of a legal matter (expediente).
type Case struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
