package auth

import "github.com/golang-jwt/jwt/v5"

// Claims are the access token claims the API relies on
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// GetUserID returns the user ID from the subject claim
func (c *Claims) GetUserID() string {
	return c.Subject
}
