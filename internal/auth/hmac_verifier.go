package auth

import (
	"errors"
	"log/slog"

	"casedesk/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// HMACVerifier implements JWTVerifier for HS256 tokens signed with a shared
// secret. Used for local development and tests.
type HMACVerifier struct {
	secret []byte
	logger *slog.Logger
}

// NewHMACVerifier creates a shared-secret verifier
func NewHMACVerifier(secret string, logger *slog.Logger) (JWTVerifier, error) {
	if len(secret) < 16 {
		return nil, errors.New("JWT secret must be at least 16 bytes")
	}
	return &HMACVerifier{secret: []byte(secret), logger: logger}, nil
}

// VerifyToken validates an HS256 token and extracts its claims
func (v *HMACVerifier) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return nil, domain.ErrUnauthorized
	}
	return checkClaims(token, v.logger)
}

// Close releases nothing
func (v *HMACVerifier) Close() error { return nil }

// SignHS256 issues a token for userID. Used by the seed tool and tests.
func SignHS256(secret, userID string, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = userID
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: claims, Role: "authenticated"})
	return token.SignedString([]byte(secret))
}
