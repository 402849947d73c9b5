package auth

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"casedesk/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHMACVerifier_VerifyToken(t *testing.T) {
	v, err := NewHMACVerifier(testSecret, testLogger())
	if err != nil {
		t.Fatalf("NewHMACVerifier() error = %v", err)
	}

	valid, _ := SignHS256(testSecret, "staff-1", jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	expired, _ := SignHS256(testSecret, "staff-1", jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	wrongKey, _ := SignHS256("another-secret-value!", "staff-1", jwt.RegisteredClaims{})
	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Role: "authenticated"}).SignedString([]byte(testSecret))
	anon, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "x"},
		Role:             "anon",
	}).SignedString([]byte(testSecret))

	tests := []struct {
		name    string
		token   string
		wantSub string
		wantErr bool
	}{
		{"valid", valid, "staff-1", false},
		{"expired", expired, "", true},
		{"wrong key", wrongKey, "", true},
		{"missing subject", noSubject, "", true},
		{"anonymous", anon, "", true},
		{"garbage", "not-a-token", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.VerifyToken(tt.token)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrUnauthorized) {
					t.Errorf("VerifyToken() error = %v, want ErrUnauthorized", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("VerifyToken() error = %v", err)
			}
			if claims.GetUserID() != tt.wantSub {
				t.Errorf("subject = %q, want %q", claims.GetUserID(), tt.wantSub)
			}
		})
	}
}

func TestNewHMACVerifier_ShortSecret(t *testing.T) {
	if _, err := NewHMACVerifier("short", testLogger()); err == nil {
		t.Error("expected error for short secret")
	}
}
