package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dukerupert/skald/internal/domain"
)

const testSecret = "test-secret-for-token-tests"

func signToken(t *testing.T, claims Claims, secret string, method jwt.SigningMethod) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims(role domain.Role) Claims {
	return Claims{
		UserID: uuid.NewString(),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestVerifyToken(t *testing.T) {
	claims := validClaims(domain.RoleSubAdmin)
	token := signToken(t, claims, testSecret, jwt.SigningMethodHS256)

	identity, err := VerifyToken(token, testSecret)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if identity.UserID.String() != claims.UserID {
		t.Errorf("user ID = %s, want %s", identity.UserID, claims.UserID)
	}
	if identity.Role != domain.RoleSubAdmin {
		t.Errorf("role = %q, want subAdmin", identity.Role)
	}
}

func TestVerifyToken_Rejections(t *testing.T) {
	expired := validClaims(domain.RoleUser)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	badUserID := validClaims(domain.RoleUser)
	badUserID.UserID = "not-a-uuid"

	badRole := validClaims(domain.RoleUser)
	badRole.Role = "superuser"

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"wrong secret", signToken(t, validClaims(domain.RoleUser), "other-secret", jwt.SigningMethodHS256)},
		{"expired", signToken(t, expired, testSecret, jwt.SigningMethodHS256)},
		{"invalid user id claim", signToken(t, badUserID, testSecret, jwt.SigningMethodHS256)},
		{"invalid role claim", signToken(t, badRole, testSecret, jwt.SigningMethodHS256)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyToken(tt.token, testSecret); err == nil {
				t.Error("VerifyToken() accepted an invalid token")
			}
		})
	}
}
