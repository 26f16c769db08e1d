package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret-at-least-32-chars-long-for-security"

func TestVerifier_SignAndValidate_Success(t *testing.T) {
	v := NewVerifier(testSecret, "https://auth.example.com", "authenticated")
	userID := uuid.New()

	token, err := v.SignAccessToken(userID, 15*time.Minute)
	if err != nil {
		t.Fatalf("SignAccessToken failed: %v", err)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("expected 3 JWT parts, got %d", len(parts))
	}

	got, err := v.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if got != userID {
		t.Errorf("userID = %v, want %v", got, userID)
	}
}

func TestVerifier_ValidateToken_Rejects(t *testing.T) {
	v := NewVerifier(testSecret, "https://auth.example.com", "authenticated")
	userID := uuid.New()

	sign := func(secret string, method jwt.SigningMethod, claims jwt.RegisteredClaims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}
	valid := func() jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    "https://auth.example.com",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	wrongAud := valid()
	wrongAud.Audience = jwt.ClaimStrings{"anon"}
	wrongIss := valid()
	wrongIss.Issuer = "https://evil.example.com"
	badSubject := valid()
	badSubject.Subject = "not-a-uuid"
	noExpiry := valid()
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"wrong secret", sign("another-secret-at-least-32-chars-long!!", jwt.SigningMethodHS256, valid())},
		{"wrong method", sign(testSecret, jwt.SigningMethodHS512, valid())},
		{"expired", sign(testSecret, jwt.SigningMethodHS256, expired)},
		{"wrong audience", sign(testSecret, jwt.SigningMethodHS256, wrongAud)},
		{"wrong issuer", sign(testSecret, jwt.SigningMethodHS256, wrongIss)},
		{"bad subject", sign(testSecret, jwt.SigningMethodHS256, badSubject)},
		{"no expiry", sign(testSecret, jwt.SigningMethodHS256, noExpiry)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateToken(context.Background(), tt.token)
			if err == nil {
				t.Fatalf("expected error, got user %v", got)
			}
			if got != uuid.Nil {
				t.Errorf("userID = %v, want uuid.Nil", got)
			}
		})
	}
}

func TestVerifier_EmptyIssuerSkipsCheck(t *testing.T) {
	signer := NewVerifier(testSecret, "anything", "authenticated")
	v := NewVerifier(testSecret, "", "authenticated")
	userID := uuid.New()

	token, err := signer.SignAccessToken(userID, time.Minute)
	if err != nil {
		t.Fatalf("SignAccessToken failed: %v", err)
	}
	got, err := v.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if got != userID {
		t.Errorf("userID = %v, want %v", got, userID)
	}
}
