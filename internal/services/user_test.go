package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTRoundTrip(t *testing.T) {
	s := NewUserService(nil, "test-secret")

	token, err := s.GenerateJWT("user-1", "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	userID, username, err := s.ValidateJWT(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("expected user id user-1, got %q", userID)
	}
	if username != "alice" {
		t.Errorf("expected username alice, got %q", username)
	}
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	signer := NewUserService(nil, "secret-a")
	verifier := NewUserService(nil, "secret-b")

	token, err := signer.GenerateJWT("user-1", "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, _, err := verifier.ValidateJWT(token); err == nil {
		t.Error("expected validation to fail with a different secret")
	}
}

func TestValidateJWTRejectsExpiredToken(t *testing.T) {
	s := NewUserService(nil, "test-secret")

	claims := authClaims{
		UserID:   "user-1",
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, _, err := s.ValidateJWT(token); err == nil {
		t.Error("expected validation to fail for an expired token")
	}
}

func TestValidateJWTRejectsMissingUserID(t *testing.T) {
	s := NewUserService(nil, "test-secret")

	claims := authClaims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, _, err := s.ValidateJWT(token); err == nil {
		t.Error("expected validation to fail without a user_id claim")
	}
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	s := NewUserService(nil, "test-secret")
	if _, _, err := s.ValidateJWT("not-a-token"); err == nil {
		t.Error("expected validation to fail for malformed input")
	}
}
