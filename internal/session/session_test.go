package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestSignedOutYieldsEmptyToken(t *testing.T) {
	s := New()
	token, err := s.Token(context.Background())
	if err != nil || token != "" {
		t.Fatalf("expected empty token, got %q err=%v", token, err)
	}
	if s.Active() {
		t.Fatalf("fresh session must not be active")
	}
}

func TestOpaqueTokenNeverExpiresLocally(t *testing.T) {
	s := New()
	s.SignIn("opaque-credential")
	if !s.Active() {
		t.Fatalf("expected active session")
	}
	token, err := s.Token(context.Background())
	if err != nil || token != "opaque-credential" {
		t.Fatalf("expected stored token, got %q err=%v", token, err)
	}
}

func TestJWTExpiryIsHonored(t *testing.T) {
	s := New()
	now := time.Now()
	s.now = func() time.Time { return now }
	s.SignIn(signedToken(t, now.Add(time.Hour)))

	if _, err := s.Token(context.Background()); err != nil {
		t.Fatalf("token should be valid: %v", err)
	}
	now = now.Add(2 * time.Hour)
	if _, err := s.Token(context.Background()); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestSignOutClears(t *testing.T) {
	s := New()
	s.SignIn(signedToken(t, time.Now().Add(time.Hour)))
	s.SignOut()
	if s.Active() {
		t.Fatalf("expected inactive after sign-out")
	}
	token, err := s.Token(context.Background())
	if err != nil || token != "" {
		t.Fatalf("expected empty token after sign-out, got %q err=%v", token, err)
	}
}
