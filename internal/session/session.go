// Package session holds the process-wide sign-in state consumed by the HTTP
// client. The identity provider itself is external; this layer only stores
// the bearer credential it issued and refuses to hand out an expired one.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrExpired reports that the stored credential is past its exp claim.
var ErrExpired = errors.New("session token expired")

// Session stores the active bearer credential. Populated on sign-in, cleared
// on sign-out; read by every outgoing request and never mutated elsewhere.
type Session struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

func New() *Session {
	return &Session{now: time.Now}
}

// SignIn stores the credential. If it is a JWT, its exp claim drives expiry
// checks; opaque tokens never expire locally.
func (s *Session) SignIn(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.expiresAt = time.Time{}
	claims := jwt.RegisteredClaims{}
	// The client cannot verify the provider's signature and does not need
	// to; only the expiry matters here.
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err == nil && claims.ExpiresAt != nil {
		s.expiresAt = claims.ExpiresAt.Time
	}
}

// SignOut clears the credential.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiresAt = time.Time{}
}

// Active reports whether a credential is stored.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token implements api.TokenSource. No session yields an empty token, not an
// error; requests then go out unauthenticated.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", nil
	}
	if !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt) {
		return "", ErrExpired
	}
	return s.token, nil
}
