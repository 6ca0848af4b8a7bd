// Package session holds the client-held credential plus minimal
// profile, bounded by token expiry. The store is plain key-value:
// no business logic lives here.
package session

import (
	"context"
	"errors"
	"time"
)

// Storage keys under which the browser context persisted its state.
const (
	KeyToken = "access_token"
	KeyUser  = "user"
)

// ErrNoSession is returned when nothing is stored.
var ErrNoSession = errors.New("no session stored")

// Profile is the minimal user profile kept alongside the token.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is the authentication token and profile for one signed-in
// user. Created on login, destroyed on logout or detected expiry.
type Session struct {
	Token     string    `json:"token"`
	User      Profile   `json:"user"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists and retrieves the session. The value is only ever
// replaced atomically, never partially mutated, so concurrent readers
// (the polling checker, request handlers) never observe a torn write.
type Store interface {
	// Get returns the current session, or ErrNoSession.
	Get(ctx context.Context) (*Session, error)
	// Set replaces the stored session.
	Set(ctx context.Context, s *Session) error
	// Clear removes the stored session. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}
