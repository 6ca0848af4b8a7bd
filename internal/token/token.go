// Package token classifies the session token by its embedded expiry.
// The gateway never verifies the signature; the backend owns
// authentication, this layer only decides when a token stops being
// worth presenting. A token that fails to decode is treated the same
// as an expired one.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned when a token carries no exp claim.
var ErrNoExpiry = errors.New("token has no expiry claim")

var parser = jwt.NewParser()

// ExpiresAt decodes the token's expiry claim without verifying the
// signature.
func ExpiresAt(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}

// IsValid reports whether the token is well-formed and not yet
// expired. Malformed and unparsable tokens are invalid (fail closed).
func IsValid(token string) bool {
	exp, err := ExpiresAt(token)
	if err != nil {
		return false
	}
	return time.Now().Before(exp)
}

// IsExpiringSoon reports whether a still-valid token expires within
// the given window.
func IsExpiringSoon(token string, window time.Duration) bool {
	exp, err := ExpiresAt(token)
	if err != nil {
		return false
	}
	now := time.Now()
	if !now.Before(exp) {
		return false
	}
	return exp.Sub(now) <= window
}
