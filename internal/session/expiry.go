// ABOUTME: Local expiry check for JWT bearer tokens
// ABOUTME: Reads the exp claim without verifying the signature

package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expired reports whether token is a JWT whose exp claim is before now.
// Opaque (non-JWT) tokens and tokens without exp are never considered expired;
// the server stays the authority on validity.
func Expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.Before(now)
}
