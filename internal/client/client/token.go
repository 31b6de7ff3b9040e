package client

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// tokenExpired reports whether token is a JWT with an exp claim in the past.
// The signature is not verified: the server remains the authority, this
// only avoids a round trip that is bound to fail. Tokens that are not JWTs
// are treated as opaque and never expire locally.
func tokenExpired(token string) bool {
	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.After(timeNow())
}
