package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expiryLeeway avoids sending a token that will expire in flight.
const expiryLeeway = 30 * time.Second

// TokenExpired reports whether the JWT's exp claim is within expiryLeeway
// of the past. An empty token is expired. Opaque (non-JWT) tokens and
// tokens without an exp claim report false, leaving the decision to the
// server.
func TokenExpired(token string) bool {
	if token == "" {
		return true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < expiryLeeway
}
