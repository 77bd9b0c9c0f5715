package jwt

import jwtlib "github.com/golang-jwt/jwt/v5"

// SessionClaims is everything the session cookie carries: the opaque
// secret pointing at the server-side session row, plus the usual
// timestamps.
type SessionClaims struct {
	Secret string `json:"secret"`
	jwtlib.RegisteredClaims
}
