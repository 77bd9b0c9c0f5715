package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Encode signs a cookie token around the session secret, valid for
// expire from now.
func Encode(sessionSecret string, signingSecret string, expire time.Duration) (string, error) {
	if sessionSecret == "" {
		return "", fmt.Errorf("Encode: session secret is blank")
	}
	now := time.Now().UTC()
	claims := SessionClaims{
		Secret: sessionSecret,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(expire)),
		},
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(signingSecret))
	if err != nil {
		return "", fmt.Errorf("Encode: can't sign token: %w", err)
	}
	return signed, nil
}
