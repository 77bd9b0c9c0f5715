package jwt

import (
	"fmt"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Decode verifies the cookie token and hands back its claims. Expired
// and tampered tokens both come back as errors.
func Decode(tokenString string, signingSecret string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwtlib.ParseWithClaims(tokenString, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(signingSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("Decode: %w", err)
	}
	if !token.Valid || claims.Secret == "" {
		return nil, fmt.Errorf("Decode: invalid token")
	}
	return claims, nil
}
