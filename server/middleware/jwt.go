package middleware

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// HS256Validator verifies HMAC-SHA256 tokens signed with secret. When
// issuer is set the iss claim must match it.
func HS256Validator(secret []byte, issuer string) TokenValidator {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(token string) (map[string]any, error) {
		claims := jwt.MapClaims{}
		parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
			return secret, nil
		})
		if err != nil {
			return nil, fmt.Errorf("parse token: %w", err)
		}
		if !parsed.Valid {
			return nil, fmt.Errorf("token is not valid")
		}
		return claims, nil
	}
}
