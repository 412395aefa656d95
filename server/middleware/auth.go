package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/soundguard/errors"
)

// TokenValidator checks a bearer token and returns its claims.
type TokenValidator func(token string) (map[string]any, error)

// AuthConfig configures Auth.
type AuthConfig struct {
	Validator TokenValidator
	// SkipPaths are path prefixes that need no token.
	SkipPaths []string
}

// Auth requires "Authorization: Bearer <token>" and copies the token's
// claims into the gin context.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, errors.Unauthorized("Authorization header required."))
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abortWithError(c, errors.Unauthorized("Invalid authorization header format."))
			return
		}

		claims, err := cfg.Validator(token)
		if err != nil {
			abortWithError(c, errors.Unauthorized("Invalid token.").WithCause(err))
			return
		}
		for key, value := range claims {
			c.Set(key, value)
		}
		c.Next()
	}
}
