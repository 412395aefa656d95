// Package middleware provides the gin middleware stack for the HTTP server.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/soundguard/errors"
)

// abortWithError writes err's structured body and stops the chain.
func abortWithError(c *gin.Context, err *errors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse())
}
