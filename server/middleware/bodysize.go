package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/soundguard/errors"
	"github.com/kbukum/soundguard/util"
)

const defaultMaxBodySize = 50 * 1024 * 1024

// BodySizeLimit rejects requests whose declared length exceeds maxSize
// and caps the body reader for the rest.
func BodySizeLimit(maxSize string) gin.HandlerFunc {
	limit := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			abortWithError(c, errors.PayloadTooLarge(limit))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
