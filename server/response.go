package server

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/soundguard/errors"
)

// RespondWithError writes err's structured body. Errors that are not an
// *AppError become a 500 INTERNAL_ERROR.
func RespondWithError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	c.JSON(appErr.HTTPStatus, appErr.ToResponse())
}
