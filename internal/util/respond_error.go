package util

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RespondError maps the service error taxonomy onto the HTTP boundary. Every
// controller goes through here so a typed failure is never surfaced as a 500.
func RespondError(c *gin.Context, err error) {
	switch {
	case IsValidation(err):
		UnprocessableEntity(c, err.Error())
	case errors.Is(err, ErrForbidden):
		Forbidden(c)
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c)
	case errors.Is(err, ErrInvalidState):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrAttemptLimit):
		Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrEmailRegistered):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidLogin):
		Unauthorized(c)
	default:
		LogInternalError(c, err)
	}
}
