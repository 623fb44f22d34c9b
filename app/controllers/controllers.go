// Package controllers maps HTTP requests onto the service layer and
// translates service errors into status codes.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/influex/app/services"
	"github.com/shashiranjanraj/influex/pkg/ctx"
)

// respondErr maps a service error to the matching HTTP status. Unknown
// errors become a 500 with a generic message so internals never leak.
func respondErr(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrOTPInvalid),
		errors.Is(err, services.ErrSessionExpired),
		errors.Is(err, services.ErrBadSignature):
		c.Error(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Error(http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrRoleMismatch),
		errors.Is(err, services.ErrOTPRequired),
		errors.Is(err, services.ErrForbidden):
		c.Error(http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		c.Error(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrDuplicateAccount):
		c.Error(http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInactive):
		c.Error(http.StatusGone, err.Error())
	default:
		c.Error(http.StatusInternalServerError, "Something went wrong")
	}
}
