package http

import (
	"errors"
	"log"
	"net/http"

	"savings-group-backend/internal/domain/apperr"

	"github.com/labstack/echo/v4"
)

// Map domain errors → HTTP codes. StoreUnavailable is checked first because
// it may wrap the conflict that exhausted the retries.
var errorStatus = []struct {
	kind   error
	status int
	code   string
}{
	{apperr.ErrStoreUnavailable, http.StatusServiceUnavailable, "store_unavailable"},
	{apperr.ErrValidation, http.StatusUnprocessableEntity, "validation_error"},
	{apperr.ErrNotFound, http.StatusNotFound, "not_found"},
	{apperr.ErrInvalidState, http.StatusConflict, "invalid_state"},
	{apperr.ErrDuplicateVote, http.StatusConflict, "duplicate_vote"},
	{apperr.ErrUnauthorized, http.StatusForbidden, "unauthorized"},
	{apperr.ErrConflict, http.StatusServiceUnavailable, "conflict"},
}

// retryAfterSeconds is sent with 503s caused by contention or a store outage.
const retryAfterSeconds = "1"

func writeError(c echo.Context, err error) error {
	if apperr.IsRetryable(err) {
		c.Response().Header().Set("Retry-After", retryAfterSeconds)
	}
	for _, m := range errorStatus {
		if errors.Is(err, m.kind) {
			return c.JSON(m.status, ErrorResponse{Error: err.Error(), Code: m.code})
		}
	}
	log.Printf("http: unexpected error on %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Code:    "validation_error",
		Details: ToFieldErrors(err),
	})
}

func missingIdentity(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing Ax-Member-Id", Code: "unauthenticated"})
}
