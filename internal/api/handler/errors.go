package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/telran/accounting/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps a known domain error to its HTTP status and public message.
// ok is false for errors the caller should treat as internal.
func StatusFor(err error) (code int, msg string, ok bool) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "account not found", true
	case errors.Is(err, domain.ErrAccountExists):
		return http.StatusConflict, "account already exists", true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials", true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden", true
	case errors.Is(err, domain.ErrValidation):
		var ae *domain.AccountError
		if errors.As(err, &ae) && ae.Reason != "" {
			return http.StatusBadRequest, ae.Reason, true
		}
		return http.StatusBadRequest, "validation failed", true
	}
	return 0, "", false
}

// writeError renders err as a JSON envelope, logging anything unexpected.
func writeError(c echo.Context, log zerolog.Logger, err error) error {
	if code, msg, ok := StatusFor(err); ok {
		return c.JSON(code, errorResponse{Error: msg})
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("account request failed")
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}
