package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/domain"
)

// fail maps a service error onto one HTTP status and a short message, logging
// it under event. Unknown errors become an opaque 500.
func fail(l *slog.Logger, event string, err error) error {
	var fe domain.FieldErrors
	if errors.As(err, &fe) {
		l.Warn(event, "status", 400, "reason", "validation failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"message": "validation failed", "fields": fe})
	}

	code, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, domain.ErrValidation):
		code, msg = http.StatusBadRequest, "invalid request"
	case errors.Is(err, domain.ErrUnauthorized):
		code, msg = http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domain.ErrForbidden):
		code, msg = http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		code, msg = http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrConflict):
		code, msg = http.StatusConflict, "conflict"
	}

	if code == http.StatusInternalServerError {
		l.Error(event, "status", code, "error", err)
		return echo.NewHTTPError(code, msg)
	}

	var de *domain.Error
	if errors.As(err, &de) {
		msg = de.Msg
	}
	l.Warn(event, "status", code, "reason", msg)
	return echo.NewHTTPError(code, msg)
}

// bind decodes and validates the request body into dst.
func bind(c echo.Context, l *slog.Logger, event string, dst any) error {
	if err := c.Bind(dst); err != nil {
		l.Warn(event, "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(dst); err != nil {
		return fail(l, event, err)
	}
	return nil
}
