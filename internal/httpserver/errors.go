package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/favorites_api/internal/service"
	"github.com/Skotchmaster/favorites_api/internal/validation"
	authmw "github.com/Skotchmaster/favorites_api/pkg/middleware/auth"
)

// fail logs err under "<op>_failed" and turns it into the matching HTTP error.
func fail(l *slog.Logger, op string, err error) error {
	event := op + "_failed"

	var ve *validation.Error
	if errors.As(err, &ve) {
		l.Warn(event, "status", http.StatusUnprocessableEntity, "reason", "validation failed", "error", err)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, echo.Map{"errors": ve.Fields})
	}

	status, msg := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, service.ErrCustomerNotFound):
		status, msg = http.StatusNotFound, "Customer not found"
	case errors.Is(err, service.ErrFavoriteNotFound):
		status, msg = http.StatusNotFound, "Favorite not found"
	case errors.Is(err, service.ErrNotFound):
		status, msg = http.StatusNotFound, "Not found"
	case errors.Is(err, service.ErrAlreadyFavorited):
		status, msg = http.StatusConflict, "Already favorited"
	case errors.Is(err, service.ErrEmailInUse):
		status, msg = http.StatusConflict, "Email already in use"
	case errors.Is(err, service.ErrConflict):
		status, msg = http.StatusConflict, "Conflict"
	case errors.Is(err, service.ErrInvalidProduct):
		status, msg = http.StatusBadRequest, "Invalid product"
	case errors.Is(err, service.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "Invalid credentials"
	}

	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", msg, "error", err)
	} else {
		l.Warn(event, "status", status, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(status, msg)
}

func badBody(l *slog.Logger, op string, err error) error {
	l.Warn(op+"_failed", "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
}

// pathID parses a numeric route parameter. Anything else yields 0, which the
// workflows report as not found.
func pathID(c echo.Context, name string) uint {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// actorID is the authenticated user behind a gated request, 0 on open routes.
func actorID(c echo.Context) uint {
	id, _ := authmw.UserID(c)
	return id
}
