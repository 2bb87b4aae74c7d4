package authmw

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/favorites_api/pkg/logging"
)

const UserIDKey = "user_id"

// Authenticator resolves a bearer value to a user id.
type Authenticator interface {
	Authenticate(ctx context.Context, bearer string) (uint, error)
}

type BearerMiddleware struct {
	Auth Authenticator
}

func NewBearerMiddleware(a Authenticator) *BearerMiddleware {
	return &BearerMiddleware{Auth: a}
}

func (m *BearerMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx)

		bearer, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			l.Warn("auth_failed", "status", http.StatusUnauthorized, "reason", "missing bearer token")
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		userID, err := m.Auth.Authenticate(ctx, bearer)
		if err != nil {
			l.Warn("auth_failed", "status", http.StatusUnauthorized, "reason", "token rejected", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		c.Set(UserIDKey, userID)
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserID returns the id stored by RequireAuth.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(UserIDKey).(uint)
	return id, ok
}
