package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/favorites_api/internal/service"
	"github.com/Skotchmaster/favorites_api/internal/transport"
	"github.com/Skotchmaster/favorites_api/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

// Register godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body transport.RegisterRequest true "Registration data"
// @Success 201 {object} transport.UserResponse
// @Failure 400 {object} object{message=string}
// @Failure 409 {object} object{message=string}
// @Failure 422 {object} object{errors=[]validation.FieldError}
// @Router /auth/register [post]
func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "register", err)
	}

	user, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return fail(l, "register", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

// Login answers every failure, a malformed body included, with 401.
//
// @Summary Issue a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body transport.LoginRequest true "Credentials"
// @Success 200 {object} transport.TokenResponse
// @Failure 401 {object} object{message=string}
// @Router /auth/login [post]
func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", http.StatusUnauthorized, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login", err)
	}

	l.Info("login_success")
	return c.JSON(http.StatusOK, token)
}
